package pipeline

import (
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/inference"
)

// classification carries the normalized classifier outputs for one call.
// Vectors are host copies; the stage's transient tensors are already closed
// by the time this struct exists.
type classification struct {
	species      []float32
	disease      []float32
	freshness    float32
	hasFreshness bool
}

// classify runs the species model (and the disease model when configured)
// on the cropped region. All three model output shapes are normalized into
// a positional list before any index-based access.
func (a *Analyzer) classify(region *model.Tensor) (classification, error) {
	params := a.svcs.CfgSvc.GetClassifierParameters()
	speciesLabels := a.svcs.CfgSvc.GetSpeciesLabels()
	diseaseLabels := a.svcs.CfgSvc.GetDiseaseLabels()

	handle := a.svcs.InferSvc.Classifier()
	if handle == nil {
		return classification{}, model.ClassificationFailure{Inner: xerrors.New("no classifier handle")}
	}

	out, err := handle.Predict(region)
	if err != nil {
		return classification{}, model.ClassificationFailure{Inner: err}
	}

	tensors, err := inference.Flatten(out, params.OutputOrder)
	if err != nil {
		return classification{}, model.ClassificationFailure{Inner: err}
	}
	defer inference.CloseAll(tensors) // Crucial to close the tensors to avoid memory leaks

	result := classification{
		freshness: params.DefaultFreshness,
	}

	if len(tensors[0].Data) != len(speciesLabels) {
		return classification{}, model.ClassificationFailure{
			Inner: model.ShapeMismatch{Want: len(speciesLabels), Got: len(tensors[0].Data)},
		}
	}
	result.species = append([]float32(nil), tensors[0].Data...)

	disease := a.svcs.InferSvc.DiseaseClassifier()
	if disease != nil {
		vector, err := a.classifyDisease(disease, region, len(diseaseLabels))
		if err != nil {
			return classification{}, err
		}
		result.disease = vector
	} else {
		// Multi-head classifier: the disease vector rides on the same call.
		if len(tensors) < 2 {
			return classification{}, model.ClassificationFailure{
				Inner: model.ShapeMismatch{Want: 2, Got: len(tensors)},
			}
		}
		if len(tensors[1].Data) != len(diseaseLabels) {
			return classification{}, model.ClassificationFailure{
				Inner: model.ShapeMismatch{Want: len(diseaseLabels), Got: len(tensors[1].Data)},
			}
		}
		result.disease = append([]float32(nil), tensors[1].Data...)
	}

	// The freshness head is optional. Without it the score is a documented
	// constant, not a computed value.
	if params.FreshnessHead && len(tensors) > 2 && len(tensors[2].Data) > 0 {
		result.freshness = tensors[2].Data[0]
		result.hasFreshness = true
	}

	return result, nil
}

func (a *Analyzer) classifyDisease(handle inference.Handle, region *model.Tensor, classes int) ([]float32, error) {
	out, err := handle.Predict(region)
	if err != nil {
		return nil, model.ClassificationFailure{Inner: err}
	}

	tensors, err := inference.Flatten(out, nil)
	if err != nil {
		return nil, model.ClassificationFailure{Inner: err}
	}
	defer inference.CloseAll(tensors) // Crucial to close the tensors to avoid memory leaks

	if len(tensors[0].Data) != classes {
		return nil, model.ClassificationFailure{
			Inner: model.ShapeMismatch{Want: classes, Got: len(tensors[0].Data)},
		}
	}

	return append([]float32(nil), tensors[0].Data...), nil
}
