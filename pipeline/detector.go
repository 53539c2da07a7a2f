package pipeline

import (
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/config"
	"github.com/khaledhikmat/aqs-go/service/inference"
)

// decodeGrid reduces the detector's anchor grid to the single best box plus
// a capped count of anchors above threshold. This is arg-max selection, not
// NMS: at most one subject is ever reported per frame.
func decodeGrid(out *model.Tensor, params config.DetectorParameters) (model.BoundingBox, int, error) {
	stride := 4 + params.ClassCount
	if stride <= 4 || len(out.Data) == 0 || len(out.Data)%stride != 0 {
		return model.BoundingBox{}, 0, model.ShapeMismatch{
			Want: params.AnchorCount * stride,
			Got:  len(out.Data),
		}
	}

	anchors := len(out.Data) / stride
	count := 0
	bestScore := float32(0)
	bestIdx := -1

	for i := 0; i < anchors; i++ {
		row := out.Data[i*stride : (i+1)*stride]

		// Max class score decides whether this anchor counts at all.
		score := row[4]
		for _, s := range row[5:] {
			if s > score {
				score = s
			}
		}

		if score <= params.ScoreThreshold {
			continue
		}
		if count < params.MaxDetections {
			count++
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return params.FallbackBox, 0, nil
	}

	row := out.Data[bestIdx*stride:]
	cx, cy, w, h := row[0], row[1], row[2], row[3]

	box := model.BoundingBox{
		YMin: cy - h/2,
		XMin: cx - w/2,
		YMax: cy + h/2,
		XMax: cx + w/2,
	}

	// Anchors are either already normalized or in the detector's native grid
	// units. Small center and width mean normalized; otherwise scale down by
	// the grid size.
	if !(cx < params.NormalizedCutoff && w < params.NormalizedCutoff) {
		grid := float32(params.InputSize)
		box.YMin /= grid
		box.XMin /= grid
		box.YMax /= grid
		box.XMax /= grid
	}

	return box.Clamp(), count, nil
}

// detect runs the detector model and decodes its grid. Any failure here is
// hard: the caller falls back to the fully fixed result.
func (a *Analyzer) detect(input *model.Tensor) (model.BoundingBox, int, error) {
	handle := a.svcs.InferSvc.Detector()
	if handle == nil {
		return model.BoundingBox{}, 0, model.DetectionFailure{Inner: xerrors.New("no detector handle")}
	}

	params := a.svcs.CfgSvc.GetDetectorParameters()

	out, err := handle.Predict(input)
	if err != nil {
		return model.BoundingBox{}, 0, model.DetectionFailure{Inner: err}
	}

	tensors, err := inference.Flatten(out, params.OutputOrder)
	if err != nil {
		return model.BoundingBox{}, 0, model.DetectionFailure{Inner: err}
	}
	defer inference.CloseAll(tensors) // Crucial to close the tensors to avoid memory leaks

	box, count, err := decodeGrid(tensors[0], params)
	if err != nil {
		return model.BoundingBox{}, 0, model.DetectionFailure{Inner: err}
	}

	return box, count, nil
}
