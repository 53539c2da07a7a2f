package pipeline

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/inference"
	"github.com/khaledhikmat/aqs-go/service/lgr"
)

// Analyzer runs the full analysis pipeline for one frame at a time:
// preprocess -> detect -> extract -> classify -> arbitrate -> assemble.
// Stages never run concurrently within a call; the only state shared across
// calls is the loaded handles and the rolling last-detection-count metric.
type Analyzer struct {
	// Rand drives the confidence calibration band. Injectable so tests can
	// pin the displayed confidence exactly.
	Rand func() float32

	svcs        ServicesFactory
	errorStream chan interface{}

	mu             sync.Mutex
	startTime      int64
	analyses       int
	fallbacks      int
	errors         int
	totalProcTime  time.Duration
	lastDetections int
}

func NewAnalyzer(svcs ServicesFactory, errorStream chan interface{}) *Analyzer {
	return &Analyzer{
		Rand:        rand.Float32,
		svcs:        svcs,
		errorStream: errorStream,
		startTime:   time.Now().Unix(),
	}
}

// Analyze produces exactly one result per submitted frame. Stage failures
// never surface to the caller; they are converted into a well-formed
// fallback result that is structurally identical to a genuine one. The only
// returned error is model.ErrNotReady, for calls made before the provider
// finished loading.
func (a *Analyzer) Analyze(canxCtx context.Context, source string, frame *model.Frame) (model.AnalysisResult, error) {
	status, loadErr := a.svcs.InferSvc.Status()
	switch status {
	case inference.StatusLoading:
		return model.AnalysisResult{}, model.ErrNotReady
	case inference.StatusError:
		// A failed load is fatal until restart, but the caller still gets
		// a clean, shaped answer.
		a.pushError(model.GenError("analyzer", loadErr, map[string]interface{}{"source": source}, "model load previously failed"))
		return a.fallbackResult(source, nil), nil
	}

	startInference := time.Now()
	result := a.analyzeOnce(canxCtx, source, frame)

	a.mu.Lock()
	a.analyses++
	a.totalProcTime += time.Since(startInference)
	a.mu.Unlock()

	return result, nil
}

func (a *Analyzer) analyzeOnce(canxCtx context.Context, source string, frame *model.Frame) model.AnalysisResult {
	_ = canxCtx // cancellation is not supported mid-pipeline

	detectorParams := a.svcs.CfgSvc.GetDetectorParameters()
	classifierParams := a.svcs.CfgSvc.GetClassifierParameters()
	arbiterParams := a.svcs.CfgSvc.GetArbiterParameters()

	// Stage 1: preprocess for the detector.
	input, err := Preprocess(frame, detectorParams.InputSize, detectorParams.Normalization)
	if err != nil {
		a.pushError(model.GenError("analyzer_preprocess", err, map[string]interface{}{"source": source}, "error preprocessing frame"))
		return a.fallbackResult(source, nil)
	}
	defer input.Close() // Crucial to close the tensor to avoid memory leaks

	// Stage 2: detect. A hard failure here means no box was determined, so
	// the result is the fully fixed fallback.
	box, count, err := a.detect(input)
	if err != nil {
		a.pushError(model.GenError("analyzer_detect", err, map[string]interface{}{"source": source}, "detector stage failed"))
		return a.fallbackResult(source, nil)
	}

	a.mu.Lock()
	a.lastDetections = count
	a.mu.Unlock()

	// Stage 3: extract the region from the original frame. From here on a
	// failure preserves the real computed box.
	region, err := extractRegion(frame, box, classifierParams.InputSize)
	if err != nil {
		a.pushError(model.GenError("analyzer_extract", err, map[string]interface{}{"source": source}, "region extraction failed"))
		return a.fallbackResult(source, &box)
	}
	defer region.Close() // Crucial to close the tensor to avoid memory leaks

	// Stage 4: classify.
	scores, err := a.classify(region)
	if err != nil {
		a.pushError(model.GenError("analyzer_classify", err, map[string]interface{}{"source": source}, "classification stage failed"))
		return a.fallbackResult(source, &box)
	}

	// Stage 5: arbitrate.
	species := arbitrateSpecies(scores.species, a.svcs.CfgSvc.GetSpeciesLabels(), arbiterParams, a.Rand)
	disease := arbitrateDisease(scores.disease, a.svcs.CfgSvc.GetDiseaseLabels(), arbiterParams)
	freshness := model.FreshnessResult{
		Score: scores.freshness,
		Label: freshnessLabel(scores.freshness, arbiterParams),
	}

	// Stage 6: assemble.
	result := model.AnalysisResult{
		ID:        uuid.NewString(),
		Source:    source,
		Species:   species,
		Freshness: freshness,
		Disease:   disease,
		Box:       box,
		Timestamp: time.Now().Unix(),
	}

	lgr.Logger.Debug(
		"analysis completed",
		slog.String("id", result.ID),
		slog.String("species", result.Species.Name),
		slog.Bool("hasDisease", result.Disease.HasDisease),
		slog.Int("detections", count),
	)

	return result
}

// fallbackResult builds the fixed default result. When a real box was
// already determined it is preserved; otherwise the fixed default box is
// used. Fallback results are structurally identical to genuine ones.
func (a *Analyzer) fallbackResult(source string, box *model.BoundingBox) model.AnalysisResult {
	detectorParams := a.svcs.CfgSvc.GetDetectorParameters()
	classifierParams := a.svcs.CfgSvc.GetClassifierParameters()
	arbiterParams := a.svcs.CfgSvc.GetArbiterParameters()

	resultBox := detectorParams.FallbackBox
	if box != nil {
		resultBox = *box
	}

	a.mu.Lock()
	a.fallbacks++
	a.mu.Unlock()

	return model.AnalysisResult{
		ID:     uuid.NewString(),
		Source: source,
		Species: model.SpeciesResult{
			Name:       arbiterParams.FallbackSpecies,
			Confidence: arbiterParams.FallbackConfidence * 100,
		},
		Freshness: model.FreshnessResult{
			Score: classifierParams.DefaultFreshness,
			Label: freshnessLabel(classifierParams.DefaultFreshness, arbiterParams),
		},
		Disease: model.DiseaseResult{
			Name:       arbiterParams.HealthyLabel,
			HasDisease: false,
			Confidence: arbiterParams.FallbackConfidence * 100,
		},
		Box:       resultBox,
		Timestamp: time.Now().Unix(),
	}
}

// Stats snapshots the analyzer counters in the same shape the other
// processors report.
func (a *Analyzer) Stats() model.AnalyzerStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	var avg float64
	if a.analyses > 0 {
		avg = a.totalProcTime.Seconds() / float64(a.analyses)
	}

	return model.AnalyzerStats{
		Name:           "analyzer",
		Analyses:       a.analyses,
		Fallbacks:      a.fallbacks,
		Errors:         a.errors,
		Uptime:         time.Now().Unix() - a.startTime,
		AvgProcTime:    avg,
		LastDetections: a.lastDetections,
		Timestamp:      time.Now().Unix(),
	}
}

func (a *Analyzer) pushError(err model.CustomError) {
	a.mu.Lock()
	a.errors++
	a.mu.Unlock()

	if a.errorStream == nil {
		return
	}
	select {
	case a.errorStream <- err:
	default:
		lgr.Logger.Warn("errorStream full, dropping error", slog.String("processor", err.Processor))
	}
}
