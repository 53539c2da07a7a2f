package inference

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/config"
	"github.com/khaledhikmat/aqs-go/service/lgr"
)

// HandleFactory opens one model handle. The provider calls it once per
// configured model, in parallel.
type HandleFactory func(name, modelPath string, inputSize int) (Handle, error)

type providerService struct {
	CfgSvc  config.IService
	Factory HandleFactory

	once sync.Once

	mu         sync.Mutex
	status     Status
	loadErr    error
	detector   Handle
	classifier Handle
	disease    Handle
}

func NewProvider(cfgsvc config.IService, factory HandleFactory) IService {
	return &providerService{
		CfgSvc:  cfgsvc,
		Factory: factory,
		status:  StatusLoading,
	}
}

// Load initializes all model handles in parallel. Repeated calls are
// no-ops; the state machine only moves loading -> ready or loading -> error.
func (svc *providerService) Load(canxCtx context.Context) {
	svc.once.Do(func() {
		started := time.Now()

		detectorParams := svc.CfgSvc.GetDetectorParameters()
		classifierParams := svc.CfgSvc.GetClassifierParameters()

		type slot struct {
			name   string
			path   string
			size   int
			assign func(Handle)
		}

		slots := []slot{
			{
				name:   "detector",
				path:   detectorParams.ModelPath,
				size:   detectorParams.InputSize,
				assign: func(h Handle) { svc.detector = h },
			},
			{
				name:   "classifier",
				path:   classifierParams.SpeciesModelPath,
				size:   classifierParams.InputSize,
				assign: func(h Handle) { svc.classifier = h },
			},
		}
		if classifierParams.DiseaseModelPath != "" {
			slots = append(slots, slot{
				name:   "disease",
				path:   classifierParams.DiseaseModelPath,
				size:   classifierParams.InputSize,
				assign: func(h Handle) { svc.disease = h },
			})
		}

		var wg sync.WaitGroup
		for _, s := range slots {
			wg.Add(1)
			go func(s slot) {
				defer wg.Done()

				handle, err := svc.Factory(s.name, s.path, s.size)

				svc.mu.Lock()
				defer svc.mu.Unlock()
				if err != nil {
					// First failure wins; the rest only add log noise.
					if svc.loadErr == nil {
						svc.loadErr = model.LoadError{Inner: err}
					}
					lgr.Logger.Error(
						"model handle failed to load",
						slog.String("model", s.name),
						slog.Any("error", xerrors.New(err.Error())),
					)
					return
				}
				s.assign(handle)
			}(s)
		}
		wg.Wait()

		svc.mu.Lock()
		defer svc.mu.Unlock()
		if canxCtx.Err() != nil && svc.loadErr == nil {
			svc.loadErr = model.LoadError{Inner: canxCtx.Err()}
		}
		if svc.loadErr != nil {
			svc.status = StatusError
		} else {
			svc.status = StatusReady
		}

		lgr.Logger.Info(
			"model provider load completed",
			slog.String("status", svc.status.String()),
			slog.Int("models", len(slots)),
			slog.Duration("elapsed", time.Since(started)),
		)
	})
}

func (svc *providerService) Status() (Status, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.status, svc.loadErr
}

func (svc *providerService) Detector() Handle {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.detector
}

func (svc *providerService) Classifier() Handle {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.classifier
}

func (svc *providerService) DiseaseClassifier() Handle {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.disease
}

func (svc *providerService) Finalize() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, h := range []Handle{svc.detector, svc.classifier, svc.disease} {
		if h == nil {
			continue
		}
		if err := h.Close(); err != nil {
			lgr.Logger.Warn(
				"error closing model handle",
				slog.String("model", h.Name()),
				slog.Any("error", err),
			)
		}
	}
	svc.detector = nil
	svc.classifier = nil
	svc.disease = nil
}
