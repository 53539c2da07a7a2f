package mode

import (
	"context"
	"time"

	"golang.org/x/xerrors"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/pipeline"
	"github.com/khaledhikmat/aqs-go/service/inference"
)

// loadModels kicks off the one-time parallel model load and waits for the
// provider to leave the loading state. Analysis calls made before this
// returns would be rejected with a not-ready error.
func loadModels(canxCtx context.Context, svcs pipeline.ServicesFactory, statsStream chan interface{}) error {
	models := 2
	if svcs.CfgSvc.GetClassifierParameters().DiseaseModelPath != "" {
		models = 3
	}

	started := time.Now()
	go svcs.InferSvc.Load(canxCtx)

	for {
		status, loadErr := svcs.InferSvc.Status()
		switch status {
		case inference.StatusReady:
			statsStream <- model.LoaderStats{
				Models:     models,
				Status:     status.String(),
				LoadTimeMs: float64(time.Since(started).Milliseconds()),
			}
			return nil

		case inference.StatusError:
			statsStream <- model.LoaderStats{
				Status:     status.String(),
				LoadTimeMs: float64(time.Since(started).Milliseconds()),
			}
			return loadErr
		}

		select {
		case <-canxCtx.Done():
			return xerrors.New("cancelled while loading models")
		case <-time.After(200 * time.Millisecond):
		}
	}
}
