package mode

import (
	"context"
	"log/slog"
	"time"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/pipeline"
	"github.com/khaledhikmat/aqs-go/service/lgr"
)

// Watch periodically scans the watch folder for new captures, analyzes each
// one once and alerts on flagged diseases. Images are never re-analyzed;
// one attempt per submitted frame.
func Watch(canxCtx context.Context, svcs pipeline.ServicesFactory, alerter pipeline.Alerter, _ []string) error {
	// Create the error and stats streams
	errorStream := make(chan interface{}, 10)
	defer close(errorStream)

	statsStream := make(chan interface{}, 10)
	defer close(statsStream)

	// Create an alerter stream using a simple alerter
	// Alerter functions must comply with Alerter signature (check pipeline/type.go)
	alertStream := alerter(canxCtx, svcs, errorStream, statsStream)

	if err := loadModels(canxCtx, svcs, statsStream); err != nil {
		return err
	}

	analyzer := pipeline.NewAnalyzer(svcs, errorStream)
	seen := map[string]bool{}

	// Wait for cancellation, timeout, stats or errors
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"watch mode context cancelled",
			)
			goto resume

		case <-time.After(time.Duration(svcs.CfgSvc.GetWatcherPeriodicTimeout()) * time.Second):
			files, err := pipeline.ListImages(svcs.CfgSvc.GetWatchFolder())
			if err != nil {
				errorStream <- model.GenError("watch_mode",
					err,
					map[string]interface{}{},
					"error listing watch folder")
				continue
			}

			for _, file := range files {
				if seen[file] {
					continue
				}
				seen[file] = true

				frame, err := pipeline.LoadFrame(file)
				if err != nil {
					errorStream <- model.GenError("watch_mode",
						err,
						map[string]interface{}{"file": file},
						"error loading frame")
					continue
				}

				result, err := analyzer.Analyze(canxCtx, file, frame)
				if err != nil {
					// Not ready: leave the file unseen so the next sweep
					// retries it.
					seen[file] = false
					continue
				}

				procResult(svcs.DataSvc, result)

				if result.Disease.HasDisease {
					select {
					case alertStream <- pipeline.AlertData{
						Result:    result,
						ImagePath: file,
						Timestamp: time.Now(),
					}:
					default:
						lgr.Logger.Warn("alertStream full, dropping alert")
					}
				}
			}

			statsStream <- analyzer.Stats()

		case s := <-statsStream:
			procStats(svcs.DataSvc, s)

		case e := <-errorStream:
			procError(svcs.DataSvc, e)
		}
	}

	// Wait in a non-blocking way for the shutdown duration for all the go
	// routines to exit. This is needed because the go routines may need to
	// report errors as they are exiting
resume:
	lgr.Logger.Info(
		"watch mode is waiting for all go routines to exit",
	)

	timer := time.NewTimer(time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime()) * time.Second)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"watch mode shutdown waiting period expired. Exiting now",
				slog.Duration("period", time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second),
			)
			return nil

		case s := <-statsStream:
			procStats(svcs.DataSvc, s)

		case e := <-errorStream:
			procError(svcs.DataSvc, e)
		}
	}
}
