package mode

import (
	"context"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/pipeline"
	"github.com/khaledhikmat/aqs-go/service/lgr"
)

// Single analyzes one image file, renders the verdict to the console,
// persists it and alerts when a disease was flagged.
func Single(canxCtx context.Context, svcs pipeline.ServicesFactory, alerter pipeline.Alerter, args []string) error {
	if len(args) == 0 {
		return xerrors.New("single mode requires an image path argument")
	}
	imagePath := args[0]

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

	frame, err := pipeline.LoadFrame(imagePath)
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(canxCtx, imagePath, frame)
	if err != nil {
		return err
	}

	renderResult(svcs, result)
	procResult(svcs.DataSvc, result)
	statsStream <- analyzer.Stats()

	if result.Disease.HasDisease {
		select {
		case alertStream <- pipeline.AlertData{
			Result:    result,
			ImagePath: imagePath,
			Timestamp: time.Now(),
		}:
		default:
			lgr.Logger.Warn("alertStream full, dropping alert")
		}
	}

	// Wait in a non-blocking way for the shutdown duration so the alerter
	// and the streams can drain before exiting
	timer := time.NewTimer(time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime()) * time.Second)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			return nil

		case <-canxCtx.Done():
			lgr.Logger.Info(
				"single mode context cancelled",
			)
			return nil

		case s := <-statsStream:
			procStats(svcs.DataSvc, s)

		case e := <-errorStream:
			procError(svcs.DataSvc, e)
		}
	}
}

func renderResult(svcs pipeline.ServicesFactory, result model.AnalysisResult) {
	speciesColor := color.New(color.FgGreen, color.Bold)
	speciesColor.Printf("Species: %s (%.1f%%)\n", result.Species.Name, result.Species.Confidence)

	color.New(color.FgCyan).Printf("Freshness: %s (%.2f)\n", result.Freshness.Label, result.Freshness.Score)

	diseaseColor := color.New(color.FgGreen)
	if result.Disease.HasDisease {
		diseaseColor = color.New(color.FgRed, color.Bold)
	}
	diseaseColor.Printf("Condition: %s (%.1f%%)\n", result.Disease.Name, result.Disease.Confidence)

	color.New(color.FgWhite).Printf("Box: y[%.2f-%.2f] x[%.2f-%.2f]\n",
		result.Box.YMin, result.Box.YMax, result.Box.XMin, result.Box.XMax)

	price, err := svcs.PricingSvc.RetrievePrice(result.Species.Name)
	if err == nil && price.PricePerKg > 0 {
		color.New(color.FgYellow).Printf("Market price: %.2f %s/kg\n", price.PricePerKg, price.Currency)
	}

	lgr.Logger.Info(
		"analysis result",
		slog.String("id", result.ID),
		slog.String("species", result.Species.Name),
		slog.String("condition", result.Disease.Name),
		slog.Bool("hasDisease", result.Disease.HasDisease),
	)
}
