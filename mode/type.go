package mode

import (
	"context"
	"log/slog"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/pipeline"
	"github.com/khaledhikmat/aqs-go/service/data"
	"github.com/khaledhikmat/aqs-go/service/lgr"
)

type Processor func(canxCtx context.Context,
	svcs pipeline.ServicesFactory,
	alerter pipeline.Alerter,
	args []string) error

func procStats(datasvc data.IService, stats interface{}) {
	switch stats := stats.(type) {
	case model.AnalyzerStats:
		procAnalyzerStats(datasvc, stats)
	case model.LoaderStats:
		procLoaderStats(datasvc, stats)
	default:
		lgr.Logger.Error(
			"unknown stats type",
			slog.Any("stats", stats),
		)
	}
}

func procAnalyzerStats(datasvc data.IService, stats model.AnalyzerStats) {
	err := datasvc.NewAnalyzerStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store analyzer stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procLoaderStats(datasvc data.IService, stats model.LoaderStats) {
	err := datasvc.NewLoaderStats(stats)
	if err != nil {
		lgr.Logger.Error(
			"failed to store loader stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procResult(datasvc data.IService, result model.AnalysisResult) {
	err := datasvc.NewAnalysis(result)
	if err != nil {
		lgr.Logger.Error(
			"failed to store analysis result",
			slog.String("id", result.ID),
			slog.Any("error", err),
		)
	}
}

func procError(datasvc data.IService, err interface{}) {
	errTemp := datasvc.NewError(err)
	if errTemp != nil {
		lgr.Logger.Error(
			"failed to store error",
			slog.Any("error", errTemp),
		)
	}
}
