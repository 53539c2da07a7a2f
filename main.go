package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/aqs-go/mode"
	"github.com/khaledhikmat/aqs-go/pipeline"
	"github.com/khaledhikmat/aqs-go/service/config"
	"github.com/khaledhikmat/aqs-go/service/data"
	"github.com/khaledhikmat/aqs-go/service/inference"
	"github.com/khaledhikmat/aqs-go/service/lgr"
	"github.com/khaledhikmat/aqs-go/service/pricing"
	"github.com/khaledhikmat/aqs-go/service/storage"
	"github.com/khaledhikmat/aqs-go/service/webhook"
)

const (
	// WARNING: this has to be bigger than the mode processor shutdown time
	waitOnShutdown = 8 * time.Second
)

var modeProcessors = map[string]mode.Processor{
	"single": mode.Single,
	"watch":  mode.Watch,
}

func main() {
	rootCtx := context.Background()
	canxCtx, canxFn := context.WithCancel(rootCtx)

	// Hook up a signal handler to cancel the context
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		lgr.Logger.Info(
			"received kill signal",
			slog.Any("signal", sig),
		)
		canxFn()
	}()

	// Load env vars if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		lgr.Logger.Info("loading env vars from .env file")
		err := godotenv.Load()
		if err != nil {
			lgr.Logger.Error("error loading .env file", slog.Any("error", xerrors.New(err.Error())))
			panic("error loading .env file")
		}
	}

	modeType := "single"
	args := os.Args[1:]
	if len(args) > 0 {
		modeType = args[0]
		args = args[1:]
	}

	modeProc, ok := modeProcessors[modeType]
	if !ok {
		lgr.Logger.Error("invalid mode", slog.String("mode", modeType))
		panic("invalid mode")
	}

	// Create the services needed for the mode processor
	// They can be overridden by the mode processor with different implementations
	// Config service
	cfgSvc := config.NewEnv()
	// Data service
	dataSvc := data.NewFilesDB(cfgSvc)
	// Storage service
	storageSvc := storage.NewFiles(cfgSvc)
	// Webhook service
	webhookSvc := webhook.NewFake(cfgSvc)
	// Pricing service
	pricingSvc := pricing.NewHardCoded(cfgSvc)
	// Inference service with the production model handles
	inferSvc := inference.NewProvider(cfgSvc, inference.NewGoCVHandle)
	defer inferSvc.Finalize()

	svcs := pipeline.ServicesFactory{
		CfgSvc:     cfgSvc,
		DataSvc:    dataSvc,
		InferSvc:   inferSvc,
		StorageSvc: storageSvc,
		WebhookSvc: webhookSvc,
		PricingSvc: pricingSvc,
	}

	// Create mode processor result
	modeProcResult := make(chan error)
	defer close(modeProcResult)

	// Use the library simple alerter

	// Start the mode processor
	go func() {
		modeProcResult <- modeProc(canxCtx, svcs, pipeline.SimpleAlerter, args)
	}()

	// Wait for cancellation, mode proc or error
	for {
		select {
		case <-canxCtx.Done():
			lgr.Logger.Info(
				"analyzer pod context cancelled",
			)
			goto resume

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"analyzer pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
			goto resume
		}
	}

	// Wait in a non-blocking way for `waitOnShutdown` for all the go routines to exit
	// This is needed because the go routines may need to report errors as they are existing
resume:
	// Cancel the context if not already cancelled
	if canxCtx.Err() == nil {
		// Force cancel the context
		canxFn()
	}

	lgr.Logger.Info(
		"analyzer pod is waiting for all go routines to exit",
	)

	// The only way to exit the main function is to wait for the shutdown
	// duration
	timer := time.NewTimer(waitOnShutdown)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// Timer expired, proceed with shutdown
			lgr.Logger.Info(
				"analyzer pod shutdown waiting period expired. Exiting now",
				slog.Duration("period", waitOnShutdown),
			)

			return

		case err := <-modeProcResult:
			if err != nil {
				lgr.Logger.Info(
					"analyzer pod mode processor exited",
					slog.Any("error", xerrors.New(err.Error())),
				)
			}
		}
	}
}
