package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/config"
	"github.com/khaledhikmat/aqs-go/service/pricing"
	"github.com/khaledhikmat/aqs-go/service/storage"
	"github.com/khaledhikmat/aqs-go/service/webhook"
)

func alerterServices() ServicesFactory {
	cfgSvc := config.NewHardCoded()
	return ServicesFactory{
		CfgSvc:     cfgSvc,
		StorageSvc: storage.NewFake(cfgSvc),
		WebhookSvc: webhook.NewFake(cfgSvc),
		PricingSvc: pricing.NewHardCoded(cfgSvc),
	}
}

func TestSimpleAlerter_SendSurvivesShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errorStream := make(chan interface{}, 4)

	alertStream := SimpleAlerter(ctx, alerterServices(), errorStream, nil)

	cancel()
	time.Sleep(50 * time.Millisecond)

	// A mode processor racing shutdown may still be holding the stream; the
	// late alert is dropped, never a panic.
	require.NotPanics(t, func() {
		alertStream <- AlertData{
			Result:    model.AnalysisResult{ID: "late-1", Source: "pond-9.jpg"},
			ImagePath: "pond-9.jpg",
			Timestamp: time.Now(),
		}
	})
}
