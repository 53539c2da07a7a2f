package pipeline

import (
	"context"
	"time"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/config"
	"github.com/khaledhikmat/aqs-go/service/data"
	"github.com/khaledhikmat/aqs-go/service/inference"
	"github.com/khaledhikmat/aqs-go/service/pricing"
	"github.com/khaledhikmat/aqs-go/service/storage"
	"github.com/khaledhikmat/aqs-go/service/webhook"
)

type ServicesFactory struct {
	CfgSvc     config.IService
	DataSvc    data.IService
	InferSvc   inference.IService
	StorageSvc storage.IService
	WebhookSvc webhook.IService
	PricingSvc pricing.IService
}

type AlertData struct {
	Result    model.AnalysisResult
	ImagePath string
	Timestamp time.Time
}

// Signature of alerter function
type Alerter func(canx context.Context, svcs ServicesFactory, errorStream chan interface{}, statsStream chan interface{}) chan AlertData
