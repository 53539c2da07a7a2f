package config

import (
	"fmt"

	"github.com/khaledhikmat/aqs-go/model"
)

// WARNING: array position is a binding contract with the trained models.
// Reordering either list breaks labeling without changing model output.
var speciesLabels = []string{
	"Unknown", // background / no subject
	"Tilapia",
	"Catfish",
	"Milkfish",
	"Carp",
	"Pomfret",
	"Snapper",
	"Mackerel",
	"Tuna",
	"Gourami",
	"Shrimp",
	"Crab",
}

var diseaseLabels = []string{
	"Bacterial Infection", // risk class A
	"Healthy",
	"White Spot Disease", // risk class B
}

type hardcodedService struct {
}

func NewHardCoded() IService {
	return &hardcodedService{}
}

func (svc *hardcodedService) GetModeMaxShutdownTime() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 5
}

func (svc *hardcodedService) GetInputFolder() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "./settings"
}

func (svc *hardcodedService) GetWatchFolder() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "./captures"
}

func (svc *hardcodedService) GetAnnotationsFolder() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "./annotations"
}

func (svc *hardcodedService) GetStorageFolder() string {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return "./store"
}

func (svc *hardcodedService) GetWatcherPeriodicTimeout() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 5
}

func (svc *hardcodedService) GetAlerterWebhookRetry() int {
	// For now, we are using a hardcoded value.
	// In the future, this should be read from a configuration file or environment variable.
	return 60
}

func (svc *hardcodedService) GetDetectorParameters() DetectorParameters {
	return DetectorParameters{
		ModelPath:        fmt.Sprintf("%s/models/detector.onnx", svc.GetInputFolder()),
		InputSize:        320,
		AnchorCount:      2100,
		ClassCount:       7,
		ScoreThreshold:   0.25,
		MaxDetections:    50,
		NormalizedCutoff: 1.5,
		Normalization:    model.NormalizationRaw,
		FallbackBox:      model.BoundingBox{YMin: 0.1, XMin: 0.1, YMax: 0.9, XMax: 0.9},
		OutputOrder:      []string{"detection"},
	}
}

func (svc *hardcodedService) GetClassifierParameters() ClassifierParameters {
	return ClassifierParameters{
		SpeciesModelPath: fmt.Sprintf("%s/models/classifier.onnx", svc.GetInputFolder()),
		DiseaseModelPath: "",
		InputSize:        224,
		Normalization:    model.NormalizationUnit,
		FreshnessHead:    false,
		DefaultFreshness: 0.95,
		OutputOrder:      []string{"species", "disease", "freshness"},
	}
}

func (svc *hardcodedService) GetArbiterParameters() ArbiterParameters {
	return ArbiterParameters{
		BackgroundLabel:        "Unknown",
		OverrideThreshold:      0.05,
		RescueThreshold:        0.02,
		RescueLabels:           []string{"Shrimp", "Crab"},
		ConfusableLabel:        "Milkfish",
		ConfusableCeiling:      0.50,
		ConfusableAlternatives: []string{"Pomfret", "Mackerel"},
		ConfusableThreshold:    0.05,

		LowConfidenceFloor:    0.80,
		LowBandBase:           0.82,
		LowBandSpread:         0.08,
		HighConfidenceCeiling: 0.95,
		HighBandBase:          0.93,
		HighBandSpread:        0.04,

		DiseaseClassAIndex:     0,
		DiseaseClassBIndex:     2,
		DiseaseClassAThreshold: 0.40,
		DiseaseClassBThreshold: 0.30,
		HealthyLabel:           "Healthy",

		FreshnessFreshFloor:    0.80,
		FreshnessModerateFloor: 0.50,

		FallbackSpecies:    "Unknown",
		FallbackConfidence: 0.85,
	}
}

func (svc *hardcodedService) GetSpeciesLabels() []string {
	return speciesLabels
}

func (svc *hardcodedService) GetDiseaseLabels() []string {
	return diseaseLabels
}
