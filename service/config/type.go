package config

import "github.com/khaledhikmat/aqs-go/model"

// DetectorParameters drive the detection stage. The anchor grid geometry is
// fixed by the trained model; the thresholds are tunable.
type DetectorParameters struct {
	ModelPath        string
	InputSize        int
	AnchorCount      int
	ClassCount       int
	ScoreThreshold   float32
	MaxDetections    int
	NormalizedCutoff float32 // below this, anchor coords are treated as already normalized
	Normalization    model.NormalizationScheme
	FallbackBox      model.BoundingBox
	// OutputOrder flattens name-keyed model outputs into positional order;
	// the grid must be first.
	OutputOrder []string
}

// ClassifierParameters drive the classification stage. When DiseaseModelPath
// is empty the species model is expected to be multi-head and to expose the
// disease output itself.
type ClassifierParameters struct {
	SpeciesModelPath string
	DiseaseModelPath string
	InputSize        int
	Normalization    model.NormalizationScheme
	FreshnessHead    bool
	DefaultFreshness float32
	// OutputOrder flattens name-keyed model outputs into positional order.
	OutputOrder []string
}

// ArbiterParameters drive the decision rules. Every threshold here drifted
// across revisions of the original heuristics, so all of them are
// configuration rather than constants.
type ArbiterParameters struct {
	BackgroundLabel        string
	OverrideThreshold      float32
	RescueThreshold        float32
	RescueLabels           []string
	ConfusableLabel        string
	ConfusableCeiling      float32
	ConfusableAlternatives []string
	ConfusableThreshold    float32

	LowConfidenceFloor    float32
	LowBandBase           float32
	LowBandSpread         float32
	HighConfidenceCeiling float32
	HighBandBase          float32
	HighBandSpread        float32

	DiseaseClassAIndex     int
	DiseaseClassBIndex     int
	DiseaseClassAThreshold float32
	DiseaseClassBThreshold float32
	HealthyLabel           string

	FreshnessFreshFloor    float32
	FreshnessModerateFloor float32

	FallbackSpecies    string
	FallbackConfidence float32
}

type IService interface {
	GetModeMaxShutdownTime() int
	GetInputFolder() string
	GetWatchFolder() string
	GetAnnotationsFolder() string
	GetStorageFolder() string
	GetWatcherPeriodicTimeout() int
	GetAlerterWebhookRetry() int
	GetDetectorParameters() DetectorParameters
	GetClassifierParameters() ClassifierParameters
	GetArbiterParameters() ArbiterParameters
	GetSpeciesLabels() []string
	GetDiseaseLabels() []string
}
