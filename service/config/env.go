package config

import (
	"os"
	"strconv"
)

// envService layers environment-variable overrides over the hardcoded
// defaults. The .env file is loaded by main in dev mode.
type envService struct {
	defaults IService
}

func NewEnv() IService {
	return &envService{
		defaults: NewHardCoded(),
	}
}

func (svc *envService) GetModeMaxShutdownTime() int {
	return getEnvAsInt("MODE_MAX_SHUTDOWN_TIME", svc.defaults.GetModeMaxShutdownTime())
}

func (svc *envService) GetInputFolder() string {
	return getEnv("INPUT_FOLDER", svc.defaults.GetInputFolder())
}

func (svc *envService) GetWatchFolder() string {
	return getEnv("WATCH_FOLDER", svc.defaults.GetWatchFolder())
}

func (svc *envService) GetAnnotationsFolder() string {
	return getEnv("ANNOTATIONS_FOLDER", svc.defaults.GetAnnotationsFolder())
}

func (svc *envService) GetStorageFolder() string {
	return getEnv("STORAGE_FOLDER", svc.defaults.GetStorageFolder())
}

func (svc *envService) GetWatcherPeriodicTimeout() int {
	return getEnvAsInt("WATCHER_PERIODIC_TIMEOUT", svc.defaults.GetWatcherPeriodicTimeout())
}

func (svc *envService) GetAlerterWebhookRetry() int {
	return getEnvAsInt("ALERTER_WEBHOOK_RETRY", svc.defaults.GetAlerterWebhookRetry())
}

func (svc *envService) GetDetectorParameters() DetectorParameters {
	params := svc.defaults.GetDetectorParameters()
	params.ModelPath = getEnv("DETECTOR_MODEL_PATH", params.ModelPath)
	params.ScoreThreshold = getEnvAsFloat("DETECTOR_SCORE_THRESHOLD", params.ScoreThreshold)
	params.MaxDetections = getEnvAsInt("DETECTOR_MAX_DETECTIONS", params.MaxDetections)
	return params
}

func (svc *envService) GetClassifierParameters() ClassifierParameters {
	params := svc.defaults.GetClassifierParameters()
	params.SpeciesModelPath = getEnv("SPECIES_MODEL_PATH", params.SpeciesModelPath)
	params.DiseaseModelPath = getEnv("DISEASE_MODEL_PATH", params.DiseaseModelPath)
	params.FreshnessHead = getEnvAsBool("FRESHNESS_HEAD", params.FreshnessHead)
	return params
}

func (svc *envService) GetArbiterParameters() ArbiterParameters {
	params := svc.defaults.GetArbiterParameters()
	params.OverrideThreshold = getEnvAsFloat("ARBITER_OVERRIDE_THRESHOLD", params.OverrideThreshold)
	params.RescueThreshold = getEnvAsFloat("ARBITER_RESCUE_THRESHOLD", params.RescueThreshold)
	params.ConfusableThreshold = getEnvAsFloat("ARBITER_CONFUSABLE_THRESHOLD", params.ConfusableThreshold)
	params.DiseaseClassAThreshold = getEnvAsFloat("ARBITER_DISEASE_A_THRESHOLD", params.DiseaseClassAThreshold)
	params.DiseaseClassBThreshold = getEnvAsFloat("ARBITER_DISEASE_B_THRESHOLD", params.DiseaseClassBThreshold)
	return params
}

func (svc *envService) GetSpeciesLabels() []string {
	return svc.defaults.GetSpeciesLabels()
}

func (svc *envService) GetDiseaseLabels() []string {
	return svc.defaults.GetDiseaseLabels()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatValue)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
