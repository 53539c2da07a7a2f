package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnv_DefaultsWithoutOverrides(t *testing.T) {
	svc := NewEnv()
	defaults := NewHardCoded()

	require.Equal(t, defaults.GetDetectorParameters(), svc.GetDetectorParameters())
	require.Equal(t, defaults.GetArbiterParameters(), svc.GetArbiterParameters())
	require.Equal(t, defaults.GetInputFolder(), svc.GetInputFolder())
}

func TestEnv_Overrides(t *testing.T) {
	t.Setenv("DETECTOR_MAX_DETECTIONS", "10")
	t.Setenv("DETECTOR_SCORE_THRESHOLD", "0.5")
	t.Setenv("ARBITER_RESCUE_THRESHOLD", "0.07")
	t.Setenv("FRESHNESS_HEAD", "true")
	t.Setenv("INPUT_FOLDER", "/tmp/aqs-input")

	svc := NewEnv()

	require.Equal(t, 10, svc.GetDetectorParameters().MaxDetections)
	require.InDelta(t, 0.5, svc.GetDetectorParameters().ScoreThreshold, 1e-6)
	require.InDelta(t, 0.07, svc.GetArbiterParameters().RescueThreshold, 1e-6)
	require.True(t, svc.GetClassifierParameters().FreshnessHead)
	require.Equal(t, "/tmp/aqs-input", svc.GetInputFolder())
}

func TestEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("DETECTOR_MAX_DETECTIONS", "many")
	t.Setenv("ARBITER_RESCUE_THRESHOLD", "not-a-number")

	svc := NewEnv()
	defaults := NewHardCoded()

	require.Equal(t, defaults.GetDetectorParameters().MaxDetections, svc.GetDetectorParameters().MaxDetections)
	require.InDelta(t, defaults.GetArbiterParameters().RescueThreshold, svc.GetArbiterParameters().RescueThreshold, 1e-6)
}

func TestLabelTablesMatchModelHeads(t *testing.T) {
	svc := NewHardCoded()

	require.Len(t, svc.GetDiseaseLabels(), 3)
	require.Equal(t, "Unknown", svc.GetSpeciesLabels()[0])

	params := svc.GetArbiterParameters()
	require.Equal(t, "Healthy", svc.GetDiseaseLabels()[1])
	require.Equal(t, svc.GetDiseaseLabels()[params.DiseaseClassAIndex], "Bacterial Infection")
	require.Equal(t, svc.GetDiseaseLabels()[params.DiseaseClassBIndex], "White Spot Disease")
}
