package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khaledhikmat/aqs-go/service/config"
)

func fixedRand(v float32) func() float32 {
	return func() float32 { return v }
}

func arbiterFixtures() (config.ArbiterParameters, []string, []string) {
	cfg := config.NewHardCoded()
	return cfg.GetArbiterParameters(), cfg.GetSpeciesLabels(), cfg.GetDiseaseLabels()
}

func speciesVector(labels []string, scores map[string]float32) []float32 {
	vector := make([]float32, len(labels))
	for i, label := range labels {
		vector[i] = scores[label]
	}
	return vector
}

func TestArbitrateSpecies_TopRank(t *testing.T) {
	params, labels, _ := arbiterFixtures()

	vector := speciesVector(labels, map[string]float32{"Tilapia": 0.92, "Catfish": 0.05})
	result := arbitrateSpecies(vector, labels, params, fixedRand(0.5))

	require.Equal(t, "Tilapia", result.Name)
}

func TestArbitrateSpecies_BackgroundOverride(t *testing.T) {
	params, labels, _ := arbiterFixtures()

	vector := speciesVector(labels, map[string]float32{"Unknown": 0.90, "Tilapia": 0.06})
	result := arbitrateSpecies(vector, labels, params, fixedRand(0.5))

	require.Equal(t, "Tilapia", result.Name)
}

func TestArbitrateSpecies_BackgroundStandsWithoutRunnerUp(t *testing.T) {
	params, labels, _ := arbiterFixtures()

	vector := speciesVector(labels, map[string]float32{"Unknown": 0.97, "Tilapia": 0.01})
	result := arbitrateSpecies(vector, labels, params, fixedRand(0.5))

	require.Equal(t, "Unknown", result.Name)
}

func TestArbitrateSpecies_CrustaceanRescue(t *testing.T) {
	params, labels, _ := arbiterFixtures()

	// Runner-up misses the override threshold but the third-ranked label is
	// in the rescue set and clears the rescue threshold.
	vector := speciesVector(labels, map[string]float32{
		"Unknown": 0.90,
		"Catfish": 0.04,
		"Shrimp":  0.03,
	})
	result := arbitrateSpecies(vector, labels, params, fixedRand(0.5))

	require.Equal(t, "Shrimp", result.Name)
}

func TestArbitrateSpecies_ConfusableCorrection(t *testing.T) {
	params, labels, _ := arbiterFixtures()

	vector := speciesVector(labels, map[string]float32{
		"Milkfish": 0.40,
		"Pomfret":  0.10,
	})
	result := arbitrateSpecies(vector, labels, params, fixedRand(0.5))

	require.Equal(t, "Pomfret", result.Name)
}

func TestArbitrateSpecies_ConfusableKeptWhenStrong(t *testing.T) {
	params, labels, _ := arbiterFixtures()

	vector := speciesVector(labels, map[string]float32{
		"Milkfish": 0.75,
		"Pomfret":  0.20,
	})
	result := arbitrateSpecies(vector, labels, params, fixedRand(0.5))

	require.Equal(t, "Milkfish", result.Name)
}

func TestArbitrateSpecies_ConfidenceInRange(t *testing.T) {
	params, labels, _ := arbiterFixtures()

	for _, raw := range []float32{0.01, 0.40, 0.85, 0.99} {
		vector := speciesVector(labels, map[string]float32{"Tilapia": raw})
		result := arbitrateSpecies(vector, labels, params, fixedRand(0.99))
		require.GreaterOrEqual(t, result.Confidence, float32(0))
		require.LessOrEqual(t, result.Confidence, float32(100))
	}
}

func TestCalibrate_LowBand(t *testing.T) {
	params, _, _ := arbiterFixtures()

	require.InDelta(t, 0.86, calibrate(0.40, params, fixedRand(0.5)), 1e-6)

	// Band bounds with the random source pinned at the extremes
	require.InDelta(t, 0.82, calibrate(0.79, params, fixedRand(0)), 1e-6)
	require.InDelta(t, 0.90, calibrate(0.79, params, fixedRand(1)), 1e-6)
}

func TestCalibrate_HighBand(t *testing.T) {
	params, _, _ := arbiterFixtures()

	require.InDelta(t, 0.95, calibrate(0.97, params, fixedRand(0.5)), 1e-6)
	require.InDelta(t, 0.93, calibrate(0.99, params, fixedRand(0)), 1e-6)
	require.InDelta(t, 0.97, calibrate(0.99, params, fixedRand(1)), 1e-6)
}

func TestCalibrate_MidRangeUntouched(t *testing.T) {
	params, _, _ := arbiterFixtures()

	require.InDelta(t, 0.90, calibrate(0.90, params, fixedRand(0.5)), 1e-6)
	require.InDelta(t, 0.80, calibrate(0.80, params, fixedRand(0.5)), 1e-6)
}

func TestArbitrateDisease_NeitherThresholdCrossed(t *testing.T) {
	params, _, labels := arbiterFixtures()

	// Class A at 0.35 < 0.40 and class B at 0.10 < 0.30: healthy arg-max stands.
	result := arbitrateDisease([]float32{0.35, 0.55, 0.10}, labels, params)

	require.Equal(t, "Healthy", result.Name)
	require.False(t, result.HasDisease)
}

func TestArbitrateDisease_ClassBFlaggedDespiteHealthyMax(t *testing.T) {
	params, _, labels := arbiterFixtures()

	result := arbitrateDisease([]float32{0.10, 0.55, 0.35}, labels, params)

	require.Equal(t, "White Spot Disease", result.Name)
	require.True(t, result.HasDisease)
}

func TestArbitrateDisease_ClassAFlagged(t *testing.T) {
	params, _, labels := arbiterFixtures()

	result := arbitrateDisease([]float32{0.45, 0.50, 0.05}, labels, params)

	require.Equal(t, "Bacterial Infection", result.Name)
	require.True(t, result.HasDisease)
}

func TestArbitrateDisease_BothCrossedReportsStronger(t *testing.T) {
	params, _, labels := arbiterFixtures()

	result := arbitrateDisease([]float32{0.41, 0.10, 0.49}, labels, params)

	require.Equal(t, "White Spot Disease", result.Name)
	require.True(t, result.HasDisease)
}

func TestFreshnessLabelBands(t *testing.T) {
	params, _, _ := arbiterFixtures()

	require.Equal(t, "Fresh", freshnessLabel(0.95, params))
	require.Equal(t, "Fresh", freshnessLabel(0.80, params))
	require.Equal(t, "Moderately Fresh", freshnessLabel(0.60, params))
	require.Equal(t, "Not Fresh", freshnessLabel(0.30, params))
}
