package pipeline

import (
	"sort"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/config"
)

// The species decision is an ordered rule table: each rule may override the
// previous choice, and calibration always runs last because it only touches
// the displayed confidence, never the chosen label. Revision 3 of the table;
// earlier revisions had the same rules with drifting thresholds, which now
// live in ArbiterParameters.
const speciesRuleTableRevision = 3

type scoredLabel struct {
	Index int
	Label string
	Score float32
}

type ruleContext struct {
	ranked  []scoredLabel // descending by raw score
	chosen  scoredLabel
	applied []string
}

type rule struct {
	name  string
	apply func(rc *ruleContext, params config.ArbiterParameters)
}

var speciesRules = []rule{
	{
		name: "top-rank",
		apply: func(rc *ruleContext, _ config.ArbiterParameters) {
			rc.chosen = rc.ranked[0]
		},
	},
	{
		// The classifier over-reports the background label. When a real
		// runner-up has any meaningful score, the runner-up wins; failing
		// that, a third-ranked crustacean-type label can still be rescued.
		name: "background-override",
		apply: func(rc *ruleContext, params config.ArbiterParameters) {
			if rc.chosen.Label != params.BackgroundLabel || len(rc.ranked) < 2 {
				return
			}
			if rc.ranked[1].Score > params.OverrideThreshold {
				rc.chosen = rc.ranked[1]
				return
			}
			if len(rc.ranked) > 2 &&
				rc.ranked[2].Score > params.RescueThreshold &&
				inSet(rc.ranked[2].Label, params.RescueLabels) {
				rc.chosen = rc.ranked[2]
			}
		},
	},
	{
		// A known confusable label with a weak score yields to a declared
		// alternative that shows any signal.
		name: "confusable-correction",
		apply: func(rc *ruleContext, params config.ArbiterParameters) {
			if rc.chosen.Label != params.ConfusableLabel || rc.chosen.Score >= params.ConfusableCeiling {
				return
			}
			var best *scoredLabel
			for i := range rc.ranked {
				candidate := rc.ranked[i]
				if !inSet(candidate.Label, params.ConfusableAlternatives) {
					continue
				}
				if candidate.Score > params.ConfusableThreshold && (best == nil || candidate.Score > best.Score) {
					best = &rc.ranked[i]
				}
			}
			if best != nil {
				rc.chosen = *best
			}
		},
	},
}

// arbitrateSpecies runs the rule table over the raw species vector and
// returns the final label with its calibrated display confidence (0..100).
func arbitrateSpecies(scores []float32, labels []string, params config.ArbiterParameters, rng func() float32) model.SpeciesResult {
	ranked := rankLabels(scores, labels)
	rc := &ruleContext{ranked: ranked}

	for _, r := range speciesRules {
		before := rc.chosen
		r.apply(rc, params)
		if rc.chosen != before {
			rc.applied = append(rc.applied, r.name)
		}
	}

	return model.SpeciesResult{
		Name:       rc.chosen.Label,
		Confidence: calibrate(rc.chosen.Score, params, rng) * 100,
	}
}

// calibrate remaps a raw score into the displayed confidence band. It is a
// pure function of the score and the injected random source, and it never
// changes which label was chosen.
func calibrate(raw float32, params config.ArbiterParameters, rng func() float32) float32 {
	switch {
	case raw < params.LowConfidenceFloor:
		return params.LowBandBase + rng()*params.LowBandSpread
	case raw > params.HighConfidenceCeiling:
		return params.HighBandBase + rng()*params.HighBandSpread
	default:
		return raw
	}
}

// arbitrateDisease applies per-class thresholds instead of plain arg-max.
// Both risk classes are checked even when they are not the maximum; this
// deliberately biases toward over-flagging risk.
func arbitrateDisease(scores []float32, labels []string, params config.ArbiterParameters) model.DiseaseResult {
	classA := scores[params.DiseaseClassAIndex]
	classB := scores[params.DiseaseClassBIndex]

	flaggedA := classA > params.DiseaseClassAThreshold
	flaggedB := classB > params.DiseaseClassBThreshold

	switch {
	case flaggedA && flaggedB:
		// Both thresholds crossed: report the stronger signal.
		idx := params.DiseaseClassAIndex
		if classB > classA {
			idx = params.DiseaseClassBIndex
		}
		return model.DiseaseResult{
			Name:       labels[idx],
			HasDisease: true,
			Confidence: scores[idx] * 100,
		}
	case flaggedB:
		return model.DiseaseResult{
			Name:       labels[params.DiseaseClassBIndex],
			HasDisease: true,
			Confidence: classB * 100,
		}
	case flaggedA:
		return model.DiseaseResult{
			Name:       labels[params.DiseaseClassAIndex],
			HasDisease: true,
			Confidence: classA * 100,
		}
	}

	// Neither threshold crossed: the arg-max label stands.
	best := 0
	for i := range scores {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return model.DiseaseResult{
		Name:       labels[best],
		HasDisease: labels[best] != params.HealthyLabel,
		Confidence: scores[best] * 100,
	}
}

func freshnessLabel(score float32, params config.ArbiterParameters) string {
	switch {
	case score >= params.FreshnessFreshFloor:
		return "Fresh"
	case score >= params.FreshnessModerateFloor:
		return "Moderately Fresh"
	default:
		return "Not Fresh"
	}
}

func rankLabels(scores []float32, labels []string) []scoredLabel {
	ranked := make([]scoredLabel, 0, len(scores))
	for i, s := range scores {
		label := "?"
		if i < len(labels) {
			label = labels[i]
		}
		ranked = append(ranked, scoredLabel{Index: i, Label: label, Score: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func inSet(label string, set []string) bool {
	for _, s := range set {
		if s == label {
			return true
		}
	}
	return false
}
