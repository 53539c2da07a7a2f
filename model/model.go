package model

import (
	"fmt"
	"runtime/debug"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func (e CustomError) Error() string {
	return e.Message
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

// NormalizationScheme selects how pixel values are scaled before a model
// sees them. It is a per-model configuration, never inferred from data.
type NormalizationScheme string

const (
	NormalizationRaw  NormalizationScheme = "raw_0_255"
	NormalizationUnit NormalizationScheme = "unit_0_1"
)

// BoundingBox is a normalized rectangle. All corners are in [0,1] with
// YMin <= YMax and XMin <= XMax.
type BoundingBox struct {
	YMin float32 `json:"yMin"`
	XMin float32 `json:"xMin"`
	YMax float32 `json:"yMax"`
	XMax float32 `json:"xMax"`
}

// Clamp forces the box into the unit square: corners are ordered first so
// min <= max always holds, then clamped into [0,1]. A box that went through
// Clamp is always Valid.
func (b BoundingBox) Clamp() BoundingBox {
	if b.YMin > b.YMax {
		b.YMin, b.YMax = b.YMax, b.YMin
	}
	if b.XMin > b.XMax {
		b.XMin, b.XMax = b.XMax, b.XMin
	}
	return BoundingBox{
		YMin: clamp01(b.YMin),
		XMin: clamp01(b.XMin),
		YMax: clamp01(b.YMax),
		XMax: clamp01(b.XMax),
	}
}

// Valid reports whether the box satisfies the corner ordering invariant.
func (b BoundingBox) Valid() bool {
	return b.YMin >= 0 && b.XMin >= 0 &&
		b.YMax <= 1 && b.XMax <= 1 &&
		b.YMin <= b.YMax && b.XMin <= b.XMax
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type SpeciesResult struct {
	Name       string  `json:"name"`
	Confidence float32 `json:"confidence"` // displayed, 0..100
}

type FreshnessResult struct {
	Score float32 `json:"score"` // 0..1
	Label string  `json:"label"`
}

type DiseaseResult struct {
	Name       string  `json:"name"`
	HasDisease bool    `json:"hasDisease"`
	Confidence float32 `json:"confidence"` // displayed, 0..100
}

// AnalysisResult is the final output of one analysis call. It is created
// fresh per call and never mutated after assembly.
type AnalysisResult struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"` // image path or capture identifier
	Species   SpeciesResult   `json:"species"`
	Freshness FreshnessResult `json:"freshness"`
	Disease   DiseaseResult   `json:"disease"`
	Box       BoundingBox     `json:"boundingBox"`
	Timestamp int64           `json:"timestamp"`
}

type AnalyzerStats struct {
	Name           string  `json:"name"`
	Analyses       int     `json:"analyses"`
	Fallbacks      int     `json:"fallbacks"`
	Errors         int     `json:"errors"`
	Uptime         int64   `json:"uptime"`
	AvgProcTime    float64 `json:"avgProcTime"`
	LastDetections int     `json:"lastDetections"`
	Timestamp      int64   `json:"timestamp"`
}

type LoaderStats struct {
	Models     int     `json:"models"`
	Status     string  `json:"status"`
	LoadTimeMs float64 `json:"loadTimeMs"`
	Timestamp  int64   `json:"timestamp"`
}

type SpeciesPrice struct {
	Species    string  `json:"species"`
	PricePerKg float64 `json:"pricePerKg"`
	Currency   string  `json:"currency"`
}
