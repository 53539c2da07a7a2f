package model

import (
	"errors"
	"fmt"
)

// ErrNotReady rejects analysis calls made before model loading completed.
// Callers may retry after the provider reports ready.
var ErrNotReady = errors.New("models are not ready")

// LoadError means model initialization failed. It is fatal until the
// process is restarted.
type LoadError struct {
	Inner error
}

func (e LoadError) Error() string {
	return "model load failed: " + e.Inner.Error()
}

func (e LoadError) Unwrap() error {
	return e.Inner
}

// DetectionFailure is a hard failure of the detector stage. It triggers the
// full-pipeline fallback result.
type DetectionFailure struct {
	Inner error
}

func (e DetectionFailure) Error() string {
	return "detection failed: " + e.Inner.Error()
}

func (e DetectionFailure) Unwrap() error {
	return e.Inner
}

// ClassificationFailure is a soft failure during or after classification.
// It triggers the partial fallback that preserves the computed box.
type ClassificationFailure struct {
	Inner error
}

func (e ClassificationFailure) Error() string {
	return "classification failed: " + e.Inner.Error()
}

func (e ClassificationFailure) Unwrap() error {
	return e.Inner
}

// ShapeMismatch means a model returned an unexpected output count or an
// output of unexpected length. It is handled like a ClassificationFailure.
type ShapeMismatch struct {
	Want int
	Got  int
}

func (e ShapeMismatch) Error() string {
	return fmt.Sprintf("unexpected model output shape: want %d, got %d", e.Want, e.Got)
}
