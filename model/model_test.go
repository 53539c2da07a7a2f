package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxClamp_RangesAndOrdering(t *testing.T) {
	clamped := BoundingBox{YMin: -0.2, XMin: 0.1, YMax: 1.3, XMax: 0.9}.Clamp()
	require.Equal(t, BoundingBox{YMin: 0, XMin: 0.1, YMax: 1, XMax: 0.9}, clamped)
	require.True(t, clamped.Valid())

	// Swapped corners come back ordered.
	swapped := BoundingBox{YMin: 0.7, XMin: 0.7, YMax: 0.3, XMax: 0.3}.Clamp()
	require.Equal(t, BoundingBox{YMin: 0.3, XMin: 0.3, YMax: 0.7, XMax: 0.7}, swapped)
	require.True(t, swapped.Valid())
}

func TestBoundingBoxValid(t *testing.T) {
	require.True(t, BoundingBox{YMin: 0.1, XMin: 0.1, YMax: 0.9, XMax: 0.9}.Valid())
	require.False(t, BoundingBox{YMin: 0.9, XMin: 0.1, YMax: 0.1, XMax: 0.9}.Valid())
	require.False(t, BoundingBox{YMin: -0.1, XMin: 0, YMax: 0.5, XMax: 0.5}.Valid())
}
