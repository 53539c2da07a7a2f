package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khaledhikmat/aqs-go/model"
)

// solidFrame builds a frame filled with one RGB color.
func solidFrame(width, height int, r, g, b uint8) *model.Frame {
	frame := model.NewFrame(width, height)
	for i := 0; i < len(frame.Pixels); i += 3 {
		frame.Pixels[i] = r
		frame.Pixels[i+1] = g
		frame.Pixels[i+2] = b
	}
	return frame
}

func TestPreprocess_ShapeAndRawScheme(t *testing.T) {
	frame := solidFrame(64, 48, 200, 100, 50)

	tensor, err := Preprocess(frame, 32, model.NormalizationRaw)
	require.NoError(t, err)
	defer tensor.Close()

	require.Equal(t, []int{32, 32, 3}, tensor.Shape)
	require.Len(t, tensor.Data, 32*32*3)

	// A solid frame survives resizing unchanged, raw scheme keeps 0..255.
	require.InDelta(t, 200, tensor.Data[0], 1)
	require.InDelta(t, 100, tensor.Data[1], 1)
	require.InDelta(t, 50, tensor.Data[2], 1)
}

func TestPreprocess_UnitScheme(t *testing.T) {
	frame := solidFrame(64, 64, 255, 0, 102)

	tensor, err := Preprocess(frame, 16, model.NormalizationUnit)
	require.NoError(t, err)
	defer tensor.Close()

	require.InDelta(t, 1.0, tensor.Data[0], 0.01)
	require.InDelta(t, 0.0, tensor.Data[1], 0.01)
	require.InDelta(t, 0.4, tensor.Data[2], 0.01)

	for _, v := range tensor.Data {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}
}

func TestPreprocess_RejectsInvalidFrame(t *testing.T) {
	_, err := Preprocess(nil, 32, model.NormalizationRaw)
	require.Error(t, err)

	broken := &model.Frame{Pixels: make([]uint8, 5), Width: 10, Height: 10}
	_, err = Preprocess(broken, 32, model.NormalizationRaw)
	require.Error(t, err)

	_, err = Preprocess(solidFrame(8, 8, 0, 0, 0), 0, model.NormalizationRaw)
	require.Error(t, err)
}

func TestExtractRegion_CropsToBox(t *testing.T) {
	// Left half red, right half blue.
	frame := model.NewFrame(100, 100)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			i := (y*100 + x) * 3
			if x < 50 {
				frame.Pixels[i] = 255
			} else {
				frame.Pixels[i+2] = 255
			}
		}
	}

	box := model.BoundingBox{YMin: 0, XMin: 0.6, YMax: 1, XMax: 1}
	tensor, err := extractRegion(frame, box, 8)
	require.NoError(t, err)
	defer tensor.Close()

	// Everything in the crop is blue, unit-normalized.
	require.InDelta(t, 0.0, tensor.Data[0], 0.01)
	require.InDelta(t, 1.0, tensor.Data[2], 0.01)
}

func TestExtractRegion_DegenerateBoxUsesWholeFrame(t *testing.T) {
	frame := solidFrame(40, 40, 0, 255, 0)

	box := model.BoundingBox{YMin: 0.5, XMin: 0.5, YMax: 0.5, XMax: 0.5}
	tensor, err := extractRegion(frame, box, 8)
	require.NoError(t, err)
	defer tensor.Close()

	require.Equal(t, []int{8, 8, 3}, tensor.Shape)
	require.InDelta(t, 1.0, tensor.Data[1], 0.01)
}

func TestFrameCrop_Clamping(t *testing.T) {
	frame := solidFrame(10, 10, 1, 2, 3)

	cropped := frame.Crop(-5, -5, 25, 25)
	require.Equal(t, 10, cropped.Width)
	require.Equal(t, 10, cropped.Height)

	empty := frame.Crop(8, 8, 2, 2)
	require.Equal(t, 0, empty.Width)
	require.Equal(t, 0, empty.Height)
}
