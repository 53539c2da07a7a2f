package pipeline

import (
	"github.com/khaledhikmat/aqs-go/model"
)

// extractRegion crops the original full-resolution frame (never the
// detector-resized one) to the chosen box and produces the classifier input
// tensor, normalized to [0,1] and materialized in host memory.
func extractRegion(frame *model.Frame, box model.BoundingBox, size int) (*model.Tensor, error) {
	x0 := int(box.XMin * float32(frame.Width))
	x1 := int(box.XMax * float32(frame.Width))
	y0 := int(box.YMin * float32(frame.Height))
	y1 := int(box.YMax * float32(frame.Height))

	region := frame.Crop(x0, y0, x1, y1)
	if region.Width == 0 || region.Height == 0 {
		// A degenerate box falls back to the whole frame rather than
		// failing the call.
		region = frame.Crop(0, 0, frame.Width, frame.Height)
	}

	return Preprocess(region, size, model.NormalizationUnit)
}
