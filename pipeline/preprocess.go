package pipeline

import (
	"github.com/nfnt/resize"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/aqs-go/model"
)

// Preprocess resizes a frame to a size x size x 3 tensor and applies the
// model's normalization scheme. The result is materialized in host memory,
// so it is safe to hand to any model backend. The caller owns closing it.
func Preprocess(frame *model.Frame, size int, scheme model.NormalizationScheme) (*model.Tensor, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, xerrors.New("invalid preprocess size")
	}

	resized := resize.Resize(uint(size), uint(size), frame.ToImage(), resize.Bilinear)

	tensor := model.NewTensor(size, size, 3)
	i := 0
	bounds := resized.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			tensor.Data[i] = float32(r >> 8)
			tensor.Data[i+1] = float32(g >> 8)
			tensor.Data[i+2] = float32(b >> 8)
			i += 3
		}
	}

	normalizeTensor(tensor, scheme)

	// Hand the consumer its own host copy so this stage can release its
	// transient buffer regardless of what the consumer does with it.
	out := tensor.Materialize()
	tensor.Close()
	return out, nil
}

func normalizeTensor(t *model.Tensor, scheme model.NormalizationScheme) {
	if scheme != model.NormalizationUnit {
		return
	}
	for i := range t.Data {
		t.Data[i] /= 255.0
	}
}
