package inference

import (
	"encoding/binary"
	"image"
	"math"
	"os"

	"gocv.io/x/gocv"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/aqs-go/model"
)

// gocvHandle runs one DNN model through OpenCV.
// WARNING: gocv.Net is not thread-safe. The pipeline serializes calls, so a
// single net per handle is fine here.
type gocvHandle struct {
	name      string
	inputSize int
	net       gocv.Net
	outNames  []string
}

// NewGoCVHandle is the production HandleFactory.
func NewGoCVHandle(name, modelPath string, inputSize int) (Handle, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, xerrors.New("model file does not exist: " + modelPath)
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, xerrors.New("error reading model: " + modelPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, err
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, err
	}

	outNames := []string{}
	for _, idx := range net.GetUnconnectedOutLayers() {
		layer := net.GetLayer(idx)
		outNames = append(outNames, layer.GetName())
		layer.Close()
	}

	return &gocvHandle{
		name:      name,
		inputSize: inputSize,
		net:       net,
		outNames:  outNames,
	}, nil
}

func (h *gocvHandle) Name() string {
	return h.name
}

// Predict feeds a preprocessed HxWx3 tensor through the net. Multi-output
// nets come back as a name-keyed output, single-output nets as a single
// tensor. Output data is copied into host tensors before the mats are
// closed, so no result ever aliases OpenCV memory.
func (h *gocvHandle) Predict(input *model.Tensor) (Output, error) {
	if len(input.Shape) != 3 || input.Shape[2] != 3 {
		return nil, model.ShapeMismatch{Want: 3, Got: len(input.Shape)}
	}

	mat, err := matFromTensor(input)
	if err != nil {
		return nil, err
	}
	defer mat.Close() // Crucial to close the mat to avoid memory leaks

	blob := gocv.BlobFromImage(mat, 1.0, image.Pt(h.inputSize, h.inputSize), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	h.net.SetInput(blob, "")

	if len(h.outNames) <= 1 {
		out := h.net.Forward("")
		defer out.Close()

		t, err := tensorFromMat(out)
		if err != nil {
			return nil, err
		}
		return SingleOutput{Tensor: t}, nil
	}

	mats := h.net.ForwardLayers(h.outNames)
	defer func() {
		for i := range mats {
			mats[i].Close() // Crucial to close the mats to avoid memory leaks
		}
	}()

	named := map[string]*model.Tensor{}
	for i := range mats {
		t, err := tensorFromMat(mats[i])
		if err != nil {
			for _, prev := range named {
				prev.Close()
			}
			return nil, err
		}
		named[h.outNames[i]] = t
	}

	return NamedOutput{Tensors: named}, nil
}

func (h *gocvHandle) Close() error {
	return h.net.Close()
}

func matFromTensor(t *model.Tensor) (gocv.Mat, error) {
	rows, cols := t.Shape[0], t.Shape[1]
	buf := make([]byte, len(t.Data)*4)
	for i, v := range t.Data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV32FC3, buf)
}

func tensorFromMat(mat gocv.Mat) (*model.Tensor, error) {
	data, err := mat.DataPtrFloat32()
	if err != nil {
		return nil, err
	}
	shape := mat.Size()
	if len(shape) == 0 {
		return nil, model.ShapeMismatch{Want: 1, Got: 0}
	}
	return model.NewTensorFrom(data, shape...), nil
}
