package model

import "sync"

// Transient tensor buffers are recycled across analysis calls. Buffers are
// proportional to image resolution, so leaking one per call adds up fast.
var tensorPool = sync.Pool{
	New: func() interface{} {
		buf := make([]float32, 0)
		return &buf
	},
}

// Tensor is a transient float buffer with a row-major shape. Every tensor
// must be closed on every exit path of the stage that created it.
type Tensor struct {
	Shape []int
	Data  []float32

	released bool
}

// NewTensor acquires a zeroed tensor of the given shape from the pool.
func NewTensor(shape ...int) *Tensor {
	n := 1
	for _, d := range shape {
		n *= d
	}

	bufp := tensorPool.Get().(*[]float32)
	buf := *bufp
	if cap(buf) < n {
		buf = make([]float32, n)
	} else {
		buf = buf[:n]
		for i := range buf {
			buf[i] = 0
		}
	}

	return &Tensor{Shape: shape, Data: buf}
}

// NewTensorFrom acquires a tensor and copies data into it. The source slice
// is not retained.
func NewTensorFrom(data []float32, shape ...int) *Tensor {
	t := NewTensor(shape...)
	copy(t.Data, data)
	return t
}

func (t *Tensor) Numel() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Materialize copies the tensor into fresh host memory. Stages call this
// before handing a buffer across an execution-context boundary so the
// consumer never depends on the producer's buffer lifetime.
func (t *Tensor) Materialize() *Tensor {
	return NewTensorFrom(t.Data, t.Shape...)
}

// Close releases the buffer back to the pool. Safe to call more than once.
func (t *Tensor) Close() {
	if t == nil || t.released {
		return
	}
	t.released = true
	buf := t.Data
	t.Data = nil
	tensorPool.Put(&buf)
}
