package inference

import (
	"context"

	"github.com/khaledhikmat/aqs-go/model"
)

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Output is the tagged variant of what a model call may return: a single
// tensor, a positional list, or a name-keyed map. Callers must flatten an
// output before any positional access (see Flatten).
type Output interface {
	isOutput()
}

type SingleOutput struct {
	Tensor *model.Tensor
}

type ListOutput struct {
	Tensors []*model.Tensor
}

type NamedOutput struct {
	Tensors map[string]*model.Tensor
}

func (SingleOutput) isOutput() {}
func (ListOutput) isOutput()   {}
func (NamedOutput) isOutput()  {}

// Handle is one opaque loaded model.
type Handle interface {
	Name() string
	Predict(input *model.Tensor) (Output, error)
	Close() error
}

// IService owns the loaded model handles behind a {loading, ready, error}
// state machine. Load runs exactly once per process lifetime; callers must
// check Status before asking for handles.
type IService interface {
	Load(canxCtx context.Context)
	Status() (Status, error)
	Detector() Handle
	Classifier() Handle
	DiseaseClassifier() Handle
	Finalize()
}
