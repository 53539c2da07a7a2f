package inference

import (
	"context"

	"github.com/khaledhikmat/aqs-go/model"
)

// FakeHandle replays scripted outputs. Each Predict consumes the next
// scripted output; the last one repeats once the script runs out.
type FakeHandle struct {
	HandleName string
	Outputs    []Output
	Err        error

	calls int
}

func NewFakeHandle(name string, outputs ...Output) *FakeHandle {
	return &FakeHandle{
		HandleName: name,
		Outputs:    outputs,
	}
}

func (h *FakeHandle) Name() string {
	return h.HandleName
}

func (h *FakeHandle) Predict(_ *model.Tensor) (Output, error) {
	if h.Err != nil {
		return nil, h.Err
	}
	if len(h.Outputs) == 0 {
		return nil, model.ShapeMismatch{Want: 1, Got: 0}
	}

	idx := h.calls
	if idx >= len(h.Outputs) {
		idx = len(h.Outputs) - 1
	}
	h.calls++
	return h.Outputs[idx], nil
}

func (h *FakeHandle) Close() error {
	return nil
}

// fakeService is a pre-loaded provider for tests and wiring dry runs.
type fakeService struct {
	status     Status
	loadErr    error
	detector   Handle
	classifier Handle
	disease    Handle
}

func NewFake(detector, classifier, disease Handle) IService {
	return &fakeService{
		status:     StatusReady,
		detector:   detector,
		classifier: classifier,
		disease:    disease,
	}
}

// NewFakeWithStatus builds an unloaded or failed provider.
func NewFakeWithStatus(status Status, loadErr error) IService {
	return &fakeService{
		status:  status,
		loadErr: loadErr,
	}
}

func (svc *fakeService) Load(_ context.Context) {
}

func (svc *fakeService) Status() (Status, error) {
	return svc.status, svc.loadErr
}

func (svc *fakeService) Detector() Handle {
	return svc.detector
}

func (svc *fakeService) Classifier() Handle {
	return svc.classifier
}

func (svc *fakeService) DiseaseClassifier() Handle {
	return svc.disease
}

func (svc *fakeService) Finalize() {
}
