package inference

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/config"
)

// recordingFactory hands out fake handles and remembers what was requested.
type recordingFactory struct {
	mu       sync.Mutex
	requests map[string]string // name -> path
	fail     map[string]error
}

func newRecordingFactory() *recordingFactory {
	return &recordingFactory{
		requests: map[string]string{},
		fail:     map[string]error{},
	}
}

func (f *recordingFactory) open(name, modelPath string, _ int) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[name] = modelPath
	if err := f.fail[name]; err != nil {
		return nil, err
	}
	return NewFakeHandle(name), nil
}

func TestProvider_StartsLoading(t *testing.T) {
	provider := NewProvider(config.NewHardCoded(), newRecordingFactory().open)

	status, err := provider.Status()
	require.Equal(t, StatusLoading, status)
	require.NoError(t, err)
	require.Nil(t, provider.Detector())
	require.Nil(t, provider.Classifier())
}

func TestProvider_LoadReady(t *testing.T) {
	factory := newRecordingFactory()
	cfgSvc := config.NewHardCoded()
	provider := NewProvider(cfgSvc, factory.open)

	provider.Load(context.Background())

	status, err := provider.Status()
	require.Equal(t, StatusReady, status)
	require.NoError(t, err)
	require.NotNil(t, provider.Detector())
	require.NotNil(t, provider.Classifier())

	require.Equal(t, cfgSvc.GetDetectorParameters().ModelPath, factory.requests["detector"])
	require.Equal(t, cfgSvc.GetClassifierParameters().SpeciesModelPath, factory.requests["classifier"])
}

func TestProvider_DiseaseSlotOnlyWhenConfigured(t *testing.T) {
	factory := newRecordingFactory()
	cfgSvc := config.NewHardCoded()
	provider := NewProvider(cfgSvc, factory.open)

	provider.Load(context.Background())

	_, requested := factory.requests["disease"]
	require.Equal(t, cfgSvc.GetClassifierParameters().DiseaseModelPath != "", requested)
	if !requested {
		require.Nil(t, provider.DiseaseClassifier())
	}
}

func TestProvider_LoadFailureIsSticky(t *testing.T) {
	factory := newRecordingFactory()
	factory.fail["detector"] = xerrors.New("weights file missing")
	provider := NewProvider(config.NewHardCoded(), factory.open)

	provider.Load(context.Background())

	status, err := provider.Status()
	require.Equal(t, StatusError, status)

	var loadErr model.LoadError
	require.ErrorAs(t, err, &loadErr)

	// Load never retries within a process lifetime.
	provider.Load(context.Background())
	status, _ = provider.Status()
	require.Equal(t, StatusError, status)
}

func TestProvider_CanceledContextFailsLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := NewProvider(config.NewHardCoded(), newRecordingFactory().open)
	provider.Load(ctx)

	status, err := provider.Status()
	require.Equal(t, StatusError, status)
	require.Error(t, err)
}

func TestProvider_FinalizeReleasesHandles(t *testing.T) {
	provider := NewProvider(config.NewHardCoded(), newRecordingFactory().open)
	provider.Load(context.Background())
	provider.Finalize()

	require.Nil(t, provider.Detector())
	require.Nil(t, provider.Classifier())
	require.Nil(t, provider.DiseaseClassifier())
}

func TestFakeHandle_ReplaysScriptAndRepeatsLast(t *testing.T) {
	first := SingleOutput{Tensor: model.NewTensorFrom([]float32{1}, 1)}
	second := SingleOutput{Tensor: model.NewTensorFrom([]float32{2}, 1)}
	handle := NewFakeHandle("scripted", first, second)

	out, err := handle.Predict(nil)
	require.NoError(t, err)
	require.Equal(t, first, out)

	out, err = handle.Predict(nil)
	require.NoError(t, err)
	require.Equal(t, second, out)

	out, err = handle.Predict(nil)
	require.NoError(t, err)
	require.Equal(t, second, out)
}

func TestFakeHandle_EmptyScriptErrors(t *testing.T) {
	handle := NewFakeHandle("empty")
	_, err := handle.Predict(nil)
	require.Error(t, err)
}
