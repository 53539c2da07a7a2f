package inference

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/khaledhikmat/aqs-go/model"
)

func vector(t *testing.T, values ...float32) *model.Tensor {
	t.Helper()
	tensor := model.NewTensorFrom(values, 1, len(values))
	t.Cleanup(tensor.Close)
	return tensor
}

func TestFlatten_Single(t *testing.T) {
	single := vector(t, 1, 2, 3)

	tensors, err := Flatten(SingleOutput{Tensor: single}, nil)
	require.NoError(t, err)
	require.Len(t, tensors, 1)
	require.Same(t, single, tensors[0])
}

func TestFlatten_SingleNilTensor(t *testing.T) {
	_, err := Flatten(SingleOutput{}, nil)
	require.Error(t, err)
}

func TestFlatten_List(t *testing.T) {
	first := vector(t, 1)
	second := vector(t, 2)

	tensors, err := Flatten(ListOutput{Tensors: []*model.Tensor{first, second}}, nil)
	require.NoError(t, err)
	require.Len(t, tensors, 2)
	require.Same(t, first, tensors[0])
	require.Same(t, second, tensors[1])
}

func TestFlatten_EmptyList(t *testing.T) {
	_, err := Flatten(ListOutput{}, nil)
	require.Error(t, err)
}

func TestFlatten_NamedFollowsDeclaredOrder(t *testing.T) {
	species := vector(t, 1)
	disease := vector(t, 2)
	freshness := vector(t, 3)

	tensors, err := Flatten(NamedOutput{Tensors: map[string]*model.Tensor{
		"freshness": freshness,
		"disease":   disease,
		"species":   species,
	}}, []string{"species", "disease", "freshness"})

	require.NoError(t, err)
	require.Len(t, tensors, 3)
	require.Same(t, species, tensors[0])
	require.Same(t, disease, tensors[1])
	require.Same(t, freshness, tensors[2])
}

func TestFlatten_NamedTrailingHeadMayBeAbsent(t *testing.T) {
	species := vector(t, 1)
	disease := vector(t, 2)

	tensors, err := Flatten(NamedOutput{Tensors: map[string]*model.Tensor{
		"species": species,
		"disease": disease,
	}}, []string{"species", "disease", "freshness"})

	require.NoError(t, err)
	require.Len(t, tensors, 2)
}

func TestFlatten_NamedGapIsMismatch(t *testing.T) {
	// "disease" missing while a later head is present: the later head can
	// never be reached positionally.
	_, err := Flatten(NamedOutput{Tensors: map[string]*model.Tensor{
		"species":   vector(t, 1),
		"freshness": vector(t, 3),
	}}, []string{"species", "disease", "freshness"})

	require.Error(t, err)
	var mismatch model.ShapeMismatch
	require.ErrorAs(t, err, &mismatch)
}

func TestFlatten_NamedWithoutOrder(t *testing.T) {
	_, err := Flatten(NamedOutput{Tensors: map[string]*model.Tensor{
		"species": vector(t, 1),
	}}, nil)
	require.Error(t, err)
}

func TestCloseAll_Idempotent(t *testing.T) {
	first := model.NewTensorFrom([]float32{1, 2}, 2)
	second := model.NewTensorFrom([]float32{3}, 1)

	tensors := []*model.Tensor{first, second, nil}
	CloseAll(tensors)
	CloseAll(tensors)

	require.Nil(t, first.Data)
	require.Nil(t, second.Data)
}
