package inference

import "github.com/khaledhikmat/aqs-go/model"

// Flatten normalizes any output variant into a fixed-position tensor list.
// Name-keyed outputs are ordered by the declared order; names missing from
// the output are a shape mismatch. The returned tensors are the output's own
// buffers, so the caller owns closing them.
func Flatten(out Output, order []string) ([]*model.Tensor, error) {
	switch v := out.(type) {
	case SingleOutput:
		if v.Tensor == nil {
			return nil, model.ShapeMismatch{Want: 1, Got: 0}
		}
		return []*model.Tensor{v.Tensor}, nil

	case ListOutput:
		if len(v.Tensors) == 0 {
			return nil, model.ShapeMismatch{Want: 1, Got: 0}
		}
		return v.Tensors, nil

	case NamedOutput:
		if len(order) == 0 {
			return nil, model.ShapeMismatch{Want: 1, Got: len(v.Tensors)}
		}
		tensors := make([]*model.Tensor, 0, len(order))
		for _, name := range order {
			t, ok := v.Tensors[name]
			if !ok {
				// Trailing heads may be absent (e.g. no freshness head),
				// but a gap in the middle is a mismatch.
				break
			}
			tensors = append(tensors, t)
		}
		if len(tensors) == 0 || len(tensors) < len(v.Tensors) {
			return nil, model.ShapeMismatch{Want: len(order), Got: len(v.Tensors)}
		}
		return tensors, nil
	}

	return nil, model.ShapeMismatch{Want: 1, Got: 0}
}

// CloseAll releases every tensor in a flattened output list.
func CloseAll(tensors []*model.Tensor) {
	for _, t := range tensors {
		t.Close()
	}
}
