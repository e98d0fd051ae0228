package docstore

import "reflect"

// UnionValues merges values into arr with set semantics: each value is
// normalized and appended only when no equal element is already present.
// Shared by the store backends implementing Union.
func UnionValues(arr []any, values []any) ([]any, error) {
	out := append([]any{}, arr...)
	for _, v := range values {
		norm, err := Normalize(v)
		if err != nil {
			return nil, err
		}
		present := false
		for _, e := range out {
			if reflect.DeepEqual(e, norm) {
				present = true
				break
			}
		}
		if !present {
			out = append(out, norm)
		}
	}
	return out, nil
}
