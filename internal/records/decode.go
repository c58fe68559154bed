package records

import (
	"bytes"
	"encoding/json"
)

// Outcome tells how a stored document decoded.
type Outcome int

const (
	Found Outcome = iota
	Missing
	Malformed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Missing:
		return "missing"
	default:
		return "malformed"
	}
}

// Decode maps raw stored text to T. An absent key yields Missing; text that
// is not JSON, is null, or does not fit T's shape yields Malformed. In both
// cases the returned value is the zero T.
func Decode[T any](raw []byte, found bool) (T, Outcome) {
	var zero T
	if !found {
		return zero, Missing
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return zero, Malformed
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return zero, Malformed
	}
	return v, Found
}

// DecodeList is Decode for array documents; the result is never nil.
func DecodeList[T any](raw []byte, found bool) ([]T, Outcome) {
	v, out := Decode[[]T](raw, found)
	if v == nil {
		v = []T{}
	}
	return v, out
}

// DecodeMap is Decode for object documents; the result is never nil.
func DecodeMap[T any](raw []byte, found bool) (map[string]T, Outcome) {
	v, out := Decode[map[string]T](raw, found)
	if v == nil {
		v = map[string]T{}
	}
	return v, out
}
