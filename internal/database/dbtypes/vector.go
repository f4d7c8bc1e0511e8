package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Vector is an embedding stored as "[0.12,0.34,...]" text, the same
// serialization pgvector uses, so the column can be migrated to a real
// vector type without rewriting rows.
type Vector []float32

func (v Vector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

func (v *Vector) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	switch data := value.(type) {
	case string:
		return v.parse(data)
	case []byte:
		return v.parse(string(data))
	default:
		return fmt.Errorf("unsupported type for Vector: %T", value)
	}
}

func (v *Vector) parse(s string) error {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		*v = Vector{}
		return nil
	}
	parts := strings.Split(s, ",")
	vec := make(Vector, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("invalid vector element %q: %w", p, err)
		}
		vec[i] = float32(f)
	}
	*v = vec
	return nil
}

// ZeroVector returns an all-zero vector of the given dimensionality.
func ZeroVector(dim int) Vector {
	return make(Vector, dim)
}
