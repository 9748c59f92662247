package store

import (
	"fmt"
	"time"
)

// Field is one projected column: its schema name and persisted value.
type Field struct {
	Name  string
	Value any
}

// Project returns every persisted field of rec in declaration order, with
// non-primitive values coerced to their string representation.
func (r *Repo[T]) Project(rec T) []Field {
	if r.handlers.Fields == nil {
		return nil
	}
	raw := r.handlers.Fields(rec)
	out := make([]Field, len(raw))
	for i, f := range raw {
		out[i] = Field{Name: f.Name, Value: coerce(f.Value)}
	}
	return out
}

// Map returns the projection of rec as a name-to-value mapping. Field order
// is carried by Project; the map form is the transport contract.
func (r *Repo[T]) Map(rec T) map[string]any {
	fields := r.Project(rec)
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Value
	}
	return out
}

func coerce(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	case time.Time:
		return val.Format(time.DateTime)
	default:
		return fmt.Sprint(val)
	}
}
