package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonColumn guarda T como JSONB (tags, reminders).
type jsonColumn[T any] struct {
	V T
}

func (c jsonColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(c.V)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *jsonColumn[T]) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		var zero T
		c.V = zero
		return nil
	case []byte:
		return json.Unmarshal(s, &c.V)
	case string:
		return json.Unmarshal([]byte(s), &c.V)
	default:
		return fmt.Errorf("jsonColumn: unsupported type %T", src)
	}
}

// setClause acumula "col = $n" para UPDATE parciales. Los primeros args
// son los del WHERE.
type setClause struct {
	cols []string
	args []any
}

func newSetClause(whereArgs ...any) *setClause {
	return &setClause{args: append([]any(nil), whereArgs...)}
}

func (s *setClause) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}
