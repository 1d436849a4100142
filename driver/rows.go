package driver

import (
	stddriver "database/sql/driver"
	"fmt"
	"io"

	"github.com/neo4j-contrib/bolt-cypher-driver/bolt/stream"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// Rows is the Neo-friendly lazy row stream.
type Rows interface {
	Columns() []string
	Close() error
	// NextNeo advances to the next row, filling dest with one
	// values.Value per column. io.EOF signals exhaustion.
	NextNeo(dest []values.Value) error
}

type rows struct {
	stream *stream.Stream
}

func (r *rows) Columns() []string {
	return r.stream.Columns()
}

func (r *rows) Close() error {
	return r.stream.Close()
}

func (r *rows) NextNeo(dest []values.Value) error {
	rec, err := r.stream.Next()
	if err != nil {
		return err
	}
	if rec == nil {
		return io.EOF
	}
	for i := range dest {
		v, err := rec.At(i)
		if err != nil {
			return err
		}
		dest[i] = v
	}
	return nil
}

// sqlRows adapts rows to database/sql/driver.Rows.
type sqlRows struct {
	rows *rows
}

func (r *sqlRows) Columns() []string { return r.rows.Columns() }

func (r *sqlRows) Close() error { return r.rows.Close() }

func (r *sqlRows) Next(dest []stddriver.Value) error {
	buf := make([]values.Value, len(dest))
	if err := r.rows.NextNeo(buf); err != nil {
		return err
	}
	for i, v := range buf {
		dest[i] = toDriverValue(v)
	}
	return nil
}

// toDriverValue converts a values.Value into a database/sql/driver.Value,
// falling back to a string rendering for graph/temporal/spatial types
// sql/driver has no native representation for.
func toDriverValue(v values.Value) stddriver.Value {
	switch t := v.(type) {
	case values.Null:
		return nil
	case values.Boolean:
		return bool(t)
	case values.Integer:
		return int64(t)
	case values.Float:
		return float64(t)
	case values.Bytes:
		return []byte(t)
	case values.String:
		return string(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
