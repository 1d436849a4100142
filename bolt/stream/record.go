// Package stream implements lazy result streaming on top of a bolt.Conn:
// PULL-driven record fetching bounded by fetch_size/max_rows, and
// index/name-based typed access to each record's fields.
package stream

import (
	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// Record is one row of a Stream, with ordered field values accessible by
// index or by the stream's declared field name. A Record is invalidated
// once the Stream that produced it advances past it or is closed; every
// method but Columns/Len then fails with KindProtocolViolation.
type Record struct {
	columns []string
	index   map[string]int
	fields  values.List

	wasNull    bool
	wasNullSet bool
	closed     bool
}

func newRecord(columns []string, index map[string]int, fields values.List) *Record {
	return &Record{columns: columns, index: index, fields: fields}
}

// close invalidates the record. Called by Stream when a new record is
// fetched or the stream itself is closed.
func (r *Record) close() {
	r.closed = true
}

// Len returns the number of fields in the record.
func (r *Record) Len() int {
	return len(r.fields)
}

// Columns returns the record's field names in order. The caller must not
// mutate the returned slice.
func (r *Record) Columns() []string {
	return r.columns
}

// At returns the raw Value at position i.
func (r *Record) At(i int) (values.Value, error) {
	if r.closed {
		return nil, boltz.New(boltz.KindProtocolViolation, "record is closed")
	}
	if i < 0 || i >= len(r.fields) {
		return nil, boltz.New(boltz.KindProtocolViolation, "field index %d out of range [0,%d)", i, len(r.fields))
	}
	r.markNull(r.fields[i])
	return r.fields[i], nil
}

// Get returns the raw Value for field name.
func (r *Record) Get(name string) (values.Value, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, boltz.New(boltz.KindProtocolViolation, "no such field %q", name)
	}
	return r.At(i)
}

// WasNull reports whether the value retrieved by the most recent At/Get (or
// typed getter built on them) was Null. It fails if called before any
// field was read on this record, or after the record has been closed
// (the Stream advanced past it or was itself closed).
func (r *Record) WasNull() (bool, error) {
	if r.closed {
		return false, boltz.New(boltz.KindProtocolViolation, "WasNull called on a closed record")
	}
	if !r.wasNullSet {
		return false, boltz.New(boltz.KindProtocolViolation, "WasNull called before any field was read")
	}
	return r.wasNull, nil
}

func (r *Record) markNull(v values.Value) {
	_, isNull := v.(values.Null)
	r.wasNull = isNull
	r.wasNullSet = true
}

// Bool projects field i through values.AsBool.
func (r *Record) Bool(i int) (bool, error) {
	v, err := r.At(i)
	if err != nil {
		return false, err
	}
	return values.AsBool(v)
}

// Int64 projects field i through values.AsInt64.
func (r *Record) Int64(i int) (int64, error) {
	v, err := r.At(i)
	if err != nil {
		return 0, err
	}
	return values.AsInt64(v)
}

// String returns field i as a plain Go string, failing for any Value kind
// other than values.String or values.Null (which yields "").
func (r *Record) String(i int) (string, error) {
	v, err := r.At(i)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case values.Null:
		return "", nil
	case values.String:
		return string(t), nil
	default:
		return "", boltz.New(boltz.KindCoercion, "cannot coerce %s to string", v.Kind())
	}
}
