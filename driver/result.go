package driver

import (
	stddriver "database/sql/driver"

	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// Result is the Neo-friendly execution summary, returned by ExecNeo. It
// embeds database/sql/driver.Result so a *result value satisfies both
// boundaries without a runtime type assertion.
type Result interface {
	stddriver.Result
	// Metadata returns the SUCCESS message's metadata map verbatim
	// (e.g. "stats" counters for nodes/relationships created).
	Metadata() *values.Map
}

type result struct {
	metadata *values.Map
}

func (r *result) Metadata() *values.Map { return r.metadata }

// LastInsertId implements database/sql/driver.Result. Neo4j has no
// auto-increment identity column; this always returns an error.
func (r *result) LastInsertId() (int64, error) {
	return 0, errNotSupported("LastInsertId")
}

// RowsAffected implements database/sql/driver.Result, reading the "stats"
// counters (nodes/relationships/properties created or deleted) from the
// SUCCESS metadata, summed, when present.
func (r *result) RowsAffected() (int64, error) {
	statsVal, ok := r.metadata.Get("stats")
	if !ok {
		return 0, nil
	}
	stats, ok := statsVal.(*values.Map)
	if !ok {
		return 0, nil
	}
	var total int64
	for _, k := range stats.Keys() {
		v, _ := stats.Get(k)
		if n, ok := v.(values.Integer); ok {
			total += int64(n)
		}
	}
	return total, nil
}

func errNotSupported(op string) error {
	return &notSupportedError{op: op}
}

type notSupportedError struct{ op string }

func (e *notSupportedError) Error() string {
	return e.op + " is not supported by the Neo4j bolt driver"
}
