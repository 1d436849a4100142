package driver

import (
	stddriver "database/sql/driver"
	"fmt"

	"github.com/neo4j-contrib/bolt-cypher-driver/bolt/stream"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// Stmt is the Neo-friendly prepared statement interface.
type Stmt interface {
	Close() error
	NumInput() int
	ExecNeo(params *values.Map) (Result, error)
	QueryNeo(params *values.Map) (Rows, error)
}

type stmt struct {
	conn       *conn
	cypherText string
	closed     bool
}

// Close implements Stmt.
func (s *stmt) Close() error {
	s.closed = true
	return nil
}

// NumInput implements Stmt. -1 signals "unknown": the translated Cypher
// text may reference either positional ($1, $2, ...) or named parameters,
// and database/sql only needs to skip validation when this is negative.
func (s *stmt) NumInput() int {
	return -1
}

// ExecNeo implements Stmt.
func (s *stmt) ExecNeo(params *values.Map) (Result, error) {
	if s.closed {
		return nil, fmt.Errorf("statement already closed")
	}
	reply, err := s.conn.raw.Run(s.cypherText, params, nil)
	if err != nil {
		return nil, err
	}
	md, err := reply.AsMetadata()
	if err != nil {
		return nil, err
	}
	if _, _, err := s.conn.raw.Pull(-1, -1); err != nil {
		return nil, err
	}
	return &result{metadata: md}, nil
}

// QueryNeo implements Stmt.
func (s *stmt) QueryNeo(params *values.Map) (Rows, error) {
	if s.closed {
		return nil, fmt.Errorf("statement already closed")
	}
	st, err := stream.Open(s.conn.raw, s.cypherText, params, nil, stream.Options{FetchSize: 1000})
	if err != nil {
		return nil, err
	}
	return &rows{stream: st}, nil
}

// sqlStmt adapts stmt to database/sql/driver.Stmt.
type sqlStmt struct {
	stmt *stmt
}

func (s *sqlStmt) Close() error { return s.stmt.Close() }

func (s *sqlStmt) NumInput() int { return s.stmt.NumInput() }

func (s *sqlStmt) Exec(args []stddriver.Value) (stddriver.Result, error) {
	params, err := argsToMap(args)
	if err != nil {
		return nil, err
	}
	return s.stmt.ExecNeo(params)
}

func (s *sqlStmt) Query(args []stddriver.Value) (stddriver.Rows, error) {
	params, err := argsToMap(args)
	if err != nil {
		return nil, err
	}
	r, err := s.stmt.QueryNeo(params)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: r.(*rows)}, nil
}

// argsToMap converts positional database/sql args into the "1","2",...
// named-parameter map that a translated statement's $1,$2,... params
// reference.
func argsToMap(args []stddriver.Value) (*values.Map, error) {
	m := values.NewMap()
	for i, a := range args {
		v, err := fromDriverValue(a)
		if err != nil {
			return nil, err
		}
		m.Set(fmt.Sprintf("%d", i+1), v)
	}
	return m, nil
}

func fromDriverValue(v stddriver.Value) (values.Value, error) {
	switch t := v.(type) {
	case nil:
		return values.Null{}, nil
	case bool:
		return values.Boolean(t), nil
	case int64:
		return values.Integer(t), nil
	case float64:
		return values.Float(t), nil
	case []byte:
		return values.Bytes(t), nil
	case string:
		return values.String(t), nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %T", v)
	}
}
