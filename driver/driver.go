// Package driver adapts the core bolt/cypher packages to
// database/sql/driver, plus a Neo-friendly interface for callers that want
// typed values without going through database/sql's interface{} boundary.
// It forwards to bolt.Conn and bolt/stream.Stream and holds no protocol
// logic of its own.
package driver

import (
	"context"
	"database/sql"
	stddriver "database/sql/driver"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/neo4j-contrib/bolt-cypher-driver/bolt"
	"github.com/neo4j-contrib/bolt-cypher-driver/cypher"
	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltlog"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

func init() {
	sql.Register("neo4j-bolt-cypher", &SQLDriver{})
}

// SQLDriver implements database/sql/driver.Driver, dialing a bolt+cypher
// connection string of the form "bolt://[user:pass@]host:port".
type SQLDriver struct {
	// TranslatorConfig configures every connection's SQL->Cypher
	// translation. Leave unset only if cypher.DefaultConfig() is
	// explicitly assigned here; the bare zero value differs from it
	// (PrettyPrint defaults to false rather than true).
	TranslatorConfig cypher.Config
	// Log receives connection-lifecycle entries. A nil Log uses the
	// package's discarding default.
	Log *logrus.Entry
}

// Open implements database/sql/driver.Driver.
func (d *SQLDriver) Open(dsn string) (stddriver.Conn, error) {
	return Open(dsn, d.TranslatorConfig, d.Log)
}

// ParsedDSN is a bolt connection string broken into dial address and
// optional basic-auth credentials.
type ParsedDSN struct {
	Address  string
	Username string
	Password string
}

// ParseDSN parses a "bolt://[user:pass@]host:port" connection string.
func ParseDSN(dsn string) (ParsedDSN, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return ParsedDSN{}, err
	}
	if strings.ToLower(u.Scheme) != "bolt" {
		return ParsedDSN{}, fmt.Errorf("unsupported connection string scheme %q: only \"bolt\" is supported", u.Scheme)
	}
	parsed := ParsedDSN{Address: u.Host}
	if u.User != nil {
		parsed.Username = u.User.Username()
		parsed.Password, _ = u.User.Password()
	}
	return parsed, nil
}

// Conn is the Neo-friendly connection interface, a superset of what
// database/sql/driver.Conn requires.
type Conn interface {
	stddriver.Conn
	stddriver.Pinger
	// PrepareNeo prepares a statement exposing typed params/results
	// instead of the sql/driver.Value boundary.
	PrepareNeo(query string) (Stmt, error)
	// ExecNeo runs a statement to completion and returns its summary.
	ExecNeo(query string, params *values.Map) (Result, error)
	// QueryNeo runs a statement and returns a lazy row stream.
	QueryNeo(query string, params *values.Map) (Rows, error)
	// Metadata exposes catalog/procedure enumeration.
	Metadata() *Metadata
}

type conn struct {
	raw    *bolt.Conn
	cfg    cypher.Config
	closed bool
}

// Open dials a bolt connection at dsn and returns a Conn ready to prepare
// and run statements.
func Open(dsn string, cfg cypher.Config, log *logrus.Entry) (Conn, error) {
	parsed, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = boltlog.For("driver.conn")
	}

	var authToken *values.Map
	if parsed.Username != "" {
		authToken = values.NewMap()
		authToken.Set("scheme", values.String("basic"))
		authToken.Set("principal", values.String(parsed.Username))
		authToken.Set("credentials", values.String(parsed.Password))
	}

	raw, err := bolt.Dial(bolt.Config{
		Address:   parsed.Address,
		Timeout:   10 * time.Second,
		AuthToken: authToken,
		UserAgent: "bolt-cypher-driver/1.0",
		Log:       log,
	})
	if err != nil {
		return nil, err
	}
	return &conn{raw: raw, cfg: cfg}, nil
}

// Prepare implements database/sql/driver.Conn.
func (c *conn) Prepare(query string) (stddriver.Stmt, error) {
	s, err := c.PrepareNeo(query)
	if err != nil {
		return nil, err
	}
	return &sqlStmt{stmt: s.(*stmt)}, nil
}

// PrepareNeo prepares a statement, translating SQL to Cypher unless the
// force-cypher pragma bypasses translation.
func (c *conn) PrepareNeo(query string) (Stmt, error) {
	if c.closed {
		return nil, stddriver.ErrBadConn
	}
	cypherText, err := cypher.Translate(query, c.cfg)
	if err != nil {
		return nil, err
	}
	return &stmt{conn: c, cypherText: cypherText}, nil
}

// ExecNeo implements Conn.
func (c *conn) ExecNeo(query string, params *values.Map) (Result, error) {
	s, err := c.PrepareNeo(query)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.ExecNeo(params)
}

// QueryNeo implements Conn.
func (c *conn) QueryNeo(query string, params *values.Map) (Rows, error) {
	s, err := c.PrepareNeo(query)
	if err != nil {
		return nil, err
	}
	return s.QueryNeo(params)
}

// Metadata implements Conn.
func (c *conn) Metadata() *Metadata {
	return &Metadata{conn: c}
}

// Ping implements database/sql/driver.Pinger.
func (c *conn) Ping(ctx context.Context) error {
	if c.closed || c.raw.State() == bolt.StateDefunct {
		return stddriver.ErrBadConn
	}
	return nil
}

// Close implements database/sql/driver.Conn.
func (c *conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.raw.Close()
}

// Begin implements database/sql/driver.Conn.
func (c *conn) Begin() (stddriver.Tx, error) {
	if c.closed {
		return nil, stddriver.ErrBadConn
	}
	if err := c.raw.BeginTx(nil); err != nil {
		return nil, err
	}
	return &tx{conn: c}, nil
}
