package driver

import "github.com/neo4j-contrib/bolt-cypher-driver/values"

// Metadata is a narrow wrapper around Cypher management statements for
// catalog/procedure enumeration. It is not a core contract: every method
// is a thin Cypher query issued over the same connection, grounded on the
// kind of enumeration JDBC's DatabaseMetadataImpl issues, without porting
// its ResultSet-shaped API.
type Metadata struct {
	conn *conn
}

// Procedures lists installed procedures via "SHOW PROCEDURES".
func (m *Metadata) Procedures() (Rows, error) {
	return m.conn.raw0("SHOW PROCEDURES")
}

// Databases lists databases via "SHOW DATABASES".
func (m *Metadata) Databases() (Rows, error) {
	return m.conn.raw0("SHOW DATABASES")
}

// Components reports server/driver component versions via
// "CALL dbms.components()".
func (m *Metadata) Components() (Rows, error) {
	return m.conn.raw0("CALL dbms.components()")
}

// raw0 runs a management statement verbatim, bypassing the SQL->Cypher
// translator entirely via the force-cypher pragma: these are already
// Cypher.
func (c *conn) raw0(cypherStatement string) (Rows, error) {
	return c.QueryNeo("/*+ NEO4J FORCE_CYPHER */ "+cypherStatement, values.NewMap())
}
