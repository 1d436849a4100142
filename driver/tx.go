package driver

import stddriver "database/sql/driver"

type tx struct {
	conn *conn
}

// Commit implements database/sql/driver.Tx.
func (t *tx) Commit() error {
	return t.conn.raw.Commit()
}

// Rollback implements database/sql/driver.Tx.
func (t *tx) Rollback() error {
	return t.conn.raw.Rollback()
}

var _ stddriver.Tx = (*tx)(nil)
