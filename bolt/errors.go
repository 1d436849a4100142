package bolt

import (
	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"
	"github.com/neo4j-contrib/bolt-cypher-driver/packstream"
)

// liftCodecErr translates a packstream sentinel error into a connection-level
// ProtocolViolation. packstream has no notion of connection state; this
// boundary is where that mapping happens.
func liftCodecErr(err error) error {
	if err == nil {
		return nil
	}
	switch err {
	case packstream.ErrMalformed, packstream.ErrOverflow:
		return boltz.Wrap(boltz.KindProtocolViolation, err, "malformed bolt message")
	default:
		return err
	}
}

func protoErr(format string, args ...interface{}) error {
	return boltz.New(boltz.KindProtocolViolation, format, args...)
}
