package bolt

import (
	"bytes"
	"io"

	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"
)

// magicPreamble identifies the first four bytes of a Bolt connection,
// before any version has been agreed.
var magicPreamble = []byte{0x60, 0x60, 0xb0, 0x17}

// ProtocolVersion is a negotiated Bolt major.minor pair.
type ProtocolVersion struct {
	Major byte
	Minor byte
}

func (v ProtocolVersion) isZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// AtLeast reports whether v is the same major version and at least the
// given minor, or a newer major version entirely.
func (v ProtocolVersion) AtLeast(major, minor byte) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// supportedVersions lists the versions this driver proposes, newest first.
// The server picks the first one it also supports.
var supportedVersions = []ProtocolVersion{
	{Major: 5, Minor: 4},
	{Major: 5, Minor: 0},
	{Major: 4, Minor: 4},
	{Major: 4, Minor: 2},
}

// negotiateVersion performs the magic-preamble handshake on rw: it writes
// the preamble followed by up to four proposed versions and reads back the
// server's single chosen version. A zero version means the server supports
// none of the proposals.
func negotiateVersion(rw io.ReadWriter) (ProtocolVersion, error) {
	if _, err := rw.Write(magicPreamble); err != nil {
		return ProtocolVersion{}, wrapIOErr(err)
	}

	var proposal bytes.Buffer
	for i := 0; i < 4; i++ {
		var entry [4]byte
		if i < len(supportedVersions) {
			v := supportedVersions[i]
			entry[2] = v.Minor
			entry[3] = v.Major
		}
		proposal.Write(entry[:])
	}
	if _, err := rw.Write(proposal.Bytes()); err != nil {
		return ProtocolVersion{}, wrapIOErr(err)
	}

	var resp [4]byte
	if _, err := io.ReadFull(rw, resp[:]); err != nil {
		return ProtocolVersion{}, wrapIOErr(err)
	}
	chosen := ProtocolVersion{Major: resp[3], Minor: resp[2]}
	if chosen.isZero() {
		return ProtocolVersion{}, boltz.New(boltz.KindProtocolViolation, "server rejected all proposed protocol versions")
	}
	return chosen, nil
}

// usesUTCDateTime reports whether a connection negotiated at v should
// encode and expect the UTC-baseline DateTime structure signatures
// (SigDateTimeUTCOffset/SigDateTimeUTCZoneID) rather than the legacy pair.
func usesUTCDateTime(v ProtocolVersion) bool {
	return v.AtLeast(5, 0)
}
