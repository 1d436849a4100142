// Package bolt implements the connection-level Bolt protocol: chunked
// framing, handshake and version negotiation, the HELLO/RUN/PULL/.../
// GOODBYE message set, the connection state machine, and translation
// between PackStream structures and the values package's typed model.
package bolt

// Message signature bytes (request and summary messages).
const (
	SigHello    = 0x01
	SigGoodbye  = 0x02
	SigReset    = 0x0F
	SigRun      = 0x10
	SigBegin    = 0x11
	SigCommit   = 0x12
	SigRollback = 0x13
	SigDiscard  = 0x2F
	SigPull     = 0x3F

	SigSuccess = 0x70
	SigIgnored = 0x7E
	SigFailure = 0x7F
	SigRecord  = 0x71
)

// Structure signature bytes for graph entities and temporal/spatial
// values. UTC and legacy date-time pairs share a field layout but are
// gated by the connection's negotiated protocol version; see unpack.go.
const (
	SigNode                 = 'N'
	SigRelationship         = 'R'
	SigUnboundRelationship  = 'r'
	SigPath                 = 'P'
	SigDate                 = 'D'
	SigTime                 = 'T'
	SigLocalTime            = 't'
	SigLocalDateTime        = 'd'
	SigDateTimeLegacyOffset = 'F'
	SigDateTimeLegacyZoneID = 'f'
	SigDateTimeUTCOffset    = 'I'
	SigDateTimeUTCZoneID    = 'i'
	SigDuration             = 'E'
	SigPoint2D              = 'X'
	SigPoint3D              = 'Y'
)

// fieldCounts is the signature table for structures whose field count is
// fixed. Node, Relationship and UnboundRelationship are handled separately
// in unpack.go: newer protocol versions append element-id string fields
// (one for Node and UnboundRelationship, three for Relationship), so their
// valid counts are a pair, not a single number.
var fieldCounts = map[byte]int{
	SigHello:    1,
	SigGoodbye:  0,
	SigReset:    0,
	SigRun:      3,
	SigBegin:    1,
	SigCommit:   0,
	SigRollback: 0,
	SigDiscard:  1,
	SigPull:     1,

	SigSuccess: 1,
	SigIgnored: 0,
	SigFailure: 1,
	SigRecord:  1,

	SigPath:                 3,
	SigDate:                 1,
	SigTime:                 2,
	SigLocalTime:            1,
	SigLocalDateTime:        2,
	SigDateTimeLegacyOffset: 3,
	SigDateTimeLegacyZoneID: 3,
	SigDateTimeUTCOffset:    3,
	SigDateTimeUTCZoneID:    3,
	SigDuration:             4,
	SigPoint2D:              3,
	SigPoint3D:              4,
}

// fieldCount reports the expected field count for signature, and whether
// the signature is known at all.
func fieldCount(signature byte) (int, bool) {
	n, ok := fieldCounts[signature]
	return n, ok
}

// entityFieldCounts gives the (without element-id, with element-id) field
// counts for the three graph entity structures.
var entityFieldCounts = map[byte][2]int{
	SigNode:                {3, 4},
	SigRelationship:        {5, 8},
	SigUnboundRelationship: {3, 4},
}
