package bolt

import (
	"fmt"

	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"
	"github.com/neo4j-contrib/bolt-cypher-driver/packstream"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// unpacker turns PackStream bytes into the values package's typed model.
// utcPatch mirrors the connection's negotiated protocol version: once true,
// only the UTC date-time signatures ('I'/'i') are accepted and the legacy
// pair ('F'/'f') becomes unknown, and vice versa.
type unpacker struct {
	utcPatch bool
}

func newUnpacker(utcPatch bool) *unpacker {
	return &unpacker{utcPatch: utcPatch}
}

// unpackValue reads one value of any PackStream type from r.
func (u *unpacker) unpackValue(r *packstream.Reader) (values.Value, error) {
	typ, err := r.PeekType()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	switch typ {
	case packstream.TypeNull:
		if err := r.ReadNull(); err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Null{}, nil
	case packstream.TypeBoolean:
		b, err := r.ReadBool()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Boolean(b), nil
	case packstream.TypeInteger:
		n, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Integer(n), nil
	case packstream.TypeFloat:
		f, err := r.ReadFloat()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Float(f), nil
	case packstream.TypeBytes:
		b, err := r.ReadBytes()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Bytes(b), nil
	case packstream.TypeString:
		s, err := r.ReadString()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.String(s), nil
	case packstream.TypeList:
		return u.unpackList(r)
	case packstream.TypeMap:
		return u.unpackMap(r)
	case packstream.TypeStruct:
		return u.unpackStruct(r)
	default:
		return nil, protoErr("unrecognised packstream marker")
	}
}

func (u *unpacker) unpackList(r *packstream.Reader) (values.List, error) {
	n, err := r.ReadListHeader()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	list := make(values.List, n)
	for i := 0; i < n; i++ {
		v, err := u.unpackValue(r)
		if err != nil {
			return nil, err
		}
		list[i] = v
	}
	return list, nil
}

func (u *unpacker) unpackMap(r *packstream.Reader) (*values.Map, error) {
	n, err := r.ReadMapHeader()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	m := values.NewMap()
	for i := 0; i < n; i++ {
		key, err := r.ReadString()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		v, err := u.unpackValue(r)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	return m, nil
}

func (u *unpacker) unpackStruct(r *packstream.Reader) (values.Value, error) {
	n, sig, err := r.ReadStructHeader()
	if err != nil {
		return nil, liftCodecErr(err)
	}

	switch sig {
	case SigNode:
		return u.unpackNode(r, n)
	case SigRelationship:
		return u.unpackRelationship(r, n)
	case SigUnboundRelationship:
		return nil, protoErr("UnboundRelationship structure is only valid nested inside a Path")
	case SigPath:
		if err := expectFields(sig, n, 3); err != nil {
			return nil, err
		}
		return u.unpackPath(r)
	case SigDate:
		if err := expectFields(sig, n, 1); err != nil {
			return nil, err
		}
		epochDay, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Date{EpochDay: epochDay}, nil
	case SigTime:
		if err := expectFields(sig, n, 2); err != nil {
			return nil, err
		}
		nanos, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		offset, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Time{NanosOfDay: nanos, OffsetSeconds: int32(offset)}, nil
	case SigLocalTime:
		if err := expectFields(sig, n, 1); err != nil {
			return nil, err
		}
		nanos, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.LocalTime{NanosOfDay: nanos}, nil
	case SigLocalDateTime:
		if err := expectFields(sig, n, 2); err != nil {
			return nil, err
		}
		sec, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		nano, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.LocalDateTime{EpochSecond: sec, Nano: int32(nano)}, nil
	case SigDateTimeLegacyOffset, SigDateTimeLegacyZoneID, SigDateTimeUTCOffset, SigDateTimeUTCZoneID:
		return u.unpackDateTime(r, sig, n)
	case SigDuration:
		if err := expectFields(sig, n, 4); err != nil {
			return nil, err
		}
		months, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		days, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		seconds, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		nanos, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Duration{Months: months, Days: days, Seconds: seconds, Nanos: int32(nanos)}, nil
	case SigPoint2D:
		if err := expectFields(sig, n, 3); err != nil {
			return nil, err
		}
		srid, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		x, err := r.ReadFloat()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		y, err := r.ReadFloat()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Point2D{SRID: int32(srid), X: x, Y: y}, nil
	case SigPoint3D:
		if err := expectFields(sig, n, 4); err != nil {
			return nil, err
		}
		srid, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		x, err := r.ReadFloat()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		y, err := r.ReadFloat()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		z, err := r.ReadFloat()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.Point3D{SRID: int32(srid), X: x, Y: y, Z: z}, nil
	default:
		return nil, protoErr("unknown structure signature %#x", sig)
	}
}

// unpackDateTime enforces the UTC/legacy gate: a signature valid only in
// the mode the connection is not in is treated as unknown, not merely
// misread.
func (u *unpacker) unpackDateTime(r *packstream.Reader, sig byte, n int) (values.Value, error) {
	isUTCSig := sig == SigDateTimeUTCOffset || sig == SigDateTimeUTCZoneID
	if isUTCSig != u.utcPatch {
		return nil, protoErr("datetime signature %#x not valid in this protocol mode", sig)
	}
	if err := expectFields(sig, n, 3); err != nil {
		return nil, err
	}

	epochSecond, err := r.ReadInt()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	nano, err := r.ReadInt()
	if err != nil {
		return nil, liftCodecErr(err)
	}

	baseline := values.BaselineLegacy
	if u.utcPatch {
		baseline = values.BaselineUTC
	}

	switch sig {
	case SigDateTimeLegacyOffset, SigDateTimeUTCOffset:
		offset, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		return values.DateTime{
			EpochSecond: epochSecond, Nano: int32(nano), Baseline: baseline,
			HasOffset: true, OffsetSeconds: int32(offset),
		}, nil
	default: // SigDateTimeLegacyZoneID, SigDateTimeUTCZoneID
		zoneID, err := r.ReadString()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		if !isKnownZoneID(zoneID) {
			return values.Unsupported{
				ExpectedKind: "DateTime",
				Reason:       fmt.Sprintf("unrecognised time zone %q", zoneID),
			}, nil
		}
		return values.DateTime{
			EpochSecond: epochSecond, Nano: int32(nano), Baseline: baseline,
			HasOffset: false, ZoneID: zoneID,
		}, nil
	}
}

func checkEntityFieldCount(sig byte, n int) (hasElementID bool, err error) {
	counts := entityFieldCounts[sig]
	if n != counts[0] && n != counts[1] {
		return false, protoErr("structure %#x declared %d fields, want %d or %d", sig, n, counts[0], counts[1])
	}
	return n == counts[1], nil
}

func (u *unpacker) unpackNode(r *packstream.Reader, n int) (values.Value, error) {
	node, err := u.unpackNodeFields(r, n)
	if err != nil {
		return nil, err
	}
	return *node, nil
}

func (u *unpacker) unpackNodeFields(r *packstream.Reader, n int) (*values.Node, error) {
	hasElementID, err := checkEntityFieldCount(SigNode, n)
	if err != nil {
		return nil, err
	}
	id, err := r.ReadInt()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	labels, err := u.readStringList(r)
	if err != nil {
		return nil, err
	}
	props, err := u.unpackMap(r)
	if err != nil {
		return nil, err
	}
	elementID := fmt.Sprintf("%d", id)
	if hasElementID {
		elementID, err = r.ReadString()
		if err != nil {
			return nil, liftCodecErr(err)
		}
	}
	return &values.Node{ID: id, ElementID: elementID, Labels: labels, Properties: props}, nil
}

func (u *unpacker) unpackUnboundRelationship(r *packstream.Reader, n int) (*values.UnboundRelationship, error) {
	hasElementID, err := checkEntityFieldCount(SigUnboundRelationship, n)
	if err != nil {
		return nil, err
	}
	id, err := r.ReadInt()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	typ, err := r.ReadString()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	props, err := u.unpackMap(r)
	if err != nil {
		return nil, err
	}
	elementID := fmt.Sprintf("%d", id)
	if hasElementID {
		elementID, err = r.ReadString()
		if err != nil {
			return nil, liftCodecErr(err)
		}
	}
	return &values.UnboundRelationship{ID: id, ElementID: elementID, Type: typ, Properties: props}, nil
}

func (u *unpacker) unpackRelationship(r *packstream.Reader, n int) (values.Value, error) {
	hasElementID, err := checkEntityFieldCount(SigRelationship, n)
	if err != nil {
		return nil, err
	}
	id, err := r.ReadInt()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	startID, err := r.ReadInt()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	endID, err := r.ReadInt()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	typ, err := r.ReadString()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	props, err := u.unpackMap(r)
	if err != nil {
		return nil, err
	}
	elementID := fmt.Sprintf("%d", id)
	startElementID := fmt.Sprintf("%d", startID)
	endElementID := fmt.Sprintf("%d", endID)
	if hasElementID {
		if elementID, err = r.ReadString(); err != nil {
			return nil, liftCodecErr(err)
		}
		if startElementID, err = r.ReadString(); err != nil {
			return nil, liftCodecErr(err)
		}
		if endElementID, err = r.ReadString(); err != nil {
			return nil, liftCodecErr(err)
		}
	}
	return &values.Relationship{
		ID: id, ElementID: elementID,
		StartID: startID, StartElementID: startElementID,
		EndID: endID, EndElementID: endElementID,
		Type: typ, Properties: props,
	}, nil
}

func (u *unpacker) readStringList(r *packstream.Reader) ([]string, error) {
	n, err := r.ReadListHeader()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		s, err := r.ReadString()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		out[i] = s
	}
	return out, nil
}

// unpackPath reads the unique-nodes/unique-rels/sequence triple and
// reconstructs a values.Path.
func (u *unpacker) unpackPath(r *packstream.Reader) (values.Value, error) {
	nodeCount, err := r.ReadListHeader()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	nodes := make([]*values.Node, nodeCount)
	for i := 0; i < nodeCount; i++ {
		n, sig, err := r.ReadStructHeader()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		if sig != SigNode {
			return nil, protoErr("path node list expected Node structure, got signature %#x", sig)
		}
		node, err := u.unpackNodeFields(r, n)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}

	relCount, err := r.ReadListHeader()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	rels := make([]*values.UnboundRelationship, relCount)
	for i := 0; i < relCount; i++ {
		n, sig, err := r.ReadStructHeader()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		if sig != SigUnboundRelationship {
			return nil, protoErr("path relationship list expected UnboundRelationship structure, got signature %#x", sig)
		}
		rel, err := u.unpackUnboundRelationship(r, n)
		if err != nil {
			return nil, err
		}
		rels[i] = rel
	}

	seqCount, err := r.ReadListHeader()
	if err != nil {
		return nil, liftCodecErr(err)
	}
	sequence := make([]int64, seqCount)
	for i := 0; i < seqCount; i++ {
		n, err := r.ReadInt()
		if err != nil {
			return nil, liftCodecErr(err)
		}
		sequence[i] = n
	}

	path, err := values.BuildPath(nodes, rels, sequence)
	if err != nil {
		return nil, boltz.Wrap(boltz.KindProtocolViolation, err, "malformed path structure")
	}
	return path, nil
}

func expectFields(sig byte, got, want int) error {
	if got != want {
		return protoErr("structure %#x declared %d fields, want %d", sig, got, want)
	}
	return nil
}

// knownZoneIDs is the set of IANA zone identifiers this driver recognises.
// It deliberately covers only a representative set; production deployments
// would draw this from the platform's tzdata, but a fixed allow-list keeps
// the Unsupported path exercised without embedding a full tzdata copy.
var knownZoneIDs = map[string]bool{
	"UTC": true, "Etc/UTC": true, "GMT": true,
	"America/New_York": true, "America/Los_Angeles": true, "America/Chicago": true,
	"Europe/London": true, "Europe/Berlin": true, "Europe/Paris": true, "Europe/Stockholm": true,
	"Asia/Tokyo": true, "Asia/Shanghai": true, "Asia/Kolkata": true,
	"Australia/Sydney": true,
}

func isKnownZoneID(zoneID string) bool {
	return knownZoneIDs[zoneID]
}
