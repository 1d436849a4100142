package bolt

import (
	"github.com/neo4j-contrib/bolt-cypher-driver/packstream"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// packValue serialises v into w using the structure signatures matching
// utcPatch's date-time baseline. Node and Relationship are accepted on
// write for symmetry with unpack.go, though the server never expects a
// client to send one as a query parameter; a Path is rejected with a
// protocol error.
func packValue(w *packstream.Writer, v values.Value, utcPatch bool) error {
	switch t := v.(type) {
	case nil:
		w.WriteNull()
		return nil
	case values.Null:
		w.WriteNull()
		return nil
	case values.Boolean:
		w.WriteBool(bool(t))
		return nil
	case values.Integer:
		w.WriteInt(int64(t))
		return nil
	case values.Float:
		w.WriteFloat(float64(t))
		return nil
	case values.Bytes:
		return w.WriteBytes([]byte(t))
	case values.String:
		return w.WriteString(string(t))
	case values.List:
		return packList(w, t, utcPatch)
	case *values.Map:
		return packMap(w, t, utcPatch)
	case values.Node:
		return packNode(w, &t)
	case *values.Node:
		return packNode(w, t)
	case *values.Relationship:
		return packRelationship(w, t)
	case *values.Path:
		return protoErr("cannot pack a Path as an outbound value")
	case values.Date:
		return packDate(w, t)
	case values.Time:
		return packTime(w, t)
	case values.LocalTime:
		return packLocalTime(w, t)
	case values.LocalDateTime:
		return packLocalDateTime(w, t)
	case values.DateTime:
		return packDateTime(w, t, utcPatch)
	case values.Duration:
		return packDuration(w, t)
	case values.Point2D:
		return packPoint2D(w, t)
	case values.Point3D:
		return packPoint3D(w, t)
	case values.Unsupported:
		return protoErr("cannot pack an unsupported value (%s: %s)", t.ExpectedKind, t.Reason)
	default:
		return protoErr("unknown value type %T", v)
	}
}

func packList(w *packstream.Writer, l values.List, utcPatch bool) error {
	if err := w.WriteListHeader(len(l)); err != nil {
		return err
	}
	for _, elem := range l {
		if err := packValue(w, elem, utcPatch); err != nil {
			return err
		}
	}
	return nil
}

func packMap(w *packstream.Writer, m *values.Map, utcPatch bool) error {
	if err := w.WriteMapHeader(m.Len()); err != nil {
		return err
	}
	var packErr error
	m.Range(func(key string, v values.Value) bool {
		if err := w.WriteString(key); err != nil {
			packErr = err
			return false
		}
		if err := packValue(w, v, utcPatch); err != nil {
			packErr = err
			return false
		}
		return true
	})
	return packErr
}

func packProperties(w *packstream.Writer, m *values.Map, utcPatch bool) error {
	if m == nil {
		return w.WriteMapHeader(0)
	}
	return packMap(w, m, utcPatch)
}

func packNode(w *packstream.Writer, n *values.Node) error {
	if err := w.WriteStructHeader(4, SigNode); err != nil {
		return err
	}
	w.WriteInt(n.ID)
	if err := packStringList(w, n.Labels); err != nil {
		return err
	}
	if err := packProperties(w, n.Properties, false); err != nil {
		return err
	}
	return w.WriteString(n.ElementID)
}

func packRelationship(w *packstream.Writer, r *values.Relationship) error {
	if err := w.WriteStructHeader(8, SigRelationship); err != nil {
		return err
	}
	w.WriteInt(r.ID)
	w.WriteInt(r.StartID)
	w.WriteInt(r.EndID)
	if err := w.WriteString(r.Type); err != nil {
		return err
	}
	if err := packProperties(w, r.Properties, false); err != nil {
		return err
	}
	if err := w.WriteString(r.ElementID); err != nil {
		return err
	}
	if err := w.WriteString(r.StartElementID); err != nil {
		return err
	}
	return w.WriteString(r.EndElementID)
}

func packStringList(w *packstream.Writer, ss []string) error {
	if err := w.WriteListHeader(len(ss)); err != nil {
		return err
	}
	for _, s := range ss {
		if err := w.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func packDate(w *packstream.Writer, d values.Date) error {
	if err := w.WriteStructHeader(1, SigDate); err != nil {
		return err
	}
	w.WriteInt(d.EpochDay)
	return nil
}

func packTime(w *packstream.Writer, t values.Time) error {
	if err := w.WriteStructHeader(2, SigTime); err != nil {
		return err
	}
	w.WriteInt(t.NanosOfDay)
	w.WriteInt(int64(t.OffsetSeconds))
	return nil
}

func packLocalTime(w *packstream.Writer, t values.LocalTime) error {
	if err := w.WriteStructHeader(1, SigLocalTime); err != nil {
		return err
	}
	w.WriteInt(t.NanosOfDay)
	return nil
}

func packLocalDateTime(w *packstream.Writer, t values.LocalDateTime) error {
	if err := w.WriteStructHeader(2, SigLocalDateTime); err != nil {
		return err
	}
	w.WriteInt(t.EpochSecond)
	w.WriteInt(int64(t.Nano))
	return nil
}

func packDateTime(w *packstream.Writer, t values.DateTime, utcPatch bool) error {
	if t.HasOffset {
		var sig byte = SigDateTimeLegacyOffset
		if utcPatch {
			sig = SigDateTimeUTCOffset
		}
		if err := w.WriteStructHeader(3, sig); err != nil {
			return err
		}
		w.WriteInt(t.EpochSecond)
		w.WriteInt(int64(t.Nano))
		w.WriteInt(int64(t.OffsetSeconds))
		return nil
	}
	var sig byte = SigDateTimeLegacyZoneID
	if utcPatch {
		sig = SigDateTimeUTCZoneID
	}
	if err := w.WriteStructHeader(3, sig); err != nil {
		return err
	}
	w.WriteInt(t.EpochSecond)
	w.WriteInt(int64(t.Nano))
	return w.WriteString(t.ZoneID)
}

func packDuration(w *packstream.Writer, d values.Duration) error {
	if err := w.WriteStructHeader(4, SigDuration); err != nil {
		return err
	}
	w.WriteInt(d.Months)
	w.WriteInt(d.Days)
	w.WriteInt(d.Seconds)
	w.WriteInt(int64(d.Nanos))
	return nil
}

func packPoint2D(w *packstream.Writer, p values.Point2D) error {
	if err := w.WriteStructHeader(3, SigPoint2D); err != nil {
		return err
	}
	w.WriteInt(int64(p.SRID))
	w.WriteFloat(p.X)
	w.WriteFloat(p.Y)
	return nil
}

func packPoint3D(w *packstream.Writer, p values.Point3D) error {
	if err := w.WriteStructHeader(4, SigPoint3D); err != nil {
		return err
	}
	w.WriteInt(int64(p.SRID))
	w.WriteFloat(p.X)
	w.WriteFloat(p.Y)
	w.WriteFloat(p.Z)
	return nil
}
