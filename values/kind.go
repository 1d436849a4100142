package values

// Kind identifies the logical type of a Value. It is the tag of the sum
// type; Value itself is an interface purely so each variant can carry its
// own fields without a giant discriminated struct, not because variants
// form a class hierarchy.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindBytes
	KindString
	KindList
	KindMap
	KindNode
	KindRelationship
	KindPath
	KindPoint2D
	KindPoint3D
	KindDate
	KindTime
	KindLocalTime
	KindLocalDateTime
	KindDateTime
	KindDuration
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBytes:
		return "Bytes"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindNode:
		return "Node"
	case KindRelationship:
		return "Relationship"
	case KindPath:
		return "Path"
	case KindPoint2D:
		return "Point2D"
	case KindPoint3D:
		return "Point3D"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindLocalTime:
		return "LocalTime"
	case KindLocalDateTime:
		return "LocalDateTime"
	case KindDateTime:
		return "DateTime"
	case KindDuration:
		return "Duration"
	case KindUnsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// Value is any member of the PackStream value sum type. Concrete variants
// below each implement it with a value receiver (or pointer, for Map/Node/
// Relationship/Path which carry slices or need mutation during path
// assembly).
type Value interface {
	Kind() Kind
}
