package values

import (
	"errors"
	"fmt"

	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"
)

// AsBool projects v to a bool. A Null value yields false. A numeric 0/1
// maps to false/true; any other Integer fails. A String "0"/"1" maps the
// same way; any other String fails.
func AsBool(v Value) (bool, error) {
	switch t := v.(type) {
	case Null:
		return false, nil
	case Boolean:
		return bool(t), nil
	case Integer:
		switch t {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return false, coercionErr("Boolean", v)
		}
	case String:
		switch string(t) {
		case "0":
			return false, nil
		case "1":
			return true, nil
		default:
			return false, coercionErr("Boolean", v)
		}
	default:
		return false, coercionErr("Boolean", v)
	}
}

// AsInt8 projects v to a byte-width integer. A Null value yields 0; an
// Integer outside [-128, 127] fails.
func AsInt8(v Value) (int8, error) {
	n, null, err := asInt64(v)
	if err != nil {
		return 0, coercionErr("byte", v)
	}
	if null {
		return 0, nil
	}
	if n < -128 || n > 127 {
		return 0, coercionErr("byte", v)
	}
	return int8(n), nil
}

// AsInt16 projects v to a short-width integer. A Null value yields 0; an
// Integer outside the int16 range fails.
func AsInt16(v Value) (int16, error) {
	n, null, err := asInt64(v)
	if err != nil {
		return 0, coercionErr("short", v)
	}
	if null {
		return 0, nil
	}
	if n < -32768 || n > 32767 {
		return 0, coercionErr("short", v)
	}
	return int16(n), nil
}

// AsInt32 projects v to a 32-bit integer. A Null value yields 0; an
// Integer outside the int32 range fails.
func AsInt32(v Value) (int32, error) {
	n, null, err := asInt64(v)
	if err != nil {
		return 0, coercionErr("int", v)
	}
	if null {
		return 0, nil
	}
	if n < -2147483648 || n > 2147483647 {
		return 0, coercionErr("int", v)
	}
	return int32(n), nil
}

// AsInt64 projects v to a 64-bit integer. A Null value yields 0.
func AsInt64(v Value) (int64, error) {
	n, null, err := asInt64(v)
	if err != nil {
		return 0, coercionErr("long", v)
	}
	if null {
		return 0, nil
	}
	return n, nil
}

func asInt64(v Value) (n int64, isNull bool, err error) {
	switch t := v.(type) {
	case Null:
		return 0, true, nil
	case Integer:
		return int64(t), false, nil
	default:
		return 0, false, fmt.Errorf("not an integer")
	}
}

// UnsupportedReason reports why v is Unsupported, so a caller projecting a
// temporal value can surface the original cause instead of a generic
// coercion failure.
func UnsupportedReason(v Value) (reason string, ok bool) {
	u, ok := v.(Unsupported)
	if !ok {
		return "", false
	}
	return u.Reason, true
}

func coercionErr(target string, v Value) error {
	if u, ok := v.(Unsupported); ok {
		return boltz.Wrap(boltz.KindUnsupported, errors.New(u.Reason), "cannot project unsupported %s to %s", u.ExpectedKind, target)
	}
	return boltz.New(boltz.KindCoercion, "cannot coerce %s to %s", v.Kind(), target)
}
