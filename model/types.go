package model

import (
	"fmt"
	"strings"
)

// ValueType is the semantic type of a property value. The store type of
// a column is derived from it by a dialect type resolver unless the
// column type is configured explicitly.
type ValueType uint8

// List of value types.
const (
	TypeInvalid ValueType = iota
	TypeBool
	TypeTime
	TypeJSON
	TypeUUID
	TypeBytes
	TypeEnum
	TypeString
	TypeText
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeDecimal
	// TypeOther is a value type without a native store mapping. Columns of
	// this type need an explicit column type.
	TypeOther
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeTime:    "time",
	TypeJSON:    "json",
	TypeUUID:    "uuid",
	TypeBytes:   "bytes",
	TypeEnum:    "enum",
	TypeString:  "string",
	TypeText:    "text",
	TypeInt8:    "int8",
	TypeInt16:   "int16",
	TypeInt32:   "int32",
	TypeInt:     "int",
	TypeInt64:   "int64",
	TypeUint8:   "uint8",
	TypeUint16:  "uint16",
	TypeUint32:  "uint32",
	TypeUint:    "uint",
	TypeUint64:  "uint64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeDecimal: "decimal",
	TypeOther:   "other",
}

// String returns the name of the type.
func (t ValueType) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the type is a known, non-invalid type.
func (t ValueType) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the type is a numeric type.
func (t ValueType) Numeric() bool {
	return t >= TypeInt8 && t <= TypeDecimal
}

// Integer reports if the type is an integer type.
func (t ValueType) Integer() bool {
	return t >= TypeInt8 && t <= TypeUint64
}

// ParseValueType returns the value type with the given name.
func ParseValueType(s string) (ValueType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := TypeBool; t < endTypes; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("unknown value type %q", s)
}

// ValueGenerated describes when the database generates a value for a
// property.
type ValueGenerated uint8

// Value generation modes. OnAddOrUpdate is the union of OnAdd and
// OnUpdate.
const (
	Never         ValueGenerated = 0
	OnAdd         ValueGenerated = 1 << 0
	OnUpdate      ValueGenerated = 1 << 1
	OnAddOrUpdate                = OnAdd | OnUpdate
)

// String returns the name of the generation mode.
func (g ValueGenerated) String() string {
	switch g {
	case Never:
		return "never"
	case OnAdd:
		return "on_add"
	case OnUpdate:
		return "on_update"
	case OnAddOrUpdate:
		return "on_add_or_update"
	default:
		return fmt.Sprintf("ValueGenerated(%d)", uint8(g))
	}
}

// OnUpdate reports if the value is regenerated by the store on update.
func (g ValueGenerated) OnUpdate() bool {
	return g&OnUpdate != 0
}

// ParseValueGenerated returns the generation mode with the given name.
func ParseValueGenerated(s string) (ValueGenerated, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "never":
		return Never, nil
	case "on_add", "onadd":
		return OnAdd, nil
	case "on_update", "onupdate":
		return OnUpdate, nil
	case "on_add_or_update", "onaddorupdate":
		return OnAddOrUpdate, nil
	}
	return Never, fmt.Errorf("unknown value generation mode %q", s)
}
