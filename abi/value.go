package abi

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// ValueKind indicates the variant of an ABI value.
type ValueKind uint32

const (
	// UintValue holds an arbitrary precision unsigned integer.
	UintValue ValueKind = iota
	// UFixedValue holds the integer mantissa of a fixed-point decimal.
	UFixedValue
	// AddressValue holds 32 bytes.
	AddressValue
	// ByteValue holds a single byte.
	ByteValue
	// BoolValue holds a boolean.
	BoolValue
	// StringValue holds a string.
	StringValue
	// ArrayValue holds an ordered list of values, used for arrays and tuples.
	ArrayValue
	// StructValue holds values keyed by field name.
	StructValue
)

func (k ValueKind) String() string {
	switch k {
	case UintValue:
		return "uint"
	case UFixedValue:
		return "ufixed"
	case AddressValue:
		return "address"
	case ByteValue:
		return "byte"
	case BoolValue:
		return "bool"
	case StringValue:
		return "string"
	case ArrayValue:
		return "array"
	case StructValue:
		return "struct"
	default:
		return "unknown"
	}
}

// Value is an immutable ABI value. Constructors copy their inputs and
// accessors return copies.
type Value struct {
	kind    ValueKind
	integer *big.Int
	address [addressByteLen]byte
	b       byte
	boolean bool
	str     string
	array   []Value
	fields  map[string]Value
}

// MakeUint makes a uint value. A nil integer is treated as zero.
func MakeUint(value *big.Int) Value {
	return Value{kind: UintValue, integer: copyInt(value)}
}

// MakeUint64 makes a uint value from a Go integer.
func MakeUint64(value uint64) Value {
	return Value{kind: UintValue, integer: new(big.Int).SetUint64(value)}
}

// MakeUFixed makes a ufixed value from its integer mantissa, i.e. the decimal
// value multiplied by 10^precision.
func MakeUFixed(mantissa *big.Int) Value {
	return Value{kind: UFixedValue, integer: copyInt(mantissa)}
}

// MakeAddress makes an address value.
func MakeAddress(value [32]byte) Value {
	return Value{kind: AddressValue, address: value}
}

// MakeByte makes a byte value.
func MakeByte(value byte) Value {
	return Value{kind: ByteValue, b: value}
}

// MakeBool makes a bool value.
func MakeBool(value bool) Value {
	return Value{kind: BoolValue, boolean: value}
}

// MakeString makes a string value.
func MakeString(value string) Value {
	return Value{kind: StringValue, str: value}
}

// MakeArray makes an array value, used for static arrays, dynamic arrays and tuples.
func MakeArray(values ...Value) Value {
	array := make([]Value, len(values))
	copy(array, values)
	return Value{kind: ArrayValue, array: array}
}

// MakeStruct makes a struct value.
func MakeStruct(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Value{kind: StructValue, fields: copied}
}

func copyInt(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(value)
}

// Kind returns the variant of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) mismatch(expected ValueKind) error {
	return makeEncodingError("expected a %s value, got %s", expected, v.kind)
}

// GetUint returns the integer of a uint value.
func (v Value) GetUint() (*big.Int, error) {
	if v.kind != UintValue {
		return nil, v.mismatch(UintValue)
	}
	return copyInt(v.integer), nil
}

// GetUFixed returns the integer mantissa of a ufixed value.
func (v Value) GetUFixed() (*big.Int, error) {
	if v.kind != UFixedValue {
		return nil, v.mismatch(UFixedValue)
	}
	return copyInt(v.integer), nil
}

// GetAddress returns the bytes of an address value.
func (v Value) GetAddress() ([32]byte, error) {
	if v.kind != AddressValue {
		return [32]byte{}, v.mismatch(AddressValue)
	}
	return v.address, nil
}

// GetByte returns the byte of a byte value.
func (v Value) GetByte() (byte, error) {
	if v.kind != ByteValue {
		return 0, v.mismatch(ByteValue)
	}
	return v.b, nil
}

// GetBool returns the boolean of a bool value.
func (v Value) GetBool() (bool, error) {
	if v.kind != BoolValue {
		return false, v.mismatch(BoolValue)
	}
	return v.boolean, nil
}

// GetString returns the string of a string value.
func (v Value) GetString() (string, error) {
	if v.kind != StringValue {
		return "", v.mismatch(StringValue)
	}
	return v.str, nil
}

// GetArray returns the elements of an array value.
func (v Value) GetArray() ([]Value, error) {
	if v.kind != ArrayValue {
		return nil, v.mismatch(ArrayValue)
	}
	array := make([]Value, len(v.array))
	copy(array, v.array)
	return array, nil
}

// GetStruct returns the fields of a struct value.
func (v Value) GetStruct() (map[string]Value, error) {
	if v.kind != StructValue {
		return nil, v.mismatch(StructValue)
	}
	fields := make(map[string]Value, len(v.fields))
	for k, f := range v.fields {
		fields[k] = f
	}
	return fields, nil
}

// Equal decides the deep equality of two values.
func (v Value) Equal(v0 Value) bool {
	if v.kind != v0.kind {
		return false
	}
	switch v.kind {
	case UintValue, UFixedValue:
		return copyInt(v.integer).Cmp(copyInt(v0.integer)) == 0
	case AddressValue:
		return v.address == v0.address
	case ByteValue:
		return v.b == v0.b
	case BoolValue:
		return v.boolean == v0.boolean
	case StringValue:
		return v.str == v0.str
	case ArrayValue:
		if len(v.array) != len(v0.array) {
			return false
		}
		for i := range v.array {
			if !v.array[i].Equal(v0.array[i]) {
				return false
			}
		}
		return true
	case StructValue:
		if len(v.fields) != len(v0.fields) {
			return false
		}
		for k, f := range v.fields {
			f0, ok := v0.fields[k]
			if !ok || !f.Equal(f0) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the value for diagnostics. It is not an encoding.
func (v Value) String() string {
	switch v.kind {
	case UintValue, UFixedValue:
		return copyInt(v.integer).String()
	case AddressValue:
		return fmt.Sprintf("%x", v.address[:])
	case ByteValue:
		return fmt.Sprintf("%d", v.b)
	case BoolValue:
		return fmt.Sprintf("%t", v.boolean)
	case StringValue:
		return fmt.Sprintf("%q", v.str)
	case ArrayValue:
		elems := make([]string, len(v.array))
		for i := range v.array {
			elems[i] = v.array[i].String()
		}
		return "[" + strings.Join(elems, ",") + "]"
	case StructValue:
		keys := make([]string, 0, len(v.fields))
		for k := range v.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		elems := make([]string, len(keys))
		for i, k := range keys {
			elems[i] = k + ":" + v.fields[k].String()
		}
		return "{" + strings.Join(elems, ",") + "}"
	default:
		return "<invalid abi value>"
	}
}
