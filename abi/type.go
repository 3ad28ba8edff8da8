package abi

import (
	"strconv"
	"strings"
)

/*
   ABI-Types: uint<N>: An N-bit unsigned integer (8 <= N <= 512 and N % 8 = 0).
            | byte (a single 8-bit value)
            | ufixed<N>x<M> (8 <= N <= 512, N % 8 = 0, and 0 <= M <= 160)
            | bool
            | address (32 bytes)
            | <type>[<N>]
            | <type>[]
            | string
            | (T1,...,Tn)
            | struct (named fields, encoded as the tuple of the field types)
*/

// BaseType indicates the variant of an ABI type.
type BaseType uint32

const (
	// Uint is an N-bit unsigned integer.
	Uint BaseType = iota
	// Byte is a single byte.
	Byte
	// UFixed is an N-bit unsigned fixed-point decimal with precision M.
	UFixed
	// Bool is a boolean, bit-packed when adjacent to other booleans in a tuple.
	Bool
	// ArrayStatic is a fixed length array (<type>[N]).
	ArrayStatic
	// Address is a 32 byte public key.
	Address
	// ArrayDynamic is a variable length array (<type>[]).
	ArrayDynamic
	// String is a length prefixed UTF-8 string.
	String
	// Tuple is an ordered list of heterogeneous types.
	Tuple
	// Struct is a tuple whose elements have names.
	Struct
)

const (
	addressByteLen       = 32
	lengthEncodeByteSize = 2
	maxUintBitSize       = 512
	maxUFixedPrecision   = 160
	maxChildTypes        = 1<<16 - 1
)

// StructField is a named element of a struct type.
type StructField struct {
	Name string
	Type Type
}

// Type is an immutable ABI type. The zero value is not a valid type; use TypeOf
// or one of the Make*Type constructors.
type Type struct {
	kind       BaseType
	childTypes []Type

	// uint/ufixed bit size
	bitSize uint16
	// ufixed precision
	precision uint16

	// static array length
	staticLength uint16

	// struct name and field names, parallel to childTypes
	structName string
	fieldNames []string
}

// MakeUintType makes a `uint<bitSize>` type.
// The bit size must be in [8, 512] and divisible by 8.
func MakeUintType(bitSize uint16) (Type, error) {
	if err := validateBitSize(bitSize); err != nil {
		return Type{}, err
	}
	return Type{kind: Uint, bitSize: bitSize}, nil
}

// MakeUFixedType makes a `ufixed<bitSize>x<precision>` type.
// The bit size follows the uint rule, the precision must be in [0, 160].
func MakeUFixedType(bitSize uint16, precision uint16) (Type, error) {
	if err := validateBitSize(bitSize); err != nil {
		return Type{}, err
	}
	if precision > maxUFixedPrecision {
		return Type{}, makeValidationError("unsupported ufixed precision: %d", precision)
	}
	return Type{kind: UFixed, bitSize: bitSize, precision: precision}, nil
}

func validateBitSize(bitSize uint16) error {
	if bitSize%8 != 0 || bitSize < 8 || bitSize > maxUintBitSize {
		return makeValidationError("unsupported bit size: %d", bitSize)
	}
	return nil
}

// MakeAddressType makes the `address` type.
func MakeAddressType() Type {
	return Type{kind: Address}
}

// MakeByteType makes the `byte` type.
func MakeByteType() Type {
	return Type{kind: Byte}
}

// MakeBoolType makes the `bool` type.
func MakeBoolType() Type {
	return Type{kind: Bool}
}

// MakeStringType makes the `string` type.
func MakeStringType() Type {
	return Type{kind: String}
}

// MakeStaticArrayType makes the `<elem>[<length>]` type.
func MakeStaticArrayType(elem Type, length uint16) Type {
	return Type{
		kind:         ArrayStatic,
		childTypes:   []Type{elem},
		staticLength: length,
	}
}

// MakeDynamicArrayType makes the `<elem>[]` type.
func MakeDynamicArrayType(elem Type) Type {
	return Type{
		kind:       ArrayDynamic,
		childTypes: []Type{elem},
	}
}

// MakeTupleType makes the `(<child 0>,...,<child n>)` type.
func MakeTupleType(children []Type) (Type, error) {
	if len(children) > maxChildTypes {
		return Type{}, makeValidationError("tuple has too many child types: %d", len(children))
	}
	childTypes := make([]Type, len(children))
	copy(childTypes, children)
	return Type{kind: Tuple, childTypes: childTypes}, nil
}

// MakeStructType makes a struct type. Field names must be unique and non-empty.
// An empty struct name is allowed and denotes an anonymous nested struct.
func MakeStructType(name string, fields []StructField) (Type, error) {
	if len(fields) > maxChildTypes {
		return Type{}, makeValidationError("struct '%s' has too many fields: %d", name, len(fields))
	}
	childTypes := make([]Type, len(fields))
	fieldNames := make([]string, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, field := range fields {
		if field.Name == "" {
			return Type{}, makeValidationError("struct '%s' field %d has an empty name", name, i)
		}
		if seen[field.Name] {
			return Type{}, makeValidationError("struct '%s' has duplicate field '%s'", name, field.Name)
		}
		seen[field.Name] = true
		childTypes[i] = field.Type
		fieldNames[i] = field.Name
	}
	return Type{
		kind:       Struct,
		childTypes: childTypes,
		structName: name,
		fieldNames: fieldNames,
	}, nil
}

// Kind returns the variant of the type.
func (t Type) Kind() BaseType {
	return t.kind
}

// BitSize returns N for `uint<N>` and `ufixed<N>x<M>`, and 0 otherwise.
func (t Type) BitSize() uint16 {
	return t.bitSize
}

// Precision returns M for `ufixed<N>x<M>`, and 0 otherwise.
func (t Type) Precision() uint16 {
	return t.precision
}

// Length returns N for `<type>[N]`, and 0 otherwise.
func (t Type) Length() uint16 {
	return t.staticLength
}

// Elem returns the element type of an array. ok is false for any other type.
func (t Type) Elem() (elem Type, ok bool) {
	if t.kind != ArrayStatic && t.kind != ArrayDynamic {
		return Type{}, false
	}
	return t.childTypes[0], true
}

// Children returns the child types of a tuple or struct.
func (t Type) Children() []Type {
	if t.kind != Tuple && t.kind != Struct {
		return nil
	}
	children := make([]Type, len(t.childTypes))
	copy(children, t.childTypes)
	return children
}

// Name returns the name of a struct type.
func (t Type) Name() string {
	return t.structName
}

// Fields returns the fields of a struct type in declared order.
func (t Type) Fields() []StructField {
	if t.kind != Struct {
		return nil
	}
	fields := make([]StructField, len(t.childTypes))
	for i := range t.childTypes {
		fields[i] = StructField{Name: t.fieldNames[i], Type: t.childTypes[i]}
	}
	return fields
}

// String serializes the type to its ARC-4 type string. Structs are printed as
// the equivalent tuple, which is the form used in method signatures.
func (t Type) String() string {
	switch t.kind {
	case Uint:
		return "uint" + strconv.Itoa(int(t.bitSize))
	case Byte:
		return "byte"
	case UFixed:
		return "ufixed" + strconv.Itoa(int(t.bitSize)) + "x" + strconv.Itoa(int(t.precision))
	case Bool:
		return "bool"
	case ArrayStatic:
		return t.childTypes[0].String() + "[" + strconv.Itoa(int(t.staticLength)) + "]"
	case Address:
		return "address"
	case ArrayDynamic:
		return t.childTypes[0].String() + "[]"
	case String:
		return "string"
	case Tuple, Struct:
		typeStrings := make([]string, len(t.childTypes))
		for i := range t.childTypes {
			typeStrings[i] = t.childTypes[i].String()
		}
		return "(" + strings.Join(typeStrings, ",") + ")"
	default:
		return "<invalid abi type>"
	}
}

// Equal decides the structural equality of two types.
func (t Type) Equal(t0 Type) bool {
	if t.kind != t0.kind {
		return false
	}
	if t.bitSize != t0.bitSize || t.precision != t0.precision || t.staticLength != t0.staticLength {
		return false
	}
	if t.structName != t0.structName || len(t.fieldNames) != len(t0.fieldNames) {
		return false
	}
	for i := range t.fieldNames {
		if t.fieldNames[i] != t0.fieldNames[i] {
			return false
		}
	}
	if len(t.childTypes) != len(t0.childTypes) {
		return false
	}
	for i := range t.childTypes {
		if !t.childTypes[i].Equal(t0.childTypes[i]) {
			return false
		}
	}
	return true
}
