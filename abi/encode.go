package abi

import (
	"encoding/binary"
	"math"
)

// Encode serializes a value into its ARC-4 byte string.
func (t Type) Encode(v Value) ([]byte, error) {
	switch t.kind {
	case Uint:
		return encodeUint(t, v)
	case UFixed:
		return encodeUFixed(t, v)
	case Address:
		return encodeAddress(t, v)
	case Byte:
		return encodeByte(t, v)
	case Bool:
		return encodeBool(t, v)
	case String:
		return encodeString(t, v)
	case ArrayStatic:
		return encodeStaticArray(t, v)
	case ArrayDynamic:
		return encodeDynamicArray(t, v)
	case Tuple:
		return encodeTuple(t, v)
	case Struct:
		return encodeStruct(t, v)
	default:
		return nil, makeEncodingError("unknown abi type %d", t.kind)
	}
}

// Decode deserializes an ARC-4 byte string into a value of the type.
func (t Type) Decode(encoded []byte) (Value, error) {
	switch t.kind {
	case Uint:
		return decodeUint(t, encoded)
	case UFixed:
		return decodeUFixed(t, encoded)
	case Address:
		return decodeAddress(encoded)
	case Byte:
		return decodeByte(encoded)
	case Bool:
		return decodeBool(encoded)
	case String:
		return decodeString(encoded)
	case ArrayStatic:
		return decodeStaticArray(t, encoded)
	case ArrayDynamic:
		return decodeDynamicArray(t, encoded)
	case Tuple:
		return decodeTuple(t, encoded)
	case Struct:
		return decodeStruct(t, encoded)
	default:
		return Value{}, makeDecodingError("unknown abi type %d", t.kind)
	}
}

func encodeTuple(t Type, v Value) ([]byte, error) {
	if v.kind != ArrayValue {
		return nil, makeEncodingError("cannot encode %s value as tuple %s", v.kind, t)
	}
	if len(v.array) != len(t.childTypes) {
		return nil, makeEncodingError("tuple %s expects %d values, got %d", t, len(t.childTypes), len(v.array))
	}
	return encodeTypes(t.childTypes, v.array)
}

func decodeTuple(t Type, encoded []byte) (Value, error) {
	values, err := decodeTypes(t.childTypes, encoded)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: ArrayValue, array: values}, nil
}

// repeatType builds the child types of the tuple equivalent to an array.
func repeatType(elem Type, n int) []Type {
	types := make([]Type, n)
	for i := range types {
		types[i] = elem
	}
	return types
}

func encodeStaticArray(t Type, v Value) ([]byte, error) {
	if v.kind != ArrayValue {
		return nil, makeEncodingError("cannot encode %s value as static array %s", v.kind, t)
	}
	if len(v.array) != int(t.staticLength) {
		return nil, makeEncodingError("static array %s expects %d values, got %d", t, t.staticLength, len(v.array))
	}
	return encodeTypes(repeatType(t.childTypes[0], len(v.array)), v.array)
}

func decodeStaticArray(t Type, encoded []byte) (Value, error) {
	values, err := decodeTypes(repeatType(t.childTypes[0], int(t.staticLength)), encoded)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: ArrayValue, array: values}, nil
}

func encodeDynamicArray(t Type, v Value) ([]byte, error) {
	if v.kind != ArrayValue {
		return nil, makeEncodingError("cannot encode %s value as dynamic array %s", v.kind, t)
	}
	if len(v.array) > math.MaxUint16 {
		return nil, makeEncodingError("dynamic array of %d values exceeds the maximum length %d", len(v.array), math.MaxUint16)
	}
	encodedValues, err := encodeTypes(repeatType(t.childTypes[0], len(v.array)), v.array)
	if err != nil {
		return nil, err
	}
	encoded := make([]byte, lengthEncodeByteSize, lengthEncodeByteSize+len(encodedValues))
	binary.BigEndian.PutUint16(encoded, uint16(len(v.array)))
	return append(encoded, encodedValues...), nil
}

func decodeDynamicArray(t Type, encoded []byte) (Value, error) {
	if len(encoded) < lengthEncodeByteSize {
		return Value{}, makeDecodingError("dynamic array requires a %d byte length prefix, got %d bytes", lengthEncodeByteSize, len(encoded))
	}
	count := int(binary.BigEndian.Uint16(encoded))
	values, err := decodeTypes(repeatType(t.childTypes[0], count), encoded[lengthEncodeByteSize:])
	if err != nil {
		return Value{}, err
	}
	return Value{kind: ArrayValue, array: values}, nil
}
