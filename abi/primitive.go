package abi

import (
	"encoding/binary"
	"math"
	"math/big"
	"unicode/utf8"
)

const (
	boolTrueByte  byte = 0x80
	boolFalseByte byte = 0x00
)

// encodeUintBytes writes a non-negative integer big-endian, left padded to bitSize/8 bytes.
// A nil value is zero, matching Value.Equal and GetUint.
func encodeUintBytes(t Type, value *big.Int) ([]byte, error) {
	if t.bitSize == 0 {
		return nil, makeEncodingError("type %s is uninitialized", t)
	}
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return nil, makeEncodingError("cannot encode negative value %s as %s", value, t)
	}
	if value.BitLen() > int(t.bitSize) {
		return nil, makeEncodingError("%s is too big to fit in %s", value, t)
	}
	buffer := make([]byte, t.bitSize/8)
	return value.FillBytes(buffer), nil
}

func decodeUintBytes(t Type, encoded []byte) (*big.Int, error) {
	if t.bitSize == 0 {
		return nil, makeDecodingError("type %s is uninitialized", t)
	}
	expected := int(t.bitSize / 8)
	if len(encoded) != expected {
		return nil, makeDecodingError("%s requires %d bytes, got %d", t, expected, len(encoded))
	}
	return new(big.Int).SetBytes(encoded), nil
}

func encodeUint(t Type, v Value) ([]byte, error) {
	if v.kind != UintValue {
		return nil, makeEncodingError("cannot encode %s value as %s", v.kind, t)
	}
	return encodeUintBytes(t, v.integer)
}

func decodeUint(t Type, encoded []byte) (Value, error) {
	integer, err := decodeUintBytes(t, encoded)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: UintValue, integer: integer}, nil
}

func encodeUFixed(t Type, v Value) ([]byte, error) {
	if v.kind != UFixedValue {
		return nil, makeEncodingError("cannot encode %s value as %s", v.kind, t)
	}
	return encodeUintBytes(t, v.integer)
}

func decodeUFixed(t Type, encoded []byte) (Value, error) {
	mantissa, err := decodeUintBytes(t, encoded)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: UFixedValue, integer: mantissa}, nil
}

func encodeAddress(t Type, v Value) ([]byte, error) {
	if v.kind != AddressValue {
		return nil, makeEncodingError("cannot encode %s value as %s", v.kind, t)
	}
	encoded := make([]byte, addressByteLen)
	copy(encoded, v.address[:])
	return encoded, nil
}

func decodeAddress(encoded []byte) (Value, error) {
	if len(encoded) != addressByteLen {
		return Value{}, makeDecodingError("address requires %d bytes, got %d", addressByteLen, len(encoded))
	}
	var address [addressByteLen]byte
	copy(address[:], encoded)
	return MakeAddress(address), nil
}

func encodeByte(t Type, v Value) ([]byte, error) {
	if v.kind != ByteValue {
		return nil, makeEncodingError("cannot encode %s value as %s", v.kind, t)
	}
	return []byte{v.b}, nil
}

func decodeByte(encoded []byte) (Value, error) {
	if len(encoded) != 1 {
		return Value{}, makeDecodingError("byte requires 1 byte, got %d", len(encoded))
	}
	return MakeByte(encoded[0]), nil
}

func encodeBool(t Type, v Value) ([]byte, error) {
	if v.kind != BoolValue {
		return nil, makeEncodingError("cannot encode %s value as %s", v.kind, t)
	}
	if v.boolean {
		return []byte{boolTrueByte}, nil
	}
	return []byte{boolFalseByte}, nil
}

func decodeBool(encoded []byte) (Value, error) {
	if len(encoded) != 1 {
		return Value{}, makeDecodingError("bool requires 1 byte, got %d", len(encoded))
	}
	switch encoded[0] {
	case boolTrueByte:
		return MakeBool(true), nil
	case boolFalseByte:
		return MakeBool(false), nil
	default:
		return Value{}, makeDecodingError("bool byte must be 0x80 or 0x00, got 0x%02x", encoded[0])
	}
}

func encodeString(t Type, v Value) ([]byte, error) {
	if v.kind != StringValue {
		return nil, makeEncodingError("cannot encode %s value as %s", v.kind, t)
	}
	if len(v.str) > math.MaxUint16 {
		return nil, makeEncodingError("string of %d bytes exceeds the maximum length %d", len(v.str), math.MaxUint16)
	}
	encoded := make([]byte, lengthEncodeByteSize, lengthEncodeByteSize+len(v.str))
	binary.BigEndian.PutUint16(encoded, uint16(len(v.str)))
	return append(encoded, v.str...), nil
}

func decodeString(encoded []byte) (Value, error) {
	if len(encoded) < lengthEncodeByteSize {
		return Value{}, makeDecodingError("string requires a %d byte length prefix, got %d bytes", lengthEncodeByteSize, len(encoded))
	}
	length := int(binary.BigEndian.Uint16(encoded))
	content := encoded[lengthEncodeByteSize:]
	if len(content) != length {
		return Value{}, makeDecodingError("string length prefix is %d, but %d bytes follow", length, len(content))
	}
	if !utf8.Valid(content) {
		return Value{}, makeDecodingError("string is not valid UTF-8")
	}
	return MakeString(string(content)), nil
}
