package abi

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigPow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

func TestEncodeUintBoundaries(t *testing.T) {
	maxUint64 := new(big.Int).Sub(bigPow2(64), big.NewInt(1))
	tests := []struct {
		name     string
		bitSize  uint16
		value    *big.Int
		expected []byte
		errMsg   string
	}{
		{"uint8 zero", 8, big.NewInt(0), []byte{0x00}, ""},
		{"uint8 max", 8, big.NewInt(255), []byte{0xff}, ""},
		{"uint8 overflow", 8, big.NewInt(256), nil, "too big to fit in uint8"},
		{"uint16 max", 16, big.NewInt(65535), []byte{0xff, 0xff}, ""},
		{"uint16 overflow", 16, big.NewInt(65536), nil, "too big to fit in uint16"},
		{"uint64 max", 64, maxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, ""},
		{"uint64 overflow", 64, bigPow2(64), nil, "too big to fit in uint64"},
		{"uint32 padding", 32, big.NewInt(42), []byte{0, 0, 0, 42}, ""},
		{"negative", 32, big.NewInt(-1), nil, "negative"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			typ := mustUint(t, tc.bitSize)
			encoded, err := typ.Encode(MakeUint(tc.value))
			if tc.errMsg != "" {
				require.Error(t, err)
				var eerr EncodingError
				assert.True(t, errors.As(err, &eerr))
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, encoded)

			decoded, err := typ.Decode(encoded)
			require.NoError(t, err)
			requireValueEqual(t, MakeUint(tc.value), decoded)
		})
	}
}

func TestEncodeUint512(t *testing.T) {
	typ := mustUint(t, 512)
	value := new(big.Int).Sub(bigPow2(512), big.NewInt(1))
	encoded, err := typ.Encode(MakeUint(value))
	require.NoError(t, err)
	require.Len(t, encoded, 64)
	for _, b := range encoded {
		assert.Equal(t, byte(0xff), b)
	}

	_, err = typ.Encode(MakeUint(bigPow2(512)))
	assert.Error(t, err)
}

func TestEncodeUFixed(t *testing.T) {
	typ := mustUFixed(t, 64, 2)
	// 123.45
	encoded, err := typ.Encode(MakeUFixed(big.NewInt(12345)))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x30, 0x39}, encoded)

	decoded, err := typ.Decode(encoded)
	require.NoError(t, err)
	requireValueEqual(t, MakeUFixed(big.NewInt(12345)), decoded)

	_, err = typ.Encode(MakeUint64(12345))
	assert.Error(t, err)
}

func TestEncodeAddressAndByte(t *testing.T) {
	var address [32]byte
	for i := range address {
		address[i] = byte(i)
	}
	encoded, err := MakeAddressType().Encode(MakeAddress(address))
	require.NoError(t, err)
	assert.Equal(t, address[:], encoded)
	decoded, err := MakeAddressType().Decode(encoded)
	require.NoError(t, err)
	requireValueEqual(t, MakeAddress(address), decoded)

	_, err = MakeAddressType().Decode(encoded[:31])
	assert.Error(t, err)

	encoded, err = MakeByteType().Encode(MakeByte(0xab))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xab}, encoded)
	_, err = MakeByteType().Decode([]byte{})
	assert.Error(t, err)
}

func TestEncodeBool(t *testing.T) {
	encoded, err := MakeBoolType().Encode(MakeBool(true))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, encoded)

	encoded, err = MakeBoolType().Encode(MakeBool(false))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, encoded)

	for _, b := range []byte{0x01, 0x40, 0xff} {
		_, err := MakeBoolType().Decode([]byte{b})
		require.Error(t, err)
		var derr DecodingError
		assert.True(t, errors.As(err, &derr))
	}
}

func TestEncodeString(t *testing.T) {
	encoded, err := MakeStringType().Encode(MakeString("hello"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 5, 'h', 'e', 'l', 'l', 'o'}, encoded)

	encoded, err = MakeStringType().Encode(MakeString(""))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, encoded)

	encoded, err = MakeStringType().Encode(MakeString("héllo"))
	require.NoError(t, err)
	assert.Equal(t, byte(6), encoded[1])

	_, err = MakeStringType().Encode(MakeString(strings.Repeat("a", 1<<16)))
	assert.Error(t, err)
}

func TestDecodeStringErrors(t *testing.T) {
	tests := []struct {
		name    string
		encoded []byte
		errMsg  string
	}{
		{"no prefix", []byte{0}, "length prefix"},
		{"short content", []byte{0, 5, 'h', 'i'}, "string length prefix is 5, but 2 bytes follow"},
		{"long content", []byte{0, 1, 'h', 'i'}, "string length prefix is 1, but 2 bytes follow"},
		{"invalid utf8", []byte{0, 2, 0xc3, 0x28}, "not valid UTF-8"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MakeStringType().Decode(tc.encoded)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestEncodeBoolPacking(t *testing.T) {
	bools := func(values ...bool) Value {
		array := make([]Value, len(values))
		for i, b := range values {
			array[i] = MakeBool(b)
		}
		return MakeArray(array...)
	}
	b := MakeBoolType()

	tests := []struct {
		name     string
		typ      Type
		value    Value
		expected []byte
	}{
		{"bool[3]", MakeStaticArrayType(b, 3), bools(true, false, true), []byte{0xa0}},
		{"tuple of 3 bools", mustTuple(t, b, b, b), bools(true, false, true), []byte{0xa0}},
		{"bool[8]", MakeStaticArrayType(b, 8), bools(true, true, true, true, true, true, true, true), []byte{0xff}},
		{"bool[9]", MakeStaticArrayType(b, 9), bools(true, true, true, true, true, true, true, true, true), []byte{0xff, 0x80}},
		{"bool[]", MakeDynamicArrayType(b), bools(false, true), []byte{0, 2, 0x40}},
		{"empty bool[]", MakeDynamicArrayType(b), bools(), []byte{0, 0}},
		{"bools split by uint8", mustTuple(t, b, mustUint(t, 8), b),
			MakeArray(MakeBool(true), MakeUint64(255), MakeBool(false)), []byte{0x80, 0xff, 0x00}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := tc.typ.Encode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, encoded)

			decoded, err := tc.typ.Decode(encoded)
			require.NoError(t, err)
			requireValueEqual(t, tc.value, decoded)
		})
	}
}

func TestEncodeTuple(t *testing.T) {
	uint16Type := mustUint(t, 16)
	inner := mustTuple(t, uint16Type, MakeStringType())
	nested := mustTuple(t, mustUint(t, 8), inner, MakeBoolType())

	tests := []struct {
		name     string
		typ      Type
		value    Value
		expected []byte
	}{
		{
			name:     "uint32 and string",
			typ:      mustTuple(t, mustUint(t, 32), MakeStringType()),
			value:    MakeArray(MakeUint64(42), MakeString("hello")),
			expected: []byte{0, 0, 0, 42, 0, 6, 0, 5, 'h', 'e', 'l', 'l', 'o'},
		},
		{
			name:     "empty tuple",
			typ:      mustTuple(t),
			value:    MakeArray(),
			expected: []byte{},
		},
		{
			name:     "nested mixed tuple",
			typ:      nested,
			value:    MakeArray(MakeUint64(5), MakeArray(MakeUint64(7), MakeString("hi")), MakeBool(true)),
			expected: []byte{5, 0, 4, 0x80, 0, 7, 0, 4, 0, 2, 'h', 'i'},
		},
		{
			name:     "dynamic array of mixed tuples",
			typ:      MakeDynamicArrayType(inner),
			value:    MakeArray(MakeArray(MakeUint64(1), MakeString("a"))),
			expected: []byte{0, 1, 0, 2, 0, 1, 0, 4, 0, 1, 'a'},
		},
		{
			name:     "dynamic array of strings",
			typ:      MakeDynamicArrayType(MakeStringType()),
			value:    MakeArray(MakeString("a"), MakeString("bc")),
			expected: []byte{0, 2, 0, 4, 0, 7, 0, 1, 'a', 0, 2, 'b', 'c'},
		},
		{
			name:     "static array of strings",
			typ:      MakeStaticArrayType(MakeStringType(), 2),
			value:    MakeArray(MakeString(""), MakeString("x")),
			expected: []byte{0, 4, 0, 6, 0, 0, 0, 1, 'x'},
		},
		{
			name:     "static uint16 array",
			typ:      MakeStaticArrayType(uint16Type, 3),
			value:    MakeArray(MakeUint64(1), MakeUint64(2), MakeUint64(3)),
			expected: []byte{0, 1, 0, 2, 0, 3},
		},
		{
			name:     "dynamic uint16 array",
			typ:      MakeDynamicArrayType(uint16Type),
			value:    MakeArray(MakeUint64(1), MakeUint64(2)),
			expected: []byte{0, 2, 0, 1, 0, 2},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := tc.typ.Encode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, encoded)

			decoded, err := tc.typ.Decode(encoded)
			require.NoError(t, err)
			requireValueEqual(t, tc.value, decoded)
		})
	}
}

func TestEncodeArityErrors(t *testing.T) {
	uint8Type := mustUint(t, 8)

	_, err := mustTuple(t, uint8Type, uint8Type).Encode(MakeArray(MakeUint64(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 2 values, got 1")

	_, err = MakeStaticArrayType(uint8Type, 3).Encode(MakeArray(MakeUint64(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 3 values, got 1")

	_, err = MakeDynamicArrayType(uint8Type).Encode(MakeUint64(1))
	assert.Error(t, err)

	_, err = mustTuple(t, MakeBoolType(), MakeBoolType()).Encode(MakeArray(MakeBool(true), MakeUint64(1)))
	require.Error(t, err)
	var eerr EncodingError
	assert.True(t, errors.As(err, &eerr))
}

func TestEncodeValueKindMismatch(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		value Value
	}{
		{"uint from string", mustUint(t, 8), MakeString("1")},
		{"string from uint", MakeStringType(), MakeUint64(1)},
		{"bool from byte", MakeBoolType(), MakeByte(1)},
		{"address from array", MakeAddressType(), MakeArray()},
		{"tuple from bool", mustTuple(t, MakeBoolType()), MakeBool(true)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.typ.Encode(tc.value)
			require.Error(t, err)
			var eerr EncodingError
			assert.True(t, errors.As(err, &eerr))
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	uint32Type := mustUint(t, 32)
	uintString := mustTuple(t, uint32Type, MakeStringType())
	twoStrings := mustTuple(t, MakeStringType(), MakeStringType())

	tests := []struct {
		name    string
		typ     Type
		encoded []byte
		errMsg  string
	}{
		{"truncated static head", uintString, []byte{0, 0, 0}, "out of bounds"},
		{"truncated offset", uintString, []byte{0, 0, 0, 42, 0}, "out of bounds"},
		{"truncated packed bools", mustTuple(t, uint32Type, MakeBoolType()), []byte{0, 0, 0, 1}, "out of bounds"},
		{"trailing bytes", mustTuple(t, uint32Type), []byte{0, 0, 0, 1, 9}, "input bytes not fully consumed: 4 of 5 bytes read"},
		{"trailing bytes after bools", MakeStaticArrayType(MakeBoolType(), 3), []byte{0xa0, 0}, "input bytes not fully consumed"},
		{"offset inside head", uintString, []byte{0, 0, 0, 42, 0, 2, 0, 0}, "points inside"},
		{"decreasing offsets", twoStrings, []byte{0, 6, 0, 4, 0, 0, 0, 0}, "before the previous offset"},
		{"offset past end", uintString, []byte{0, 0, 0, 42, 0, 9, 0, 0}, "left <= right"},
		{"dynamic array without prefix", MakeDynamicArrayType(uint32Type), []byte{0}, "length prefix"},
		{"dynamic array short", MakeDynamicArrayType(uint32Type), []byte{0, 2, 0, 0, 0, 1}, "out of bounds"},
		{"bad string inside tuple", uintString, []byte{0, 0, 0, 42, 0, 6, 0, 5, 'h'}, "string length prefix"},
		{"uint wrong length", uint32Type, []byte{0, 1}, "uint32 requires 4 bytes, got 2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.typ.Decode(tc.encoded)
			require.Error(t, err)
			var derr DecodingError
			assert.True(t, errors.As(err, &derr), "unexpected error type %T: %v", err, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	typ := mustTuple(t, MakeDynamicArrayType(MakeStringType()), MakeBoolType(), mustUint(t, 64))
	value := MakeArray(MakeArray(MakeString("a"), MakeString("b")), MakeBool(true), MakeUint64(1<<40))

	first, err := typ.Encode(value)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := typ.Encode(value)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestStaticEncodingLengthMatchesByteLen(t *testing.T) {
	var address [32]byte
	address[0] = 1
	tests := []struct {
		name  string
		typ   Type
		value Value
	}{
		{"uint256", mustUint(t, 256), MakeUint64(7)},
		{"ufixed32x3", mustUFixed(t, 32, 3), MakeUFixed(big.NewInt(1500))},
		{"address", MakeAddressType(), MakeAddress(address)},
		{"bool[10]", MakeStaticArrayType(MakeBoolType(), 10),
			MakeArray(MakeBool(true), MakeBool(false), MakeBool(true), MakeBool(false), MakeBool(true),
				MakeBool(false), MakeBool(true), MakeBool(false), MakeBool(true), MakeBool(true))},
		{"tuple", mustTuple(t, MakeBoolType(), MakeByteType(), MakeBoolType(), MakeAddressType()),
			MakeArray(MakeBool(true), MakeByte(3), MakeBool(false), MakeAddress(address))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := tc.typ.Encode(tc.value)
			require.NoError(t, err)
			size, err := tc.typ.ByteLen()
			require.NoError(t, err)
			assert.Len(t, encoded, size)

			decoded, err := tc.typ.Decode(encoded)
			require.NoError(t, err)
			requireValueEqual(t, tc.value, decoded)
		})
	}
}

func TestEncodeZeroValues(t *testing.T) {
	encoded, err := mustUint(t, 64).Encode(Value{})
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), encoded)

	encoded, err = mustTuple(t, mustUint(t, 64), MakeBoolType()).Encode(MakeArray(Value{}, MakeBool(true)))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0x80}, encoded)

	encoded, err = mustUFixed(t, 16, 2).Encode(Value{kind: UFixedValue})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, encoded)
}

func TestUninitializedType(t *testing.T) {
	var typ Type

	_, err := typ.Encode(MakeUint64(1))
	require.Error(t, err)
	var eerr EncodingError
	assert.True(t, errors.As(err, &eerr))
	assert.Contains(t, err.Error(), "uninitialized")

	_, err = typ.Decode(nil)
	require.Error(t, err)
	var derr DecodingError
	assert.True(t, errors.As(err, &derr))

	_, err = typ.ByteLen()
	assert.Error(t, err)
}

func TestEncodeDynamicOffsetOverflow(t *testing.T) {
	typ := mustTuple(t, MakeStringType(), MakeStringType(), MakeStringType())
	long := MakeString(strings.Repeat("a", 40000))

	_, err := typ.Encode(MakeArray(long, long, long))
	require.Error(t, err)
	var eerr EncodingError
	assert.True(t, errors.As(err, &eerr))
	assert.Contains(t, err.Error(), "does not fit in 2 bytes")

	encoded, err := mustTuple(t, MakeStringType(), MakeStringType()).Encode(MakeArray(long, long))
	require.NoError(t, err)
	assert.Len(t, encoded, 4+2*(2+40000))
}
