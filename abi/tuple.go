package abi

import (
	"encoding/binary"
	"math"
)

// segment keeps track of the start and end of a dynamic value in a tuple encoding.
type segment struct{ left, right int }

// packBools compresses up to 8 consecutive bool values into a byte, the first
// value in the most significant bit.
func packBools(values []Value) (byte, error) {
	if len(values) > 8 {
		return 0, makeEncodingError("expected no more than 8 bool values, got %d", len(values))
	}
	var packed byte
	for i, v := range values {
		if v.kind != BoolValue {
			return 0, makeEncodingError("cannot encode %s value as bool", v.kind)
		}
		if v.boolean {
			packed |= boolTrueByte >> uint(i)
		}
	}
	return packed, nil
}

// encodeTypes encodes values with the head/tail layout of an ARC-4 tuple.
// Static values and bit-packed bool runs go into the head, dynamic values go
// into the tail and are referenced from the head by a 2-byte offset.
func encodeTypes(types []Type, values []Value) ([]byte, error) {
	if len(types) != len(values) {
		return nil, makeEncodingError("expected %d values, got %d", len(types), len(values))
	}

	heads := make([][]byte, 0, len(types))
	tails := make([][]byte, 0)
	// index into heads of each offset placeholder, parallel to tails
	dynamicHeads := make([]int, 0)

	for i := 0; i < len(types); {
		childType := types[i]
		switch {
		case childType.IsDynamic():
			encoded, err := childType.Encode(values[i])
			if err != nil {
				return nil, err
			}
			dynamicHeads = append(dynamicHeads, len(heads))
			heads = append(heads, []byte{0x00, 0x00})
			tails = append(tails, encoded)
			i++
		case childType.kind == Bool:
			end := boolRunEnd(types, i)
			packed, err := packBools(values[i:end])
			if err != nil {
				return nil, err
			}
			heads = append(heads, []byte{packed})
			i = end
		default:
			encoded, err := childType.Encode(values[i])
			if err != nil {
				return nil, err
			}
			heads = append(heads, encoded)
			i++
		}
	}

	headLength := 0
	for _, head := range heads {
		headLength += len(head)
	}

	offset := headLength
	for i, headIndex := range dynamicHeads {
		if offset > math.MaxUint16 {
			return nil, makeEncodingError("dynamic offset %d does not fit in 2 bytes", offset)
		}
		binary.BigEndian.PutUint16(heads[headIndex], uint16(offset))
		offset += len(tails[i])
	}

	encoded := make([]byte, 0, offset)
	for _, head := range heads {
		encoded = append(encoded, head...)
	}
	for _, tail := range tails {
		encoded = append(encoded, tail...)
	}
	return encoded, nil
}

// decodeTypes splits an ARC-4 tuple encoding into one partition per type and
// decodes each of them, returning the values in order.
func decodeTypes(types []Type, encoded []byte) ([]Value, error) {
	partitions := make([][]byte, len(types))
	dynamicIndexes := make([]int, 0)
	segments := make([]segment, 0)

	cursor := 0
	for i := 0; i < len(types); {
		childType := types[i]
		switch {
		case childType.IsDynamic():
			if len(encoded)-cursor < lengthEncodeByteSize {
				return nil, makeDecodingError("out of bounds: need %d bytes at %d to read the offset of %s, have %d",
					lengthEncodeByteSize, cursor, childType, len(encoded))
			}
			offset := int(binary.BigEndian.Uint16(encoded[cursor:]))
			if n := len(segments); n > 0 {
				if offset < segments[n-1].left {
					return nil, makeDecodingError("dynamic offset %d is before the previous offset %d", offset, segments[n-1].left)
				}
				segments[n-1].right = offset
			}
			segments = append(segments, segment{left: offset})
			dynamicIndexes = append(dynamicIndexes, i)
			cursor += lengthEncodeByteSize
			i++
		case childType.kind == Bool:
			if cursor >= len(encoded) {
				return nil, makeDecodingError("out of bounds: need 1 byte at %d to read packed bools, have %d", cursor, len(encoded))
			}
			packed := encoded[cursor]
			end := boolRunEnd(types, i)
			for j := i; j < end; j++ {
				if packed&(boolTrueByte>>uint(j-i)) != 0 {
					partitions[j] = []byte{boolTrueByte}
				} else {
					partitions[j] = []byte{boolFalseByte}
				}
			}
			cursor++
			i = end
		default:
			size, err := childType.ByteLen()
			if err != nil {
				return nil, err
			}
			if len(encoded)-cursor < size {
				return nil, makeDecodingError("out of bounds: need %d bytes at %d to read %s, have %d",
					size, cursor, childType, len(encoded))
			}
			partitions[i] = encoded[cursor : cursor+size]
			cursor += size
			i++
		}
	}

	if len(segments) > 0 {
		segments[len(segments)-1].right = len(encoded)
		if segments[0].left < cursor {
			return nil, makeDecodingError("dynamic offset %d points inside the %d byte head", segments[0].left, cursor)
		}
	} else if cursor < len(encoded) {
		return nil, makeDecodingError("input bytes not fully consumed: %d of %d bytes read", cursor, len(encoded))
	}

	for i, seg := range segments {
		if seg.left > seg.right {
			return nil, makeDecodingError("dynamic segment [%d, %d] should satisfy left <= right", seg.left, seg.right)
		}
		if i != len(segments)-1 && seg.right != segments[i+1].left {
			return nil, makeDecodingError("dynamic segments should be contiguous")
		}
	}

	for i, typeIndex := range dynamicIndexes {
		partitions[typeIndex] = encoded[segments[i].left:segments[i].right]
	}

	values := make([]Value, len(types))
	for i := range types {
		value, err := types[i].Decode(partitions[i])
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}
