package abi

// IsDynamic reports whether the encoded length of the type depends on the value.
// A tuple or struct is dynamic as soon as one of its children is dynamic.
func (t Type) IsDynamic() bool {
	switch t.kind {
	case String, ArrayDynamic:
		return true
	case ArrayStatic:
		return t.childTypes[0].IsDynamic()
	case Tuple, Struct:
		for _, child := range t.childTypes {
			if child.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ByteLen returns the encoded length of a static type.
// Dynamic types have no fixed size and return a DecodingError.
func (t Type) ByteLen() (int, error) {
	switch t.kind {
	case Uint, UFixed:
		if t.bitSize == 0 {
			return -1, makeDecodingError("type %s is uninitialized", t)
		}
		return int(t.bitSize / 8), nil
	case Address:
		return addressByteLen, nil
	case Bool, Byte:
		return 1, nil
	case ArrayStatic:
		elem := t.childTypes[0]
		if elem.kind == Bool {
			return (int(t.staticLength) + 7) / 8, nil
		}
		elemLen, err := elem.ByteLen()
		if err != nil {
			return -1, err
		}
		return int(t.staticLength) * elemLen, nil
	case Tuple, Struct:
		size := 0
		for i := 0; i < len(t.childTypes); {
			if t.childTypes[i].kind == Bool {
				i = boolRunEnd(t.childTypes, i)
				size++
				continue
			}
			childLen, err := t.childTypes[i].ByteLen()
			if err != nil {
				return -1, err
			}
			size += childLen
			i++
		}
		return size, nil
	default:
		return -1, makeDecodingError("%s is a dynamic type and has no fixed size", t.String())
	}
}

// boolRunEnd takes a list of types and the index of a bool type. It returns the
// exclusive end index of the consecutive bools starting there, limited to the
// 8 bools that fit in a single byte.
func boolRunEnd(types []Type, start int) int {
	end := start
	for end < len(types) && end-start < 8 && types[end].kind == Bool {
		end++
	}
	return end
}
