package abi

// containsStruct reports whether a struct type appears anywhere in the type tree.
func (t Type) containsStruct() bool {
	if t.kind == Struct {
		return true
	}
	for _, child := range t.childTypes {
		if child.containsStruct() {
			return true
		}
	}
	return false
}

// TupleType returns the type with every struct replaced by the tuple of its
// field types, recursively. Types without structs are returned unchanged.
func (t Type) TupleType() Type {
	if !t.containsStruct() {
		return t
	}
	switch t.kind {
	case ArrayStatic:
		return MakeStaticArrayType(t.childTypes[0].TupleType(), t.staticLength)
	case ArrayDynamic:
		return MakeDynamicArrayType(t.childTypes[0].TupleType())
	case Tuple, Struct:
		childTypes := make([]Type, len(t.childTypes))
		for i := range t.childTypes {
			childTypes[i] = t.childTypes[i].TupleType()
		}
		return Type{kind: Tuple, childTypes: childTypes}
	default:
		return t
	}
}

// StructToTuple converts a value of the type into a value of TupleType(): each
// struct value becomes an array of its field values in declared order. Extra
// keys in a struct value are ignored, a missing field is a ValidationError.
func (t Type) StructToTuple(v Value) (Value, error) {
	if !t.containsStruct() {
		return v, nil
	}
	switch t.kind {
	case Struct:
		if v.kind != StructValue {
			return Value{}, makeEncodingError("cannot encode %s value as struct '%s'", v.kind, t.structName)
		}
		values := make([]Value, len(t.childTypes))
		for i, fieldName := range t.fieldNames {
			fieldValue, ok := v.fields[fieldName]
			if !ok {
				return Value{}, makeValidationError("missing field '%s' in struct '%s'", fieldName, t.structName)
			}
			converted, err := t.childTypes[i].StructToTuple(fieldValue)
			if err != nil {
				return Value{}, err
			}
			values[i] = converted
		}
		return Value{kind: ArrayValue, array: values}, nil
	case Tuple:
		if v.kind != ArrayValue || len(v.array) != len(t.childTypes) {
			return Value{}, makeEncodingError("tuple %s expects an array of %d values", t, len(t.childTypes))
		}
		values := make([]Value, len(v.array))
		for i := range v.array {
			converted, err := t.childTypes[i].StructToTuple(v.array[i])
			if err != nil {
				return Value{}, err
			}
			values[i] = converted
		}
		return Value{kind: ArrayValue, array: values}, nil
	case ArrayStatic, ArrayDynamic:
		if v.kind != ArrayValue {
			return Value{}, makeEncodingError("cannot encode %s value as array %s", v.kind, t)
		}
		values := make([]Value, len(v.array))
		for i := range v.array {
			converted, err := t.childTypes[0].StructToTuple(v.array[i])
			if err != nil {
				return Value{}, err
			}
			values[i] = converted
		}
		return Value{kind: ArrayValue, array: values}, nil
	default:
		return v, nil
	}
}

// TupleToStruct is the inverse of StructToTuple: it converts a value of
// TupleType() back into a value of the type, naming the elements of every struct.
func (t Type) TupleToStruct(v Value) (Value, error) {
	if !t.containsStruct() {
		return v, nil
	}
	switch t.kind {
	case Struct:
		if v.kind != ArrayValue || len(v.array) != len(t.childTypes) {
			return Value{}, makeValidationError("tuple of %d values does not match the %d fields of struct '%s'",
				len(v.array), len(t.childTypes), t.structName)
		}
		fields := make(map[string]Value, len(t.childTypes))
		for i, fieldName := range t.fieldNames {
			converted, err := t.childTypes[i].TupleToStruct(v.array[i])
			if err != nil {
				return Value{}, err
			}
			fields[fieldName] = converted
		}
		return Value{kind: StructValue, fields: fields}, nil
	case Tuple:
		if v.kind != ArrayValue || len(v.array) != len(t.childTypes) {
			return Value{}, makeValidationError("tuple %s expects an array of %d values", t, len(t.childTypes))
		}
		values := make([]Value, len(v.array))
		for i := range v.array {
			converted, err := t.childTypes[i].TupleToStruct(v.array[i])
			if err != nil {
				return Value{}, err
			}
			values[i] = converted
		}
		return Value{kind: ArrayValue, array: values}, nil
	case ArrayStatic, ArrayDynamic:
		if v.kind != ArrayValue {
			return Value{}, makeValidationError("array %s expects an array value, got %s", t, v.kind)
		}
		values := make([]Value, len(v.array))
		for i := range v.array {
			converted, err := t.childTypes[0].TupleToStruct(v.array[i])
			if err != nil {
				return Value{}, err
			}
			values[i] = converted
		}
		return Value{kind: ArrayValue, array: values}, nil
	default:
		return v, nil
	}
}

func encodeStruct(t Type, v Value) ([]byte, error) {
	tupleValue, err := t.StructToTuple(v)
	if err != nil {
		return nil, err
	}
	return t.TupleType().Encode(tupleValue)
}

func decodeStruct(t Type, encoded []byte) (Value, error) {
	tupleValue, err := t.TupleType().Decode(encoded)
	if err != nil {
		return Value{}, err
	}
	return t.TupleToStruct(tupleValue)
}
