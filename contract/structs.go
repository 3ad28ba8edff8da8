package contract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/algorand/abicodec/abi"
)

// StructType resolves a named struct definition into an ABI struct type.
func (c *Contract) StructType(name string) (abi.Type, error) {
	return c.resolveStruct(name, make(map[string]bool))
}

// ResolveType parses a type string in which struct names may appear in place
// of a type, optionally followed by array suffixes such as "Point[]".
func (c *Contract) ResolveType(s string) (abi.Type, error) {
	return c.resolveTypeString(s, make(map[string]bool))
}

func (c *Contract) resolveStruct(name string, visiting map[string]bool) (abi.Type, error) {
	fields, ok := c.Structs[name]
	if !ok {
		return abi.Type{}, fmt.Errorf("unknown struct '%s'", name)
	}
	if visiting[name] {
		return abi.Type{}, fmt.Errorf("struct '%s' is defined in terms of itself", name)
	}
	visiting[name] = true
	defer delete(visiting, name)
	return c.buildStruct(name, fields, visiting)
}

func (c *Contract) buildStruct(name string, fields []StructFieldSpec, visiting map[string]bool) (abi.Type, error) {
	structFields := make([]abi.StructField, len(fields))
	for i, field := range fields {
		typ, err := c.resolveFieldType(name, field, visiting)
		if err != nil {
			return abi.Type{}, err
		}
		structFields[i] = abi.StructField{Name: field.Name, Type: typ}
	}
	return abi.MakeStructType(name, structFields)
}

func (c *Contract) resolveFieldType(parent string, field StructFieldSpec, visiting map[string]bool) (abi.Type, error) {
	switch raw := field.Type.(type) {
	case string:
		return c.resolveTypeString(raw, visiting)
	case []interface{}:
		inline, err := fieldsFromRaw(raw)
		if err != nil {
			return abi.Type{}, fmt.Errorf("struct '%s' field '%s': %w", parent, field.Name, err)
		}
		return c.buildStruct("", inline, visiting)
	case []StructFieldSpec:
		return c.buildStruct("", raw, visiting)
	default:
		return abi.Type{}, fmt.Errorf("struct '%s' field '%s' has an invalid type %v", parent, field.Name, field.Type)
	}
}

func (c *Contract) resolveTypeString(s string, visiting map[string]bool) (abi.Type, error) {
	base := s
	if i := strings.IndexByte(s, '['); i >= 0 {
		base = s[:i]
	}
	if _, ok := c.Structs[base]; !ok {
		return abi.TypeOf(s)
	}
	if s == base {
		return c.resolveStruct(s, visiting)
	}

	if strings.HasSuffix(s, "[]") {
		elem, err := c.resolveTypeString(s[:len(s)-2], visiting)
		if err != nil {
			return abi.Type{}, err
		}
		return abi.MakeDynamicArrayType(elem), nil
	}
	open := strings.LastIndexByte(s, '[')
	if !strings.HasSuffix(s, "]") {
		return abi.Type{}, fmt.Errorf("ill formed struct array type '%s'", s)
	}
	lengthString := s[open+1 : len(s)-1]
	length, err := strconv.ParseUint(lengthString, 10, 16)
	if err != nil || strconv.FormatUint(length, 10) != lengthString {
		return abi.Type{}, fmt.Errorf("ill formed struct array type '%s'", s)
	}
	elem, err := c.resolveTypeString(s[:open], visiting)
	if err != nil {
		return abi.Type{}, err
	}
	return abi.MakeStaticArrayType(elem, uint16(length)), nil
}

// fieldsFromRaw converts an inline field list decoded into plain objects.
func fieldsFromRaw(raw []interface{}) ([]StructFieldSpec, error) {
	fields := make([]StructFieldSpec, len(raw))
	for i, elem := range raw {
		var obj map[string]interface{}
		switch o := elem.(type) {
		case map[string]interface{}:
			obj = o
		case map[interface{}]interface{}:
			obj = make(map[string]interface{}, len(o))
			for k, v := range o {
				obj[fmt.Sprint(k)] = v
			}
		default:
			return nil, fmt.Errorf("inline field %d is not an object", i)
		}
		name, ok := obj["name"].(string)
		if !ok {
			return nil, fmt.Errorf("inline field %d has no name", i)
		}
		typ, ok := obj["type"]
		if !ok {
			return nil, fmt.Errorf("inline field '%s' has no type", name)
		}
		fields[i] = StructFieldSpec{Name: name, Type: typ}
	}
	return fields, nil
}
