package abi

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	staticArrayRegexp = regexp.MustCompile(`^([a-z\d\[\](),]+)\[(0|[1-9][\d]*)]$`)
	ufixedRegexp      = regexp.MustCompile(`^ufixed([1-9][\d]*)x(0|[1-9][\d]*)$`)
	digitsRegexp      = regexp.MustCompile(`^[\d]+$`)
)

// TypeOf parses an ARC-4 type string.
//
// Tuple literals such as "(uint64,bool)" are rejected: composite types with
// several children are built with MakeTupleType or MakeStructType instead.
func TypeOf(str string) (Type, error) {
	switch {
	case strings.HasSuffix(str, "[]"):
		elem, err := TypeOf(str[:len(str)-2])
		if err != nil {
			return Type{}, err
		}
		return MakeDynamicArrayType(elem), nil
	case strings.HasSuffix(str, "]"):
		matches := staticArrayRegexp.FindStringSubmatch(str)
		// the string itself, the element type, then the array length
		if len(matches) != 3 {
			return Type{}, makeValidationError("static array ill formatted: %s", str)
		}
		length, err := strconv.ParseUint(matches[2], 10, 16)
		if err != nil {
			return Type{}, makeValidationError("static array length out of range: %s", str)
		}
		elem, err := TypeOf(matches[1])
		if err != nil {
			return Type{}, err
		}
		return MakeStaticArrayType(elem, uint16(length)), nil
	case strings.HasPrefix(str, "ufixed"):
		matches := ufixedRegexp.FindStringSubmatch(str)
		// the string itself, the bit size, then the precision
		if len(matches) != 3 {
			return Type{}, makeValidationError("ill formed ufixed type: %s", str)
		}
		bitSize, err := strconv.ParseUint(matches[1], 10, 16)
		if err != nil {
			return Type{}, makeValidationError("ill formed ufixed type: %s", str)
		}
		precision, err := strconv.ParseUint(matches[2], 10, 16)
		if err != nil {
			return Type{}, makeValidationError("ill formed ufixed type: %s", str)
		}
		return MakeUFixedType(uint16(bitSize), uint16(precision))
	case strings.HasPrefix(str, "uint"):
		if !digitsRegexp.MatchString(str[4:]) {
			return Type{}, makeValidationError("ill formed uint type: %s", str)
		}
		bitSize, err := strconv.ParseUint(str[4:], 10, 16)
		if err != nil {
			return Type{}, makeValidationError("ill formed uint type: %s", str)
		}
		return MakeUintType(uint16(bitSize))
	case str == "byte":
		return MakeByteType(), nil
	case str == "bool":
		return MakeBoolType(), nil
	case str == "address":
		return MakeAddressType(), nil
	case str == "string":
		return MakeStringType(), nil
	case len(str) >= 2 && str[0] == '(' && str[len(str)-1] == ')':
		return Type{}, makeValidationError("tuple type strings are not supported: %s", str)
	default:
		return Type{}, makeValidationError("cannot convert string '%s' to an ABI type", str)
	}
}
