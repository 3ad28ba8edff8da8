// Package encoding converts between ABI values and their JSON form.
//
// Integers are JSON numbers while they are exactly representable as a float64
// and decimal strings above that. Addresses use the base32 checksum form,
// structs become objects keyed by field name, and every other composite type
// becomes an array. Byte arrays additionally accept a base64 string on input.
package encoding

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/algorand/go-codec/codec"
	sdk "github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/algorand/abicodec/abi"
)

// MaxSafeInteger is the largest integer rendered as a JSON number.
const MaxSafeInteger = 1<<53 - 1

var jsonHandle *codec.JsonHandle

// EncodeJSON encodes an object with the canonical JSON handle.
func EncodeJSON(obj interface{}) ([]byte, error) {
	var b []byte
	enc := codec.NewEncoderBytes(&b, jsonHandle)
	if err := enc.Encode(obj); err != nil {
		return nil, fmt.Errorf("EncodeJSON(): %w", err)
	}
	return b, nil
}

// DecodeJSON decodes JSON into obj. Numbers decoded into an interface{} keep
// their integer precision.
func DecodeJSON(data []byte, obj interface{}) error {
	dec := codec.NewDecoderBytes(data, jsonHandle)
	if err := dec.Decode(obj); err != nil {
		return fmt.Errorf("DecodeJSON(): %w", err)
	}
	return nil
}

// MarshalValue renders a value of the type as JSON.
func MarshalValue(t abi.Type, v abi.Value) ([]byte, error) {
	obj, err := ValueToJSON(t, v)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(obj)
}

// UnmarshalValue parses the JSON form of a value of the type.
func UnmarshalValue(t abi.Type, data []byte) (abi.Value, error) {
	var obj interface{}
	if err := DecodeJSON(data, &obj); err != nil {
		return abi.Value{}, err
	}
	return ValueFromJSON(t, obj)
}

// ValueToJSON converts a value of the type into plain Go objects ready to be
// JSON encoded.
func ValueToJSON(t abi.Type, v abi.Value) (interface{}, error) {
	switch t.Kind() {
	case abi.Uint:
		integer, err := v.GetUint()
		if err != nil {
			return nil, err
		}
		return integerToJSON(integer), nil
	case abi.UFixed:
		mantissa, err := v.GetUFixed()
		if err != nil {
			return nil, err
		}
		return integerToJSON(mantissa), nil
	case abi.Byte:
		b, err := v.GetByte()
		if err != nil {
			return nil, err
		}
		return uint64(b), nil
	case abi.Bool:
		return v.GetBool()
	case abi.String:
		return v.GetString()
	case abi.Address:
		address, err := v.GetAddress()
		if err != nil {
			return nil, err
		}
		return sdk.Address(address).String(), nil
	case abi.ArrayStatic, abi.ArrayDynamic:
		elem, _ := t.Elem()
		values, err := v.GetArray()
		if err != nil {
			return nil, err
		}
		return arrayToJSON(repeat(elem, len(values)), values)
	case abi.Tuple:
		values, err := v.GetArray()
		if err != nil {
			return nil, err
		}
		children := t.Children()
		if len(values) != len(children) {
			return nil, fmt.Errorf("ValueToJSON(): tuple %s expects %d values, got %d", t, len(children), len(values))
		}
		return arrayToJSON(children, values)
	case abi.Struct:
		fields, err := v.GetStruct()
		if err != nil {
			return nil, err
		}
		obj := make(map[string]interface{}, len(fields))
		for _, field := range t.Fields() {
			fieldValue, ok := fields[field.Name]
			if !ok {
				return nil, fmt.Errorf("ValueToJSON(): missing field '%s' in struct '%s'", field.Name, t.Name())
			}
			converted, err := ValueToJSON(field.Type, fieldValue)
			if err != nil {
				return nil, err
			}
			obj[field.Name] = converted
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("ValueToJSON(): unknown abi type %s", t)
	}
}

func integerToJSON(integer *big.Int) interface{} {
	if integer.IsUint64() && integer.Uint64() <= MaxSafeInteger {
		return integer.Uint64()
	}
	return integer.String()
}

func arrayToJSON(types []abi.Type, values []abi.Value) ([]interface{}, error) {
	arr := make([]interface{}, len(values))
	for i := range values {
		converted, err := ValueToJSON(types[i], values[i])
		if err != nil {
			return nil, err
		}
		arr[i] = converted
	}
	return arr, nil
}

func repeat(t abi.Type, n int) []abi.Type {
	types := make([]abi.Type, n)
	for i := range types {
		types[i] = t
	}
	return types
}

// ValueFromJSON converts decoded JSON into a value of the type.
func ValueFromJSON(t abi.Type, obj interface{}) (abi.Value, error) {
	switch t.Kind() {
	case abi.Uint:
		integer, err := integerFromJSON(t, obj)
		if err != nil {
			return abi.Value{}, err
		}
		return abi.MakeUint(integer), nil
	case abi.UFixed:
		mantissa, err := integerFromJSON(t, obj)
		if err != nil {
			return abi.Value{}, err
		}
		return abi.MakeUFixed(mantissa), nil
	case abi.Byte:
		integer, err := integerFromJSON(t, obj)
		if err != nil {
			return abi.Value{}, err
		}
		if !integer.IsUint64() || integer.Uint64() > math.MaxUint8 {
			return abi.Value{}, fmt.Errorf("ValueFromJSON(): %s does not fit in a byte", integer)
		}
		return abi.MakeByte(byte(integer.Uint64())), nil
	case abi.Bool:
		b, ok := obj.(bool)
		if !ok {
			return abi.Value{}, mismatch(t, obj)
		}
		return abi.MakeBool(b), nil
	case abi.String:
		s, ok := obj.(string)
		if !ok {
			return abi.Value{}, mismatch(t, obj)
		}
		return abi.MakeString(s), nil
	case abi.Address:
		s, ok := obj.(string)
		if !ok {
			return abi.Value{}, mismatch(t, obj)
		}
		address, err := sdk.DecodeAddress(s)
		if err != nil {
			return abi.Value{}, fmt.Errorf("ValueFromJSON(): %w", err)
		}
		return abi.MakeAddress(address), nil
	case abi.ArrayStatic, abi.ArrayDynamic:
		elem, _ := t.Elem()
		if s, ok := obj.(string); ok && elem.Kind() == abi.Byte {
			return bytesFromBase64(t, s)
		}
		arr, ok := obj.([]interface{})
		if !ok {
			return abi.Value{}, mismatch(t, obj)
		}
		if t.Kind() == abi.ArrayStatic && len(arr) != int(t.Length()) {
			return abi.Value{}, fmt.Errorf("ValueFromJSON(): %s expects %d values, got %d", t, t.Length(), len(arr))
		}
		return arrayFromJSON(repeat(elem, len(arr)), arr)
	case abi.Tuple:
		arr, ok := obj.([]interface{})
		if !ok {
			return abi.Value{}, mismatch(t, obj)
		}
		children := t.Children()
		if len(arr) != len(children) {
			return abi.Value{}, fmt.Errorf("ValueFromJSON(): tuple %s expects %d values, got %d", t, len(children), len(arr))
		}
		return arrayFromJSON(children, arr)
	case abi.Struct:
		obj, err := objectFromJSON(t, obj)
		if err != nil {
			return abi.Value{}, err
		}
		fields := make(map[string]abi.Value, len(obj))
		for _, field := range t.Fields() {
			fieldObj, ok := obj[field.Name]
			if !ok {
				return abi.Value{}, fmt.Errorf("ValueFromJSON(): missing field '%s' in struct '%s'", field.Name, t.Name())
			}
			converted, err := ValueFromJSON(field.Type, fieldObj)
			if err != nil {
				return abi.Value{}, err
			}
			fields[field.Name] = converted
		}
		return abi.MakeStruct(fields), nil
	default:
		return abi.Value{}, fmt.Errorf("ValueFromJSON(): unknown abi type %s", t)
	}
}

func mismatch(t abi.Type, obj interface{}) error {
	return fmt.Errorf("ValueFromJSON(): cannot use %T as %s", obj, t)
}

func arrayFromJSON(types []abi.Type, arr []interface{}) (abi.Value, error) {
	values := make([]abi.Value, len(arr))
	for i := range arr {
		converted, err := ValueFromJSON(types[i], arr[i])
		if err != nil {
			return abi.Value{}, err
		}
		values[i] = converted
	}
	return abi.MakeArray(values...), nil
}

func objectFromJSON(t abi.Type, obj interface{}) (map[string]interface{}, error) {
	switch o := obj.(type) {
	case map[string]interface{}:
		return o, nil
	case map[interface{}]interface{}:
		converted := make(map[string]interface{}, len(o))
		for k, v := range o {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("ValueFromJSON(): struct '%s' has a non string key %v", t.Name(), k)
			}
			converted[key] = v
		}
		return converted, nil
	default:
		return nil, mismatch(t, obj)
	}
}

func bytesFromBase64(t abi.Type, s string) (abi.Value, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return abi.Value{}, fmt.Errorf("ValueFromJSON(): %s expects base64: %w", t, err)
	}
	if t.Kind() == abi.ArrayStatic && len(data) != int(t.Length()) {
		return abi.Value{}, fmt.Errorf("ValueFromJSON(): %s expects %d bytes, got %d", t, t.Length(), len(data))
	}
	values := make([]abi.Value, len(data))
	for i, b := range data {
		values[i] = abi.MakeByte(b)
	}
	return abi.MakeArray(values...), nil
}

// integerFromJSON accepts unsigned integers, integral floats and decimal strings.
func integerFromJSON(t abi.Type, obj interface{}) (*big.Int, error) {
	switch n := obj.(type) {
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case int64:
		return nonNegative(t, big.NewInt(n))
	case int:
		return nonNegative(t, big.NewInt(int64(n)))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return nil, fmt.Errorf("ValueFromJSON(): %v is not an integer for %s", n, t)
		}
		integer, _ := new(big.Float).SetFloat64(n).Int(nil)
		return nonNegative(t, integer)
	case string:
		integer, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, fmt.Errorf("ValueFromJSON(): '%s' is not a decimal integer for %s", n, t)
		}
		return nonNegative(t, integer)
	default:
		return nil, mismatch(t, obj)
	}
}

func nonNegative(t abi.Type, integer *big.Int) (*big.Int, error) {
	if integer.Sign() < 0 {
		return nil, fmt.Errorf("ValueFromJSON(): negative value %s for %s", integer, t)
	}
	return integer, nil
}

func init() {
	jsonHandle = new(codec.JsonHandle)
	jsonHandle.ErrorIfNoField = true
	jsonHandle.ErrorIfNoArrayExpand = true
	jsonHandle.Canonical = true
	jsonHandle.RecursiveEmptyCheck = true
	jsonHandle.HTMLCharsAsIs = true
	jsonHandle.Indent = 0
	jsonHandle.MapKeyAsString = true
	jsonHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))
}
