// Package contract loads ARC-4 contract descriptions and resolves the named
// struct types they declare.
package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/algorand/go-codec/codec"
	"gopkg.in/yaml.v3"

	"github.com/algorand/abicodec/abi"
)

// Format is the serialization of a contract description.
type Format string

// Supported formats.
const (
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

// Contract is an ARC-4 contract description.
type Contract struct {
	Name     string                       `codec:"name" yaml:"name"`
	Desc     string                       `codec:"desc,omitempty" yaml:"desc,omitempty"`
	Networks map[string]Network           `codec:"networks,omitempty" yaml:"networks,omitempty"`
	Methods  []MethodSpec                 `codec:"methods" yaml:"methods"`
	Structs  map[string][]StructFieldSpec `codec:"structs,omitempty" yaml:"structs,omitempty"`
}

// Network identifies the application implementing the contract on a network,
// keyed by genesis hash.
type Network struct {
	AppID uint64 `codec:"appID" yaml:"appID"`
}

// MethodSpec describes a method of the contract.
type MethodSpec struct {
	Name     string     `codec:"name" yaml:"name"`
	Desc     string     `codec:"desc,omitempty" yaml:"desc,omitempty"`
	Args     []ArgSpec  `codec:"args" yaml:"args"`
	Returns  ReturnSpec `codec:"returns" yaml:"returns"`
	Readonly bool       `codec:"readonly,omitempty" yaml:"readonly,omitempty"`
}

// ArgSpec describes a method argument. Struct optionally names the struct
// giving the elements of a tuple argument their names.
type ArgSpec struct {
	Type   string `codec:"type" yaml:"type"`
	Name   string `codec:"name,omitempty" yaml:"name,omitempty"`
	Desc   string `codec:"desc,omitempty" yaml:"desc,omitempty"`
	Struct string `codec:"struct,omitempty" yaml:"struct,omitempty"`
}

// ReturnSpec describes the return value of a method.
type ReturnSpec struct {
	Type   string `codec:"type" yaml:"type"`
	Desc   string `codec:"desc,omitempty" yaml:"desc,omitempty"`
	Struct string `codec:"struct,omitempty" yaml:"struct,omitempty"`
}

// StructFieldSpec is a field of a struct definition. Type is either a type
// string, the name of another struct, or an inline list of fields describing
// an anonymous nested struct.
type StructFieldSpec struct {
	Name string      `codec:"name" yaml:"name"`
	Type interface{} `codec:"type" yaml:"type"`
}

var jsonHandle *codec.JsonHandle

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONFormat, nil
	case ".yml", ".yaml":
		return YAMLFormat, nil
	default:
		return "", fmt.Errorf("FormatFromPath(): unsupported contract file extension '%s'", filepath.Ext(path))
	}
}

// Load reads and validates a contract description file.
func Load(path string) (*Contract, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Load(): %w", err)
	}
	return Parse(data, format)
}

// Parse decodes and validates a contract description.
func Parse(data []byte, format Format) (*Contract, error) {
	var c Contract
	switch format {
	case JSONFormat:
		if err := codec.NewDecoderBytes(data, jsonHandle).Decode(&c); err != nil {
			return nil, fmt.Errorf("Parse(): %w", err)
		}
	case YAMLFormat:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("Parse(): %w", err)
		}
	default:
		return nil, fmt.Errorf("Parse(): unsupported format '%s'", format)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Encode renders the contract description in the given format.
func (c *Contract) Encode(format Format) ([]byte, error) {
	switch format {
	case JSONFormat:
		var b []byte
		if err := codec.NewEncoderBytes(&b, jsonHandle).Encode(c); err != nil {
			return nil, fmt.Errorf("Encode(): %w", err)
		}
		return b, nil
	case YAMLFormat:
		b, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("Encode(): %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("Encode(): unsupported format '%s'", format)
	}
}

// Validate checks that the methods are well formed with unique signatures,
// that every struct resolves, and that struct annotations match the types
// they annotate.
func (c *Contract) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("Validate(): contract name cannot be empty")
	}
	for name := range c.Structs {
		if _, err := c.StructType(name); err != nil {
			return fmt.Errorf("Validate(): %w", err)
		}
	}

	signatures := make(map[string]bool, len(c.Methods))
	for _, spec := range c.Methods {
		m, err := spec.method()
		if err != nil {
			return fmt.Errorf("Validate(): %w", err)
		}
		signature := m.Signature()
		if signatures[signature] {
			return fmt.Errorf("Validate(): duplicate method %s", signature)
		}
		signatures[signature] = true

		for _, arg := range spec.Args {
			if err := c.checkStructAnnotation(signature, arg.Type, arg.Struct); err != nil {
				return err
			}
		}
		if err := c.checkStructAnnotation(signature, spec.Returns.Type, spec.Returns.Struct); err != nil {
			return err
		}
	}
	return nil
}

func (c *Contract) checkStructAnnotation(signature, typeString, structName string) error {
	if structName == "" {
		return nil
	}
	typ, err := c.StructType(structName)
	if err != nil {
		return fmt.Errorf("Validate(): method %s: %w", signature, err)
	}
	if typ.String() != typeString {
		return fmt.Errorf("Validate(): method %s: struct '%s' is %s, not %s", signature, structName, typ, typeString)
	}
	return nil
}

func (spec MethodSpec) method() (abi.Method, error) {
	argTypes := make([]string, len(spec.Args))
	for i, arg := range spec.Args {
		argTypes[i] = arg.Type
	}
	m, err := abi.MakeMethod(spec.Name, argTypes, spec.Returns.Type)
	if err != nil {
		return abi.Method{}, err
	}
	m.Desc = spec.Desc
	m.Returns.Desc = spec.Returns.Desc
	for i, arg := range spec.Args {
		m.Args[i].Name = arg.Name
		m.Args[i].Desc = arg.Desc
	}
	return m, nil
}

// ABIMethods returns the methods of the contract in declared order.
func (c *Contract) ABIMethods() ([]abi.Method, error) {
	methods := make([]abi.Method, len(c.Methods))
	for i, spec := range c.Methods {
		m, err := spec.method()
		if err != nil {
			return nil, fmt.Errorf("ABIMethods(): %w", err)
		}
		methods[i] = m
	}
	return methods, nil
}

// GetMethodByName returns the only method with the given name.
func (c *Contract) GetMethodByName(name string) (abi.Method, error) {
	methods, err := c.ABIMethods()
	if err != nil {
		return abi.Method{}, err
	}
	return abi.GetMethodByName(methods, name)
}

// GetMethodBySelector returns the method with the given selector.
func (c *Contract) GetMethodBySelector(selector [4]byte) (abi.Method, error) {
	methods, err := c.ABIMethods()
	if err != nil {
		return abi.Method{}, err
	}
	for _, m := range methods {
		if m.Selector() == selector {
			return m, nil
		}
	}
	return abi.Method{}, fmt.Errorf("GetMethodBySelector(): no method with selector %x in contract %s", selector[:], c.Name)
}

func init() {
	jsonHandle = new(codec.JsonHandle)
	jsonHandle.Canonical = true
	jsonHandle.RecursiveEmptyCheck = true
	jsonHandle.HTMLCharsAsIs = true
	jsonHandle.Indent = 2
	jsonHandle.MapKeyAsString = true
	jsonHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))
}
