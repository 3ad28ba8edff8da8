package abi

import (
	"crypto/sha512"
	"strings"
	"unicode"
)

// VoidReturnType is the return type of a method that returns nothing.
const VoidReturnType = "void"

// ArgCategory says how a method argument is passed to an application call.
type ArgCategory int

const (
	// ValueArg is an ABI value encoded in the application arguments.
	ValueArg ArgCategory = iota
	// TransactionArg is a transaction placed before the call in the group.
	TransactionArg
	// ReferenceArg is an index into one of the foreign arrays of the call.
	ReferenceArg
)

func (c ArgCategory) String() string {
	switch c {
	case ValueArg:
		return "value"
	case TransactionArg:
		return "transaction"
	case ReferenceArg:
		return "reference"
	default:
		return "unknown"
	}
}

// Transaction argument types.
const (
	AnyTransactionType             = "txn"
	PaymentTransactionType         = "pay"
	KeyRegistrationTransactionType = "keyreg"
	AssetConfigTransactionType     = "acfg"
	AssetTransferTransactionType   = "axfer"
	AssetFreezeTransactionType     = "afrz"
	ApplicationCallTransactionType = "appl"
)

// Reference argument types.
const (
	AccountReferenceType     = "account"
	ApplicationReferenceType = "application"
	AssetReferenceType       = "asset"
)

var transactionTypes = map[string]bool{
	AnyTransactionType:             true,
	PaymentTransactionType:         true,
	KeyRegistrationTransactionType: true,
	AssetConfigTransactionType:     true,
	AssetTransferTransactionType:   true,
	AssetFreezeTransactionType:     true,
	ApplicationCallTransactionType: true,
}

var referenceTypes = map[string]bool{
	AccountReferenceType:     true,
	ApplicationReferenceType: true,
	AssetReferenceType:       true,
}

// IsTransactionType reports whether the argument type string denotes a
// transaction, either a bare keyword or "txn[<keyword>]".
func IsTransactionType(s string) bool {
	if transactionTypes[s] {
		return true
	}
	prefix := AnyTransactionType + "["
	if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, "]") {
		inner := s[len(prefix) : len(s)-1]
		return inner != AnyTransactionType && transactionTypes[inner]
	}
	return false
}

// IsReferenceType reports whether the argument type string denotes a foreign reference.
func IsReferenceType(s string) bool {
	return referenceTypes[s]
}

// CategorizeArg returns the category of an argument type string.
func CategorizeArg(s string) ArgCategory {
	switch {
	case IsTransactionType(s):
		return TransactionArg
	case IsReferenceType(s):
		return ReferenceArg
	default:
		return ValueArg
	}
}

// Arg is a method argument.
type Arg struct {
	// Type is the raw argument type string. Value types are not parsed until ABIType is called.
	Type     string
	Category ArgCategory
	Name     string
	Desc     string
}

// ABIType parses the type of a value argument.
func (a Arg) ABIType() (Type, error) {
	if a.Category != ValueArg {
		return Type{}, makeValidationError("argument type '%s' is a %s, not a value type", a.Type, a.Category)
	}
	return TypeOf(a.Type)
}

// Return is the return value of a method.
type Return struct {
	Type string
	Desc string
}

// IsVoid reports whether the method returns nothing.
func (r Return) IsVoid() bool {
	return r.Type == VoidReturnType
}

// ABIType parses the return type. A void return has no ABI type.
func (r Return) ABIType() (Type, error) {
	if r.IsVoid() {
		return Type{}, makeValidationError("void return has no abi type")
	}
	return TypeOf(r.Type)
}

// Method is an ARC-4 method description.
type Method struct {
	Name    string
	Desc    string
	Args    []Arg
	Returns Return
}

// MakeMethod builds a method from its name, argument type strings and return
// type string. An empty return type means void.
func MakeMethod(name string, argTypes []string, returnType string) (Method, error) {
	if err := checkMethodName(name); err != nil {
		return Method{}, err
	}
	if returnType == "" {
		returnType = VoidReturnType
	}
	args := make([]Arg, len(argTypes))
	for i, argType := range argTypes {
		if argType == "" {
			return Method{}, makeValidationError("method '%s' argument %d is empty", name, i)
		}
		args[i] = Arg{Type: argType, Category: CategorizeArg(argType)}
	}
	m := Method{Name: name, Args: args, Returns: Return{Type: returnType}}
	if strings.IndexFunc(m.Signature(), unicode.IsSpace) >= 0 {
		return Method{}, makeValidationError("method signature cannot contain whitespace: %s", m.Signature())
	}
	if !m.Returns.IsVoid() {
		if _, err := TypeOf(returnType); err != nil {
			return Method{}, makeValidationError("method '%s' has an invalid return type: %v", name, err)
		}
	}
	return m, nil
}

// checkMethodName rejects names that would make the signature ambiguous.
func checkMethodName(name string) error {
	if name == "" {
		return makeValidationError("method name cannot be empty")
	}
	if i := strings.IndexAny(name, "(),[]"); i >= 0 {
		return makeValidationError("method name '%s' cannot contain '%c'", name, name[i])
	}
	return nil
}

// MethodFromSignature parses a method signature of the form
// `name(arg1,arg2,...)returnType`. An omitted return type means void.
func MethodFromSignature(signature string) (Method, error) {
	if strings.IndexFunc(signature, unicode.IsSpace) >= 0 {
		return Method{}, makeValidationError("method signature cannot contain whitespace: %s", signature)
	}
	openParen := strings.IndexByte(signature, '(')
	if openParen < 0 {
		return Method{}, makeValidationError("method signature must contain an opening parenthesis: %s", signature)
	}
	if openParen == 0 {
		return Method{}, makeValidationError("method name cannot be empty: %s", signature)
	}
	closeParen, err := matchingParen(signature, openParen)
	if err != nil {
		return Method{}, err
	}

	argTypes, err := splitArgs(signature[openParen+1 : closeParen])
	if err != nil {
		return Method{}, err
	}
	return MakeMethod(signature[:openParen], argTypes, signature[closeParen+1:])
}

// matchingParen returns the index of the parenthesis closing the one at open.
func matchingParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, makeValidationError("mismatched parentheses in method signature: %s", s)
}

// splitArgs splits the content between the outer parentheses of a signature
// on the commas that are not nested inside a tuple type.
func splitArgs(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	args := make([]string, 0)
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, makeValidationError("mismatched parentheses in method arguments: %s", s)
			}
		case ',':
			if depth == 0 {
				if i == start {
					return nil, makeValidationError("empty argument in method arguments: %s", s)
				}
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, makeValidationError("mismatched parentheses in method arguments: %s", s)
	}
	if start == len(s) {
		return nil, makeValidationError("empty argument in method arguments: %s", s)
	}
	return append(args, s[start:]), nil
}

// Signature returns the method signature, e.g. "add(uint64,uint64)uint128".
func (m Method) Signature() string {
	argTypes := make([]string, len(m.Args))
	for i, arg := range m.Args {
		argTypes[i] = arg.Type
	}
	returnType := m.Returns.Type
	if returnType == "" {
		returnType = VoidReturnType
	}
	return m.Name + "(" + strings.Join(argTypes, ",") + ")" + returnType
}

// Selector returns the first 4 bytes of the SHA-512/256 hash of the signature.
func (m Method) Selector() [4]byte {
	return selector(m.Signature())
}

// TxnCount returns the number of transactions the call uses: the application
// call itself plus one per transaction argument.
func (m Method) TxnCount() int {
	return 1 + m.countArgs(TransactionArg)
}

// ValueArgCount returns the number of value arguments.
func (m Method) ValueArgCount() int {
	return m.countArgs(ValueArg)
}

// TransactionArgCount returns the number of transaction arguments.
func (m Method) TransactionArgCount() int {
	return m.countArgs(TransactionArg)
}

// ReferenceArgCount returns the number of reference arguments.
func (m Method) ReferenceArgCount() int {
	return m.countArgs(ReferenceArg)
}

func (m Method) countArgs(category ArgCategory) int {
	count := 0
	for _, arg := range m.Args {
		if arg.Category == category {
			count++
		}
	}
	return count
}

// MethodSelector hashes a raw method signature into its 4 byte selector.
func MethodSelector(signature string) ([4]byte, error) {
	if strings.IndexFunc(signature, unicode.IsSpace) >= 0 {
		return [4]byte{}, makeValidationError("method signature cannot contain whitespace: %s", signature)
	}
	return selector(signature), nil
}

func selector(signature string) [4]byte {
	digest := sha512.Sum512_256([]byte(signature))
	var sel [4]byte
	copy(sel[:], digest[:4])
	return sel
}

// GetMethodByName returns the only method with the given name. Zero or several
// matches are a ValidationError.
func GetMethodByName(methods []Method, name string) (Method, error) {
	var matches []Method
	for _, m := range methods {
		if m.Name == name {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return Method{}, makeValidationError("found 0 methods with the name %s", name)
	case 1:
		return matches[0], nil
	default:
		signatures := make([]string, len(matches))
		for i, m := range matches {
			signatures[i] = m.Signature()
		}
		return Method{}, makeValidationError("found %d methods with the same name %s: %s",
			len(matches), name, strings.Join(signatures, ","))
	}
}
