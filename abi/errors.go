package abi

import "fmt"

// ValidationError is returned when a type string, type definition, struct value
// or method signature is malformed.
type ValidationError struct {
	msg string
}

func makeValidationError(format string, args ...interface{}) ValidationError {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e ValidationError) Error() string {
	return "abi validation error: " + e.msg
}

// EncodingError is returned when a value cannot be encoded with a type.
type EncodingError struct {
	msg string
}

func makeEncodingError(format string, args ...interface{}) EncodingError {
	return EncodingError{msg: fmt.Sprintf(format, args...)}
}

func (e EncodingError) Error() string {
	return "abi encoding error: " + e.msg
}

// DecodingError is returned when a byte string is not a valid encoding of a type.
type DecodingError struct {
	msg string
}

func makeDecodingError(format string, args ...interface{}) DecodingError {
	return DecodingError{msg: fmt.Sprintf(format, args...)}
}

func (e DecodingError) Error() string {
	return "abi decoding error: " + e.msg
}
