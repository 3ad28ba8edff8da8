package api

const (
	errUnableToParseRequest  = "unable to parse request body"
	errUnableToParseType     = "unable to parse abi type"
	errUnableToParseValue    = "unable to convert value"
	errUnableToParseBase64   = "unable to parse base64 data"
	errUnableToParseHex      = "unable to parse hex data"
	errUnableToParseSelector = "unable to parse selector"
	errFailedEncoding        = "failed to encode value"
	errFailedDecoding        = "failed to decode value"
	errMissingEncodedInput   = "one of encoded or hex is required"
	errAmbiguousEncodedInput = "only one of encoded or hex may be provided"
	errMissingMethodQuery    = "one of signature, name or selector is required"
	errAmbiguousMethodQuery  = "only one of signature, name or selector may be provided"
	errInvalidMethod         = "invalid method signature"
	errNoContract            = "no contract is loaded"
	errMethodNotFound        = "method not found"
	errBatchTooLarge         = "too many inputs in batch"
	errBatchFailed           = "failed to decode batch"
)
