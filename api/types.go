package api

// ErrorResponse is returned with every non 200 status.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthCheckResponse is returned by the health endpoint.
type HealthCheckResponse struct {
	Version  string `json:"version"`
	Contract string `json:"contract,omitempty"`
}

// TypeResponse describes a parsed type.
type TypeResponse struct {
	Type    string `json:"type"`
	Dynamic bool   `json:"dynamic"`
	// ByteLen is only set for static types.
	ByteLen *int `json:"byte-len,omitempty"`
}

// EncodeRequest is the body of an encode call. Value is the JSON form of a
// value of Type.
type EncodeRequest struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// EncodeResponse carries the encoding both as base64 and hex.
type EncodeResponse struct {
	Type    string `json:"type"`
	Encoded string `json:"encoded"`
	Hex     string `json:"hex"`
}

// DecodeRequest is the body of a decode call. Exactly one of Encoded (base64)
// and Hex must be set.
type DecodeRequest struct {
	Type    string `json:"type"`
	Encoded string `json:"encoded,omitempty"`
	Hex     string `json:"hex,omitempty"`
}

// DecodeResponse carries the JSON form of the decoded value.
type DecodeResponse struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// BatchDecodeRequest decodes several base64 encodings of the same type.
type BatchDecodeRequest struct {
	Type    string   `json:"type"`
	Encoded []string `json:"encoded"`
}

// BatchDecodeResult is the outcome for one input. Error is empty on success.
type BatchDecodeResult struct {
	Value interface{} `json:"value"`
	Error string      `json:"error,omitempty"`
}

// BatchDecodeResponse lists results in input order.
type BatchDecodeResponse struct {
	Type    string              `json:"type"`
	Results []BatchDecodeResult `json:"results"`
}

// MethodArg describes a method argument.
type MethodArg struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Name     string `json:"name,omitempty"`
	Desc     string `json:"desc,omitempty"`
}

// MethodReturn describes a method return value.
type MethodReturn struct {
	Type string `json:"type"`
	Desc string `json:"desc,omitempty"`
}

// MethodResponse describes a method.
type MethodResponse struct {
	Name      string       `json:"name"`
	Desc      string       `json:"desc,omitempty"`
	Signature string       `json:"signature"`
	Selector  string       `json:"selector"`
	TxnCount  int          `json:"txn-count"`
	Args      []MethodArg  `json:"args"`
	Returns   MethodReturn `json:"returns"`
}

// MethodsResponse lists the methods of the loaded contract.
type MethodsResponse struct {
	Contract string           `json:"contract"`
	Methods  []MethodResponse `json:"methods"`
}
