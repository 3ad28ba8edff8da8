package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algorand/abicodec/contract"
	"github.com/algorand/abicodec/version"
)

const calculatorJSON = `{
  "name": "Calculator",
  "methods": [
    {"name": "add", "args": [{"type": "uint64", "name": "a"}, {"type": "uint64", "name": "b"}], "returns": {"type": "uint64"}},
    {"name": "add", "args": [{"type": "uint64"}, {"type": "uint64"}], "returns": {"type": "uint128"}},
    {"name": "norm", "desc": "Length of a point", "args": [{"type": "(uint64,uint64)", "name": "p", "struct": "Point"}], "returns": {"type": "uint64"}},
    {"name": "optIn", "args": [], "returns": {"type": "void"}}
  ],
  "structs": {
    "Point": [{"name": "x", "type": "uint64"}, {"name": "y", "type": "uint64"}]
  }
}`

func makeTestEcho(t *testing.T, withContract bool, options ExtraOptions) *echo.Echo {
	var c *contract.Contract
	if withContract {
		var err error
		c, err = contract.Parse([]byte(calculatorJSON), contract.JSONFormat)
		require.NoError(t, err)
	}
	logger, _ := test.NewNullLogger()
	return MakeEcho(c, logger, options)
}

func do(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	e := makeTestEcho(t, true, ExtraOptions{})
	rec := do(e, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var response HealthCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, version.Version(), response.Version)
	assert.Equal(t, "Calculator", response.Contract)
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "uint64",
			body:     `{"type": "uint64", "value": 42}`,
			expected: `{"type":"uint64","encoded":"AAAAAAAAACo=","hex":"000000000000002a"}`,
		},
		{
			name:     "dynamic tuple",
			body:     `{"type": "(uint32,string)", "value": [7, "hello"]}`,
			expected: `{"type":"(uint32,string)","encoded":"AAAABwAGAAVoZWxsbw==","hex":"000000070006000568656c6c6f"}`,
		},
		{
			name:     "contract struct",
			body:     `{"type": "Point", "value": {"x": 1, "y": 2}}`,
			expected: `{"type":"(uint64,uint64)","encoded":"AAAAAAAAAAEAAAAAAAAAAg==","hex":"00000000000000010000000000000002"}`,
		},
		{
			name:     "big integer as string",
			body:     `{"type": "uint128", "value": "18446744073709551616"}`,
			expected: `{"type":"uint128","encoded":"AAAAAAAAAAEAAAAAAAAAAA==","hex":"00000000000000010000000000000000"}`,
		},
	}

	e := makeTestEcho(t, true, ExtraOptions{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/v1/encode", tc.body, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, tc.expected, rec.Body.String())
		})
	}
}

func TestEncodeValueErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{"invalid json", `{"type": "uint8"`, errUnableToParseRequest},
		{"unknown field", `{"type": "uint8", "value": 1, "extra": true}`, errUnableToParseRequest},
		{"bad type", `{"type": "uint7", "value": 1}`, errUnableToParseType},
		{"unknown struct", `{"type": "Polygon", "value": 1}`, errUnableToParseType},
		{"wrong json kind", `{"type": "bool", "value": 1}`, errUnableToParseValue},
		{"missing struct field", `{"type": "Point", "value": {"x": 1}}`, errUnableToParseValue},
		{"overflow", `{"type": "uint8", "value": 256}`, errFailedEncoding},
	}

	e := makeTestEcho(t, true, ExtraOptions{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/v1/encode", tc.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Contains(t, response.Message, tc.errMsg)
		})
	}
}

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "hex tuple",
			body:     `{"type": "(uint32,string)", "hex": "000000070006000568656c6c6f"}`,
			expected: `{"type":"(uint32,string)","value":[7,"hello"]}`,
		},
		{
			name:     "base64 struct",
			body:     `{"type": "Point", "encoded": "AAAAAAAAAAEAAAAAAAAAAg=="}`,
			expected: `{"type":"(uint64,uint64)","value":{"x":1,"y":2}}`,
		},
		{
			name:     "false is kept",
			body:     `{"type": "bool", "hex": "00"}`,
			expected: `{"type":"bool","value":false}`,
		},
		{
			name:     "unsafe integer as string",
			body:     `{"type": "uint128", "encoded": "AAAAAAAAAAEAAAAAAAAAAA=="}`,
			expected: `{"type":"uint128","value":"18446744073709551616"}`,
		},
	}

	e := makeTestEcho(t, true, ExtraOptions{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/v1/decode", tc.body, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, tc.expected, rec.Body.String())
		})
	}
}

func TestDecodeValueErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{"no input", `{"type": "uint8"}`, errMissingEncodedInput},
		{"both inputs", `{"type": "uint8", "hex": "01", "encoded": "AQ=="}`, errAmbiguousEncodedInput},
		{"bad hex", `{"type": "uint8", "hex": "zz"}`, errUnableToParseHex},
		{"bad base64", `{"type": "uint8", "encoded": "!!"}`, errUnableToParseBase64},
		{"bad type", `{"type": "ufixed8", "hex": "01"}`, errUnableToParseType},
		{"non canonical bool", `{"type": "bool", "hex": "02"}`, errFailedDecoding},
		{"trailing bytes", `{"type": "uint8", "hex": "0102"}`, errFailedDecoding},
	}

	e := makeTestEcho(t, false, ExtraOptions{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/v1/decode", tc.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Contains(t, response.Message, tc.errMsg)
		})
	}
}

func TestDecodeBatch(t *testing.T) {
	e := makeTestEcho(t, false, ExtraOptions{BatchWorkers: 2})
	rec := do(e, http.MethodPost, "/v1/decode/batch", `{"type": "uint16", "encoded": ["AAE=", "AP8=", "AQ=="]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response BatchDecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "uint16", response.Type)
	require.Len(t, response.Results, 3)
	assert.Equal(t, float64(1), response.Results[0].Value)
	assert.Empty(t, response.Results[0].Error)
	assert.Equal(t, float64(255), response.Results[1].Value)
	assert.Nil(t, response.Results[2].Value)
	assert.Contains(t, response.Results[2].Error, "abi decoding error")
}

func TestDecodeBatchErrors(t *testing.T) {
	e := makeTestEcho(t, false, ExtraOptions{})

	rec := do(e, http.MethodPost, "/v1/decode/batch", `{"type": "uint16", "encoded": ["AAE=", "!"]}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "input 1")

	encoded := make([]string, maxBatchSize+1)
	for i := range encoded {
		encoded[i] = "AAE="
	}
	body, err := json.Marshal(BatchDecodeRequest{Type: "uint16", Encoded: encoded})
	require.NoError(t, err)
	rec = do(e, http.MethodPost, "/v1/decode/batch", string(body), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), errBatchTooLarge)

	rec = do(e, http.MethodPost, "/v1/decode/batch", `{"type": "uint16", "encoded": []}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type":"uint16","results":[]}`, rec.Body.String())
}

func TestDescribeType(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{"(uint64,bool)", `{"type":"(uint64,bool)","dynamic":false,"byte-len":9}`},
		{"string", `{"type":"string","dynamic":true}`},
		{"Point[2]", `{"type":"(uint64,uint64)[2]","dynamic":false,"byte-len":32}`},
		{"bool[9]", `{"type":"bool[9]","dynamic":false,"byte-len":2}`},
	}

	e := makeTestEcho(t, true, ExtraOptions{})
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			rec := do(e, http.MethodGet, "/v1/type?type="+url.QueryEscape(tc.query), "", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, tc.expected, rec.Body.String())
		})
	}

	rec := do(e, http.MethodGet, "/v1/type?type=uint0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLookupMethod(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		signature string
		selector  string
		txnCount  int
	}{
		{"signature", "signature=" + url.QueryEscape("add(uint64,uint64)uint128"), "add(uint64,uint64)uint128", "8aa3b61f", 1},
		{"signature with transactions", "signature=" + url.QueryEscape("transfer(pay,account,uint64)void"), "transfer(pay,account,uint64)void", "40ffa997", 2},
		{"name", "name=optIn", "optIn()void", "29314d95", 1},
		{"selector", "selector=fe6bdf69", "add(uint64,uint64)uint64", "fe6bdf69", 1},
	}

	e := makeTestEcho(t, true, ExtraOptions{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, http.MethodGet, "/v1/method?"+tc.query, "", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var response MethodResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, tc.signature, response.Signature)
			assert.Equal(t, tc.selector, response.Selector)
			assert.Equal(t, tc.txnCount, response.TxnCount)
		})
	}

	rec := do(e, http.MethodGet, "/v1/method?signature="+url.QueryEscape("transfer(pay,account,uint64)void"), "", nil)
	var response MethodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Args, 3)
	assert.Equal(t, "transaction", response.Args[0].Category)
	assert.Equal(t, "reference", response.Args[1].Category)
	assert.Equal(t, "value", response.Args[2].Category)
	assert.Equal(t, "void", response.Returns.Type)

	rec = do(e, http.MethodGet, "/v1/method?name=norm", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Length of a point", response.Desc)
	assert.Equal(t, "p", response.Args[0].Name)
}

func TestLookupMethodErrors(t *testing.T) {
	tests := []struct {
		name         string
		withContract bool
		query        string
		code         int
		errMsg       string
	}{
		{"no query", true, "", http.StatusBadRequest, errMissingMethodQuery},
		{"two queries", true, "name=add&selector=fe6bdf69", http.StatusBadRequest, errAmbiguousMethodQuery},
		{"bad signature", true, "signature=add", http.StatusBadRequest, errInvalidMethod},
		{"name without contract", false, "name=add", http.StatusBadRequest, errNoContract},
		{"unknown name", true, "name=sub", http.StatusNotFound, "found 0 methods"},
		{"ambiguous name", true, "name=add", http.StatusNotFound, "found 2 methods"},
		{"short selector", true, "selector=fe6b", http.StatusBadRequest, errUnableToParseSelector},
		{"unknown selector", true, "selector=01020304", http.StatusNotFound, "01020304"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := makeTestEcho(t, tc.withContract, ExtraOptions{})
			rec := do(e, http.MethodGet, "/v1/method?"+tc.query, "", nil)
			require.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.errMsg)
		})
	}
}

func TestListMethods(t *testing.T) {
	e := makeTestEcho(t, true, ExtraOptions{})
	rec := do(e, http.MethodGet, "/v1/methods", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var response MethodsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Calculator", response.Contract)
	require.Len(t, response.Methods, 4)
	assert.Equal(t, "fe6bdf69", response.Methods[0].Selector)
	assert.Equal(t, "8aa3b61f", response.Methods[1].Selector)
	assert.Equal(t, "29314d95", response.Methods[3].Selector)

	e = makeTestEcho(t, false, ExtraOptions{})
	rec = do(e, http.MethodGet, "/v1/methods", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokens(t *testing.T) {
	e := makeTestEcho(t, false, ExtraOptions{Tokens: []string{"first", "second"}})
	body := `{"type": "bool", "value": true}`

	rec := do(e, http.MethodPost, "/v1/encode", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/v1/encode", body, map[string]string{TokenHeader: "third"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/v1/encode", body, map[string]string{TokenHeader: "second"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// the health check is open
	rec = do(e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	e := makeTestEcho(t, false, ExtraOptions{MetricsEndpoint: true})
	rec := do(e, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "abicodec_requests_total")
}
