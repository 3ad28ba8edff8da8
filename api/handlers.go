package api

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/algorand/abicodec/abi"
	"github.com/algorand/abicodec/batch"
	"github.com/algorand/abicodec/contract"
	"github.com/algorand/abicodec/encoding"
	"github.com/algorand/abicodec/util/metrics"
	"github.com/algorand/abicodec/version"
)

// ServerImplementation implements the codec endpoints.
type ServerImplementation struct {
	// contract is optional. When set, its struct names may be used as types
	// and its methods can be looked up by name or selector.
	contract *contract.Contract

	types *typeCache

	batchWorkers int

	timeout time.Duration

	log *log.Logger
}

/////////////////////
// Limit Constants //
/////////////////////

// maxRequestBytes bounds request bodies.
const maxRequestBytes = 1 << 20

// maxBatchSize bounds the number of inputs of a batch decode.
const maxBatchSize = 1000

// MakeServerImplementation builds the handlers. c may be nil.
func MakeServerImplementation(c *contract.Contract, log *log.Logger, options ExtraOptions) *ServerImplementation {
	resolve := abi.TypeOf
	if c != nil {
		resolve = c.ResolveType
	}
	return &ServerImplementation{
		contract:     c,
		types:        makeTypeCache(options.TypeCacheSize, resolve),
		batchWorkers: options.BatchWorkers,
		timeout:      options.HandlerTimeout,
		log:          log,
	}
}

// RegisterHandlers adds the codec routes to the router. The middleware is
// applied to every route except the health check.
func RegisterHandlers(router *echo.Echo, si *ServerImplementation, m ...echo.MiddlewareFunc) {
	router.GET("/health", si.MakeHealthCheck)
	router.GET("/v1/type", si.DescribeType, m...)
	router.POST("/v1/encode", si.EncodeValue, m...)
	router.POST("/v1/decode", si.DecodeValue, m...)
	router.POST("/v1/decode/batch", si.DecodeBatch, m...)
	router.GET("/v1/method", si.LookupMethod, m...)
	router.GET("/v1/methods", si.ListMethods, m...)
}

////////////////////////////
// Handler implementation //
////////////////////////////

// MakeHealthCheck returns the version and the loaded contract.
// (GET /health)
func (si *ServerImplementation) MakeHealthCheck(ctx echo.Context) error {
	response := HealthCheckResponse{Version: version.Version()}
	if si.contract != nil {
		response.Contract = si.contract.Name
	}
	return writeJSON(ctx, http.StatusOK, response)
}

// DescribeType returns the canonical form and size of a type.
// (GET /v1/type)
func (si *ServerImplementation) DescribeType(ctx echo.Context) error {
	typ, err := si.types.get(ctx.QueryParam("type"))
	if err != nil {
		return badRequest(ctx, fmt.Sprintf("%s: %v", errUnableToParseType, err))
	}
	response := TypeResponse{
		Type:    typ.String(),
		Dynamic: typ.IsDynamic(),
	}
	if !response.Dynamic {
		byteLen, err := typ.ByteLen()
		if err != nil {
			return badRequest(ctx, fmt.Sprintf("%s: %v", errUnableToParseType, err))
		}
		response.ByteLen = &byteLen
	}
	return writeJSON(ctx, http.StatusOK, response)
}

// EncodeValue encodes the JSON form of a value.
// (POST /v1/encode)
func (si *ServerImplementation) EncodeValue(ctx echo.Context) error {
	start := time.Now()
	metrics.CodecRequests.WithLabelValues(metrics.EncodeOperation).Inc()

	var request EncodeRequest
	if err := readRequest(ctx, &request); err != nil {
		return codecError(ctx, metrics.EncodeOperation, fmt.Sprintf("%s: %v", errUnableToParseRequest, err))
	}
	typ, err := si.types.get(request.Type)
	if err != nil {
		return codecError(ctx, metrics.EncodeOperation, fmt.Sprintf("%s: %v", errUnableToParseType, err))
	}
	value, err := encoding.ValueFromJSON(typ, request.Value)
	if err != nil {
		return codecError(ctx, metrics.EncodeOperation, fmt.Sprintf("%s: %v", errUnableToParseValue, err))
	}
	encoded, err := typ.Encode(value)
	if err != nil {
		return codecError(ctx, metrics.EncodeOperation, fmt.Sprintf("%s: %v", errFailedEncoding, err))
	}

	metrics.EncodeTimeSeconds.Observe(time.Since(start).Seconds())
	metrics.EncodedBytes.Observe(float64(len(encoded)))
	return writeJSON(ctx, http.StatusOK, EncodeResponse{
		Type:    typ.String(),
		Encoded: base64.StdEncoding.EncodeToString(encoded),
		Hex:     hex.EncodeToString(encoded),
	})
}

// DecodeValue decodes a base64 or hex encoding into its JSON form.
// (POST /v1/decode)
func (si *ServerImplementation) DecodeValue(ctx echo.Context) error {
	start := time.Now()
	metrics.CodecRequests.WithLabelValues(metrics.DecodeOperation).Inc()

	var request DecodeRequest
	if err := readRequest(ctx, &request); err != nil {
		return codecError(ctx, metrics.DecodeOperation, fmt.Sprintf("%s: %v", errUnableToParseRequest, err))
	}
	encoded, errMsg := decodeInput(request)
	if errMsg != "" {
		return codecError(ctx, metrics.DecodeOperation, errMsg)
	}
	typ, err := si.types.get(request.Type)
	if err != nil {
		return codecError(ctx, metrics.DecodeOperation, fmt.Sprintf("%s: %v", errUnableToParseType, err))
	}
	value, err := typ.Decode(encoded)
	if err != nil {
		return codecError(ctx, metrics.DecodeOperation, fmt.Sprintf("%s: %v", errFailedDecoding, err))
	}
	obj, err := encoding.ValueToJSON(typ, value)
	if err != nil {
		return codecError(ctx, metrics.DecodeOperation, fmt.Sprintf("%s: %v", errFailedDecoding, err))
	}

	metrics.DecodeTimeSeconds.Observe(time.Since(start).Seconds())
	metrics.EncodedBytes.Observe(float64(len(encoded)))
	return writeJSON(ctx, http.StatusOK, DecodeResponse{
		Type:  typ.String(),
		Value: obj,
	})
}

// DecodeBatch decodes many base64 encodings of one type. A failing input is
// reported in its result and does not fail the request.
// (POST /v1/decode/batch)
func (si *ServerImplementation) DecodeBatch(ctx echo.Context) error {
	start := time.Now()
	metrics.CodecRequests.WithLabelValues(metrics.DecodeOperation).Inc()

	var request BatchDecodeRequest
	if err := readRequest(ctx, &request); err != nil {
		return codecError(ctx, metrics.DecodeOperation, fmt.Sprintf("%s: %v", errUnableToParseRequest, err))
	}
	if len(request.Encoded) > maxBatchSize {
		return codecError(ctx, metrics.DecodeOperation, fmt.Sprintf("%s: %d > %d", errBatchTooLarge, len(request.Encoded), maxBatchSize))
	}
	typ, err := si.types.get(request.Type)
	if err != nil {
		return codecError(ctx, metrics.DecodeOperation, fmt.Sprintf("%s: %v", errUnableToParseType, err))
	}
	inputs := make([][]byte, len(request.Encoded))
	for i, s := range request.Encoded {
		inputs[i], err = base64.StdEncoding.DecodeString(s)
		if err != nil {
			return codecError(ctx, metrics.DecodeOperation, fmt.Sprintf("%s: input %d: %v", errUnableToParseBase64, i, err))
		}
	}

	var decoded []batch.Result
	err = callWithTimeout(ctx.Request().Context(), si.log, si.timeout, func(ctx context.Context) error {
		decoded = batch.DecodeAll(ctx, typ, inputs, si.batchWorkers)
		return ctx.Err()
	})
	if err != nil {
		metrics.CodecErrors.WithLabelValues(metrics.DecodeOperation).Inc()
		return handlerError(ctx, fmt.Errorf("%s: %w", errBatchFailed, err))
	}

	results := make([]BatchDecodeResult, len(decoded))
	for i, result := range decoded {
		if result.Err == nil {
			results[i].Value, result.Err = encoding.ValueToJSON(typ, result.Value)
		}
		if result.Err != nil {
			metrics.CodecErrors.WithLabelValues(metrics.DecodeOperation).Inc()
			results[i] = BatchDecodeResult{Error: result.Err.Error()}
		}
	}

	metrics.DecodeTimeSeconds.Observe(time.Since(start).Seconds())
	return writeJSON(ctx, http.StatusOK, BatchDecodeResponse{
		Type:    typ.String(),
		Results: results,
	})
}

// LookupMethod describes a method given by signature, or by name or hex
// selector within the loaded contract.
// (GET /v1/method)
func (si *ServerImplementation) LookupMethod(ctx echo.Context) error {
	metrics.CodecRequests.WithLabelValues(metrics.MethodOperation).Inc()

	signature := ctx.QueryParam("signature")
	name := ctx.QueryParam("name")
	selector := ctx.QueryParam("selector")

	provided := 0
	for _, param := range []string{signature, name, selector} {
		if param != "" {
			provided++
		}
	}
	switch {
	case provided == 0:
		return codecError(ctx, metrics.MethodOperation, errMissingMethodQuery)
	case provided > 1:
		return codecError(ctx, metrics.MethodOperation, errAmbiguousMethodQuery)
	case signature != "":
		m, err := abi.MethodFromSignature(signature)
		if err != nil {
			return codecError(ctx, metrics.MethodOperation, fmt.Sprintf("%s: %v", errInvalidMethod, err))
		}
		return writeJSON(ctx, http.StatusOK, DescribeMethod(m))
	case si.contract == nil:
		return codecError(ctx, metrics.MethodOperation, errNoContract)
	case name != "":
		m, err := si.contract.GetMethodByName(name)
		if err != nil {
			return notFound(ctx, fmt.Sprintf("%s: %v", errMethodNotFound, err))
		}
		return writeJSON(ctx, http.StatusOK, DescribeMethod(m))
	default:
		var sel [4]byte
		decoded, err := hex.DecodeString(selector)
		if err != nil || len(decoded) != len(sel) {
			return codecError(ctx, metrics.MethodOperation, fmt.Sprintf("%s: '%s' is not 4 hex encoded bytes", errUnableToParseSelector, selector))
		}
		copy(sel[:], decoded)
		m, err := si.contract.GetMethodBySelector(sel)
		if err != nil {
			return notFound(ctx, fmt.Sprintf("%s: %v", errMethodNotFound, err))
		}
		return writeJSON(ctx, http.StatusOK, DescribeMethod(m))
	}
}

// ListMethods describes every method of the loaded contract.
// (GET /v1/methods)
func (si *ServerImplementation) ListMethods(ctx echo.Context) error {
	metrics.CodecRequests.WithLabelValues(metrics.MethodOperation).Inc()
	if si.contract == nil {
		return codecError(ctx, metrics.MethodOperation, errNoContract)
	}
	methods, err := si.contract.ABIMethods()
	if err != nil {
		return handlerError(ctx, err)
	}
	response := MethodsResponse{
		Contract: si.contract.Name,
		Methods:  make([]MethodResponse, len(methods)),
	}
	for i, m := range methods {
		response.Methods[i] = DescribeMethod(m)
	}
	return writeJSON(ctx, http.StatusOK, response)
}

/////////////
// Helpers //
/////////////

// DescribeMethod renders a method with its signature, hex selector and
// transaction count.
func DescribeMethod(m abi.Method) MethodResponse {
	sel := m.Selector()
	args := make([]MethodArg, len(m.Args))
	for i, arg := range m.Args {
		args[i] = MethodArg{
			Type:     arg.Type,
			Category: arg.Category.String(),
			Name:     arg.Name,
			Desc:     arg.Desc,
		}
	}
	return MethodResponse{
		Name:      m.Name,
		Desc:      m.Desc,
		Signature: m.Signature(),
		Selector:  hex.EncodeToString(sel[:]),
		TxnCount:  m.TxnCount(),
		Args:      args,
		Returns: MethodReturn{
			Type: m.Returns.Type,
			Desc: m.Returns.Desc,
		},
	}
}

// decodeInput returns the raw bytes of a decode request, or an error message.
func decodeInput(request DecodeRequest) ([]byte, string) {
	switch {
	case request.Encoded == "" && request.Hex == "":
		return nil, errMissingEncodedInput
	case request.Encoded != "" && request.Hex != "":
		return nil, errAmbiguousEncodedInput
	case request.Hex != "":
		encoded, err := hex.DecodeString(request.Hex)
		if err != nil {
			return nil, fmt.Sprintf("%s: %v", errUnableToParseHex, err)
		}
		return encoded, ""
	default:
		encoded, err := base64.StdEncoding.DecodeString(request.Encoded)
		if err != nil {
			return nil, fmt.Sprintf("%s: %v", errUnableToParseBase64, err)
		}
		return encoded, ""
	}
}

// readRequest decodes the JSON request body. Integers keep full precision.
func readRequest(ctx echo.Context, obj interface{}) error {
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxRequestBytes))
	if err != nil {
		return err
	}
	return encoding.DecodeJSON(body, obj)
}

func writeJSON(ctx echo.Context, code int, obj interface{}) error {
	data, err := encoding.EncodeJSON(obj)
	if err != nil {
		return err
	}
	return ctx.JSONBlob(code, data)
}

// return a 400 and count it against the operation
func codecError(ctx echo.Context, operation string, err string) error {
	metrics.CodecErrors.WithLabelValues(operation).Inc()
	return badRequest(ctx, err)
}

// return a 400
func badRequest(ctx echo.Context, err string) error {
	return writeJSON(ctx, http.StatusBadRequest, ErrorResponse{
		Message: err,
	})
}

// return a 404
func notFound(ctx echo.Context, err string) error {
	return writeJSON(ctx, http.StatusNotFound, ErrorResponse{
		Message: err,
	})
}

// return a 503
func timeoutError(ctx echo.Context, err string) error {
	return writeJSON(ctx, http.StatusServiceUnavailable, ErrorResponse{
		Message: err,
	})
}

// return a 500, or 503 if it is a timeout error
func handlerError(ctx echo.Context, err error) error {
	if isTimeoutError(err) {
		return timeoutError(ctx, err.Error())
	}

	return writeJSON(ctx, http.StatusInternalServerError, ErrorResponse{
		Message: err.Error(),
	})
}
