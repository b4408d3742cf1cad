package client

import (
	"errors"
	"fmt"
)

// RequestErrorKind classifies failures while assembling a request.
type RequestErrorKind int

const (
	// ConfigurationInvalid indicates the server configuration is unusable.
	ConfigurationInvalid RequestErrorKind = iota
	// AuthenticationMissing indicates the auth mode requires a credential
	// and none is configured.
	AuthenticationMissing
	// URLAssemblyFailed indicates the merged URL components do not form a
	// valid URL.
	URLAssemblyFailed
	// BodyEncodingFailed indicates body serialization failed.
	BodyEncodingFailed
	// InvalidRequest indicates a jointly inconsistent request, such as a
	// body without a content type or a conflicting preset Content-Type.
	InvalidRequest
)

// String returns the kind name.
func (k RequestErrorKind) String() string {
	switch k {
	case ConfigurationInvalid:
		return "configuration_invalid"
	case AuthenticationMissing:
		return "authentication_missing"
	case URLAssemblyFailed:
		return "url_assembly_failed"
	case BodyEncodingFailed:
		return "body_encoding_failed"
	case InvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// RequestError is a failure produced before the request reaches the
// transport. It signals a caller or configuration defect: the retry
// coordinator never retries it on its own.
type RequestError struct {
	// Kind classifies the failure.
	Kind RequestErrorKind
	// Message describes the failure.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("restkit: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

func newConfigurationError(err error) *RequestError {
	return &RequestError{Kind: ConfigurationInvalid, Message: err.Error(), Err: err}
}

func newAuthenticationMissingError(mode string) *RequestError {
	return &RequestError{
		Kind:    AuthenticationMissing,
		Message: fmt.Sprintf("auth mode %q requires a credential", mode),
	}
}

func newURLAssemblyError(err error) *RequestError {
	return &RequestError{Kind: URLAssemblyFailed, Message: err.Error(), Err: err}
}

func newBodyEncodingError(err error) *RequestError {
	return &RequestError{Kind: BodyEncodingFailed, Message: err.Error(), Err: err}
}

func newInvalidRequestError(msg string) *RequestError {
	return &RequestError{Kind: InvalidRequest, Message: msg}
}

// IsRequestError checks whether err is a RequestError of the given kind.
func IsRequestError(err error, kind RequestErrorKind) bool {
	var e *RequestError
	return errors.As(err, &e) && e.Kind == kind
}

// ResponseErrorKind classifies failures while resolving a response.
type ResponseErrorKind int

const (
	// UnknownResponseKind indicates a response without a status code.
	UnknownResponseKind ResponseErrorKind = iota
	// UnknownOutcomeForStatus indicates no outcome covers the status code.
	UnknownOutcomeForStatus
	// DecodeFailure indicates the body could not be decoded into the
	// declared target (or the declared error shape).
	DecodeFailure
	// PredefinedError indicates the outcome table mapped the status to a
	// predefined error value.
	PredefinedError
	// DecodedStructuredError indicates the body was decoded into the
	// declared error shape.
	DecodedStructuredError
)

// String returns the kind name.
func (k ResponseErrorKind) String() string {
	switch k {
	case UnknownResponseKind:
		return "unknown_response_kind"
	case UnknownOutcomeForStatus:
		return "unknown_outcome_for_status"
	case DecodeFailure:
		return "decode_failure"
	case PredefinedError:
		return "predefined_error"
	case DecodedStructuredError:
		return "decoded_structured_error"
	default:
		return "unknown"
	}
}

// ResponseError is a failure produced while resolving a response. Every
// variant retains the raw envelope for later inspection.
type ResponseError struct {
	// Kind classifies the failure.
	Kind ResponseErrorKind
	// Envelope is the raw response that produced the failure.
	Envelope *Envelope
	// Wrapped is the predefined error value (PredefinedError).
	Wrapped error
	// Value is the decoded structured error value (DecodedStructuredError).
	Value any
	// Diag carries decode diagnostics (DecodeFailure).
	Diag error
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if code, ok := e.StatusCode(); ok {
		switch e.Kind {
		case PredefinedError:
			return fmt.Sprintf("restkit: %s (HTTP %d): %v", e.Kind, code, e.Wrapped)
		case DecodedStructuredError:
			return fmt.Sprintf("restkit: %s (HTTP %d): %v", e.Kind, code, e.Value)
		case DecodeFailure:
			return fmt.Sprintf("restkit: %s (HTTP %d): %v", e.Kind, code, e.Diag)
		default:
			return fmt.Sprintf("restkit: %s (HTTP %d)", e.Kind, code)
		}
	}
	return fmt.Sprintf("restkit: %s", e.Kind)
}

// Unwrap returns the predefined error value or the decode diagnostics.
func (e *ResponseError) Unwrap() error {
	if e.Wrapped != nil {
		return e.Wrapped
	}
	return e.Diag
}

// StatusCode returns the response status code, if the response had one.
func (e *ResponseError) StatusCode() (int, bool) {
	if e.Envelope == nil || !e.Envelope.HasStatus {
		return 0, false
	}
	return e.Envelope.StatusCode, true
}

// Header returns the named response header, or "" when absent.
func (e *ResponseError) Header(name string) string {
	if e.Envelope == nil {
		return ""
	}
	return e.Envelope.Header.Get(name)
}

// BodyText returns the raw response body as text.
func (e *ResponseError) BodyText() string {
	if e.Envelope == nil {
		return ""
	}
	return string(e.Envelope.Body)
}

// Retryable reports whether the failure is worth retrying. The default
// classification treats server errors (5xx) and 429 as retryable.
func (e *ResponseError) Retryable() bool {
	code, ok := e.StatusCode()
	if !ok {
		return false
	}
	return code >= 500 || code == 429
}

func newResponseError(kind ResponseErrorKind, env *Envelope) *ResponseError {
	return &ResponseError{Kind: kind, Envelope: env}
}

// ErrorValueAs retrieves the decoded structured error value carried by a
// DecodedStructuredError without re-decoding the body.
func ErrorValueAs[T any](err error) (T, bool) {
	var zero T
	var e *ResponseError
	if !errors.As(err, &e) || e.Kind != DecodedStructuredError {
		return zero, false
	}
	v, ok := e.Value.(T)
	if !ok {
		// Structured decoders typically return pointers; allow *T too.
		if p, pok := e.Value.(*T); pok && p != nil {
			return *p, true
		}
		return zero, false
	}
	return v, true
}

// IsResponseError checks whether err is a ResponseError of the given kind.
func IsResponseError(err error, kind ResponseErrorKind) bool {
	var e *ResponseError
	return errors.As(err, &e) && e.Kind == kind
}

// IsRetryable checks whether err classifies as retryable: a retryable
// response failure or any transport failure.
func IsRetryable(err error) bool {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	var te *TransportError
	return errors.As(err, &te)
}
