package outcome

// Kind identifies the declared action for a matched status code.
type Kind int

const (
	// KindDecode decodes the response body into the declared target.
	KindDecode Kind = iota
	// KindNoContent short-circuits decoding and yields a no-body marker.
	KindNoContent
	// KindError fails with a predefined error value.
	KindError
	// KindErrorDecode decodes the body into a caller-defined error shape.
	KindErrorDecode
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindNoContent:
		return "no_content"
	case KindError:
		return "error"
	case KindErrorDecode:
		return "error_decode"
	default:
		return "unknown"
	}
}

// ErrorDecoderFunc decodes an error response body into a caller-defined value.
type ErrorDecoderFunc func(body []byte) (any, error)

// Outcome is the declared action for a status code match.
type Outcome struct {
	kind       Kind
	predefined error
	decoder    ErrorDecoderFunc
}

// Decode declares that the response body is decoded into the call's target.
func Decode() Outcome {
	return Outcome{kind: KindDecode}
}

// NoContent declares that the response carries no body worth decoding.
func NoContent() Outcome {
	return Outcome{kind: KindNoContent}
}

// Err declares that the status fails the call with a predefined error value.
func Err(err error) Outcome {
	return Outcome{kind: KindError, predefined: err}
}

// ErrDecode declares that the body is decoded into a structured error shape.
func ErrDecode(fn ErrorDecoderFunc) Outcome {
	return Outcome{kind: KindErrorDecode, decoder: fn}
}

// Kind returns the outcome kind.
func (o Outcome) Kind() Kind { return o.kind }

// Predefined returns the error value registered with Err, or nil.
func (o Outcome) Predefined() error { return o.predefined }

// Decoder returns the decoder registered with ErrDecode, or nil.
func (o Outcome) Decoder() ErrorDecoderFunc { return o.decoder }
