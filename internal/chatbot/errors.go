package chatbot

import "fmt"

// ErrorKind classifies a failed request.
type ErrorKind int

const (
	// KindNetwork covers dial, transport and timeout failures.
	KindNetwork ErrorKind = iota
	// KindStatus is a response outside the 2xx range.
	KindStatus
	// KindDecode is a body that is not a JSON object with a response string.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// RequestError is returned by Client for every failed request.
type RequestError struct {
	Kind   ErrorKind
	Status int // set for KindStatus
	Err    error
}

func (e *RequestError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("chatbot %s error (http %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("chatbot %s error: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
