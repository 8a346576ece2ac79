package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"turnos/common/constant"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBusy            = errors.New("operation already in progress")
	ErrNotConfirmed    = errors.New("confirmation required")
	ErrNoLocatedTicket = errors.New("no located ticket")
	ErrKeyChanged      = errors.New("ticket key changed")
	ErrInvalidState    = errors.New("invalid workflow state")
)

type HttpError struct {
	Code    int
	Message string
	Data    any
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}

// ValidationError holds field-scoped messages keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// BackendError is a rejection reported by the backend through its envelope.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend status %d: %s", e.Status, e.UserMessage())
}

func (e *BackendError) UserMessage() string {
	if e.Message == "" {
		return constant.MsgBackendFallback
	}
	return e.Message
}

// Is lets errors.Is(err, ErrNotFound) match 404 rejections.
func (e *BackendError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

// TransportError wraps network and decoding failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to show for err at the initiating action.
func UserMessage(err error) string {
	var backendErr *BackendError
	var transportErr *TransportError
	var validationErr *ValidationError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &backendErr):
		return backendErr.UserMessage()
	case errors.As(err, &transportErr):
		return constant.MsgTransportFailure
	case errors.As(err, &validationErr):
		return constant.MsgValidationFailed
	case errors.Is(err, ErrNotFound):
		return constant.MsgTicketNotFound
	case errors.Is(err, ErrBusy):
		return constant.MsgBusy
	case errors.Is(err, ErrNotConfirmed):
		return constant.MsgNotConfirmed
	case errors.Is(err, ErrNoLocatedTicket):
		return constant.MsgNoLocatedTicket
	case errors.Is(err, ErrKeyChanged):
		return constant.MsgKeyChanged
	case errors.Is(err, ErrInvalidState):
		return constant.MsgInvalidState
	}
	return constant.MsgBackendFallback
}
