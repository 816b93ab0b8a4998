package errs

import (
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"
)

// Kind clasifica los errores del dominio.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindConflict
	KindInvalidRequest
	KindUnauthorized
	KindInternal
)

// Error es un error de dominio con una clase y un mensaje para el cliente.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) error {
	return newf(KindNotFound, format, args...)
}

func InvalidStatef(format string, args ...interface{}) error {
	return newf(KindInvalidState, format, args...)
}

func Conflictf(format string, args ...interface{}) error {
	return newf(KindConflict, format, args...)
}

func InvalidRequestf(format string, args ...interface{}) error {
	return newf(KindInvalidRequest, format, args...)
}

func Unauthorizedf(format string, args ...interface{}) error {
	return newf(KindUnauthorized, format, args...)
}

func Internalf(format string, args ...interface{}) error {
	return newf(KindInternal, format, args...)
}

// Wrap conserva el error original detrás de un mensaje de dominio.
func Wrap(kind Kind, err error, message string) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf devuelve la clase del error, o KindUnknown si no es un *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool       { return KindOf(err) == KindNotFound }
func IsInvalidState(err error) bool   { return KindOf(err) == KindInvalidState }
func IsConflict(err error) bool       { return KindOf(err) == KindConflict }
func IsInvalidRequest(err error) bool { return KindOf(err) == KindInvalidRequest }
func IsUnauthorized(err error) bool   { return KindOf(err) == KindUnauthorized }

// HTTPStatus traduce la clase de error al código HTTP correspondiente.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return fasthttp.StatusNotFound
	case KindInvalidState, KindInvalidRequest:
		return fasthttp.StatusBadRequest
	case KindConflict:
		return fasthttp.StatusConflict
	case KindUnauthorized:
		return fasthttp.StatusUnauthorized
	default:
		return fasthttp.StatusInternalServerError
	}
}
