package errx

import (
	"fmt"
	"sync"
)

type definition struct {
	typ     Type
	status  int
	message string
}

// Registry holds the error codes of one bounded context
type Registry struct {
	prefix string

	mu   sync.RWMutex
	defs map[Code]definition
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[Code]definition),
	}
}

// Register declares a code under the registry prefix and returns it.
// Registering the same code twice panics.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	full := Code(fmt.Sprintf("%s.%s", r.prefix, code))

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[full]; exists {
		panic(fmt.Sprintf("errx: duplicate error code %s", full))
	}
	r.defs[full] = definition{typ: t, status: httpStatus, message: message}
	return full
}

// New instantiates a registered code
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.defs[code]
	r.mu.RUnlock()
	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			HTTPStatus: statusForType(TypeInternal),
			Message:    "unregistered error code",
		}
	}
	return &Error{
		Code:       code,
		Type:       def.typ,
		HTTPStatus: def.status,
		Message:    def.message,
	}
}

// NewWithCause instantiates a registered code wrapping cause
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	return r.New(code).WithCause(cause)
}

func (r *Registry) Prefix() string { return r.prefix }
