package hsstream

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/stewi1014/hsstream/encio"
)

// Registry maps atom tags to the types they carry.
type Registry struct {
	mutex sync.RWMutex
	tags  map[reflect.Type]uint32
	types map[uint32]func() Streamable
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tags:  make(map[reflect.Type]uint32),
		types: make(map[uint32]func() Streamable),
	}
}

// DefaultRegistry is used by Encoders and Decoders created with a nil Registry.
var DefaultRegistry = NewRegistry()

// Register registers the type returned by newFunc under tag. It is a shortcut for DefaultRegistry.Register().
func Register(tag uint32, newFunc func() Streamable) error {
	return DefaultRegistry.Register(tag, newFunc)
}

// Register registers the type returned by newFunc under tag.
// newFunc must return a new, non-nil value each call. Neither the tag nor the type may already be registered.
func (r *Registry) Register(tag uint32, newFunc func() Streamable) error {
	v := newFunc()
	if v == nil {
		return encio.NewError(encio.ErrMalformed, fmt.Sprintf("constructor for tag %#x returned nil", tag), "")
	}
	t := reflect.TypeOf(v)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.types[tag]; ok {
		return encio.NewError(encio.ErrMalformed, fmt.Sprintf("tag %#x is already registered", tag), "")
	}
	if old, ok := r.tags[t]; ok {
		return encio.NewError(encio.ErrMalformed, fmt.Sprintf("%v is already registered as %#x", t, old), "")
	}

	r.tags[t] = tag
	r.types[tag] = newFunc
	return nil
}

// Tag returns the tag v's type is registered under.
func (r *Registry) Tag(v Streamable) (uint32, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	tag, ok := r.tags[reflect.TypeOf(v)]
	return tag, ok
}

// New returns a new value of the type registered under tag, or nil if there isn't one.
func (r *Registry) New(tag uint32) Streamable {
	r.mutex.RLock()
	newFunc, ok := r.types[tag]
	r.mutex.RUnlock()

	if !ok {
		return nil
	}
	return newFunc()
}
