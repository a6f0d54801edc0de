package stream

import (
	"fmt"
	"sort"
	"sync"
)

// Opener opens a named stream with an fopen-style mode.
type Opener func(name, mode string, config *Config) (Stream, error)

// Backend names accepted by Open.
const (
	KindFile     = "file"
	KindBuffered = "buffered"
)

var (
	openersMutex sync.RWMutex
	openers      = map[string]Opener{
		KindFile: func(name, mode string, config *Config) (Stream, error) {
			f, err := OpenFile(name, mode, config)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
		KindBuffered: func(name, mode string, config *Config) (Stream, error) {
			b, err := OpenBuffered(name, mode, config)
			if err != nil {
				return nil, err
			}
			return b, nil
		},
	}
)

// Register makes an Opener available to Open under kind.
// It returns an error if kind is already registered.
func Register(kind string, opener Opener) error {
	openersMutex.Lock()
	defer openersMutex.Unlock()

	if _, ok := openers[kind]; ok {
		return fmt.Errorf("stream backend %q is already registered", kind)
	}
	openers[kind] = opener
	return nil
}

// Kinds returns the registered backend names, sorted.
func Kinds() []string {
	openersMutex.RLock()
	defer openersMutex.RUnlock()

	kinds := make([]string, 0, len(openers))
	for kind := range openers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Open opens name with the backend registered as kind.
func Open(kind, name, mode string, config *Config) (Stream, error) {
	openersMutex.RLock()
	opener, ok := openers[kind]
	openersMutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown stream backend %q, have %v", kind, Kinds())
	}
	return opener(name, mode, config)
}
