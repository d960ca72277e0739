// Package codec encodes snapshot manifests.
//
// A snapshot stores the name of the codec that wrote its manifest, and Load
// looks the codec up by that name. Built-in codecs are always available;
// custom ones must be registered before snapshots written with them can be
// loaded.
package codec

import (
	"errors"
	"fmt"
	"sync"
)

// Codec encodes and decodes manifests. Implementations must be safe for
// concurrent use, and Name must be stable across releases.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// ErrDuplicate is returned by Register for a name already in use.
var ErrDuplicate = errors.New("codec: name already registered")

var registry = struct {
	sync.RWMutex
	byName map[string]Codec
}{byName: map[string]Codec{
	JSON.Name():   JSON,
	GoJSON.Name(): GoJSON,
}}

// Register makes c available to ByName.
func Register(c Codec) error {
	if c == nil || c.Name() == "" {
		return errors.New("codec: nil codec or empty name")
	}
	registry.Lock()
	defer registry.Unlock()

	if _, ok := registry.byName[c.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, c.Name())
	}
	registry.byName[c.Name()] = c
	return nil
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, bool) {
	registry.RLock()
	defer registry.RUnlock()
	c, ok := registry.byName[name]
	return c, ok
}
