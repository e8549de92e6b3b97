package lens

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid reports a data-model object that fails validation.
	ErrInvalid = errors.New("invalid")
)

// Mount is a lens mount: a name plus the set of mount names whose
// lenses can be attached to it (directly or through an adapter).
// Compatibility is directed; it is consulted by database search layers,
// never by the correction engine itself.
type Mount struct {
	Name   string
	Compat []string
}

// AddCompat records val as compatible; duplicates are kept out.
func (m *Mount) AddCompat(val string) {
	if val == "" {
		return
	}
	for _, c := range m.Compat {
		if c == val {
			return
		}
	}
	m.Compat = append(m.Compat, val)
}

// Check validates the mount.
func (m *Mount) Check() error {
	if m.Name == "" {
		return fmt.Errorf("%w mount: empty name", ErrInvalid)
	}
	return nil
}
