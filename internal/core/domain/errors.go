package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a client or service is absent from the
	// compose definition or the live runtime.
	ErrNotFound = errors.New("not found")

	// ErrInvalidClientName is returned for client names that are not a single path segment.
	ErrInvalidClientName = errors.New("invalid client name")

	// ErrClientExists is returned when provisioning a client whose directory already exists.
	ErrClientExists = errors.New("client already exists")
)

// ValidateClientName rejects names that could escape the clients root directory.
func ValidateClientName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidClientName, name)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrInvalidClientName, name)
	}
	return nil
}
