package domain

import (
	"fmt"
	"regexp"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateSessionID accepts IDs of letters, digits, '.', '_' and '-' that start
// with a letter or digit and are at most 128 characters long.
func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}
