package schema

import (
	"fmt"
	"regexp"
)

// MaxIdentifierLength is the longest table, column or database name accepted.
const MaxIdentifierLength = 64

var (
	identifierRe = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)
	instanceRe   = regexp.MustCompile(`^[A-Za-z0-9_$-]+$`)
	digitsOnlyRe = regexp.MustCompile(`^[0-9]+$`)
)

// ValidIdentifier reports whether name is safe to splice into a statement
// once quoted: ASCII letters, digits, underscore and dollar, not purely
// numeric and at most MaxIdentifierLength bytes.
func ValidIdentifier(name string) bool {
	if name == "" || len(name) > MaxIdentifierLength {
		return false
	}
	return identifierRe.MatchString(name) && !digitsOnlyRe.MatchString(name)
}

// ValidInstanceName is ValidIdentifier plus hyphens. Instance names only
// ever reach the DSN, never statement text.
func ValidInstanceName(name string) bool {
	if name == "" || len(name) > MaxIdentifierLength {
		return false
	}
	return instanceRe.MatchString(name) && !digitsOnlyRe.MatchString(name)
}

func checkInstance(name string) error {
	if !ValidInstanceName(name) {
		return &ValidationError{Message: fmt.Sprintf("invalid instance name: %q", name)}
	}
	return nil
}

func checkIdentifier(kind, name string) error {
	if !ValidIdentifier(name) {
		return &ValidationError{Message: fmt.Sprintf("invalid %s name: %q", kind, name)}
	}
	return nil
}
