package database

import (
	"regexp"
	"strings"
)

// QuoteIdentifier quotes a MySQL identifier with backticks, doubling any
// backticks inside it.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Restricted to alphanumerics and underscore.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name is a plain MySQL identifier.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteTable validates and quotes a table reference of the form
// "table" or "schema.table".
func QuoteTable(ref string) (string, error) {
	parts := strings.Split(ref, ".")
	if len(parts) > 2 {
		return "", &InvalidIdentifierError{Name: ref}
	}

	quoted := make([]string, len(parts))
	for i, part := range parts {
		if !IsValidIdentifier(part) {
			return "", &InvalidIdentifierError{Name: ref}
		}
		quoted[i] = QuoteIdentifier(part)
	}
	return strings.Join(quoted, "."), nil
}

// InvalidIdentifierError is returned when a table reference contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid table reference: " + e.Name + " (expected table or schema.table using only alphanumeric characters and underscores)"
}
