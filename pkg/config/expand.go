package config

import (
	"strings"

	// Packages
	mcpchat "github.com/mutablelogic/go-mcpchat"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// LookupFunc resolves a variable name to its value. It follows the
// signature of os.LookupEnv so the environment can be substituted in tests.
type LookupFunc func(name string) (string, bool)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Expand replaces ${NAME} and ${NAME:-default} placeholders in the string
// using the lookup function. An unset variable without a default expands to
// the empty string. A placeholder which is opened but never closed is an
// error rather than literal text.
func Expand(s string, lookup LookupFunc) (string, error) {
	var result strings.Builder
	rest := s
	for {
		i := strings.Index(rest, "${")
		if i < 0 {
			result.WriteString(rest)
			break
		}
		result.WriteString(rest[:i])
		rest = rest[i+2:]

		j := strings.Index(rest, "}")
		if j < 0 {
			return "", mcpchat.ErrConfig.Withf("unterminated placeholder in %q", s)
		}
		name, def, hasDefault := strings.Cut(rest[:j], ":-")
		if name == "" {
			return "", mcpchat.ErrConfig.Withf("empty placeholder name in %q", s)
		}
		if value, ok := lookup(name); ok {
			result.WriteString(value)
		} else if hasDefault {
			result.WriteString(def)
		}
		rest = rest[j+1:]
	}
	return result.String(), nil
}
