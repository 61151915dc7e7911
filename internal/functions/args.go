// ABOUTME: Argument bag extraction helpers shared by function handlers
// ABOUTME: JSON-decoded args arrive loosely typed; numbers are float64

package functions

import (
	"encoding/json"
	"fmt"
)

// stringArg returns the named string argument, or "" if absent.
func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// intArg returns the named integer argument. JSON decoding yields float64
// for all numbers, so both forms are accepted. The boolean reports presence.
func intArg(args map[string]any, key string) (int, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// oneOf validates an enum argument value against its allowed set.
func oneOf(value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid value %q, must be one of %v", value, allowed)
}
