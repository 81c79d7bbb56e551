package model

import "fmt"

// CountryInfo - opaque payload of the country service, handed to the views as is.
type CountryInfo map[string]any

// Field returns a top-level field formatted for display, or "" when absent.
func (c CountryInfo) Field(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// JSON numbers decode as float64; populations and areas are whole numbers
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}
