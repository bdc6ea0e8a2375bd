package upstream

import (
	"bytes"
	"encoding/json"

	"github.com/movehq/moveboard/internal/report"
)

// FlexNumber decodes a JSON field that arrives either as a number or as a
// string, including Brazilian currency strings ("R$ 1.234,56"). The API is
// inconsistent about this across records, so every numeric DTO field uses
// FlexNumber and reads it through Float.
type FlexNumber string

// UnmarshalJSON accepts a JSON number, string or null.
func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexNumber(s)
		return nil
	}
	*f = FlexNumber(data)
	return nil
}

// MarshalJSON re-emits the raw value as a JSON string.
func (f FlexNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// Float parses the value with the same tolerance the report engine applies
// to numeric cells; malformed or empty input yields 0.
func (f FlexNumber) Float() float64 {
	return report.ParseNumber(string(f))
}

// String returns the raw wire value.
func (f FlexNumber) String() string { return string(f) }
