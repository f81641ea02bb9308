package fixture

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// DecodeJSON decodes fixture bytes, keeping numbers as json.Number so the
// Int/Float distinction survives into the type-checking phase.
func DecodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}
