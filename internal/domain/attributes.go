package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString is a display-form attribute that the client may send either as
// a JSON string ("29") or as a bare number (29). Numbers keep their literal
// text, so 62.5 becomes "62.5" and never "62.500000".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}
