package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodePayload extracts the ordered entry list from a response data
// field. The data object must carry a taxonomy field holding a JSON
// array of entries; anything else is a ShapeError. Entry fields beyond
// name and type are ignored, and a missing name or type decodes to the
// empty string rather than failing.
func DecodePayload(data json.RawMessage) ([]Entry, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, &ShapeError{Reason: "data field is missing or null"}
	}

	var payload struct {
		Taxonomy json.RawMessage `json:"taxonomy"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ShapeError{Reason: fmt.Sprintf("data field is not an object: %v", err)}
	}
	if len(payload.Taxonomy) == 0 || bytes.Equal(payload.Taxonomy, []byte("null")) {
		return nil, &ShapeError{Reason: "taxonomy field is missing or null"}
	}

	var entries []Entry
	if err := json.Unmarshal(payload.Taxonomy, &entries); err != nil {
		return nil, &ShapeError{Reason: fmt.Sprintf("taxonomy field is not a list of entries: %v", err)}
	}
	return entries, nil
}
