package taxonomy

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestDecodePayload(t *testing.T) {
	data := json.RawMessage(`{
		"taxonomy": [
			{"name": "Age", "type": "requirement"},
			{"name": "Diagnosis", "type": "condition"}
		]
	}`)

	entries, err := DecodePayload(data)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}

	want := []Entry{
		{Name: "Age", Type: "requirement"},
		{Name: "Diagnosis", Type: "condition"},
	}
	if !slices.Equal(entries, want) {
		t.Errorf("entries = %v, want %v", entries, want)
	}
}

func TestDecodePayloadIgnoresExtraFields(t *testing.T) {
	data := json.RawMessage(`{
		"taxonomy": [{"name": "A", "type": "x", "weight": 3}],
		"stats": {"total": 1}
	}`)

	entries, err := DecodePayload(data)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "A" || entries[0].Type != "x" {
		t.Errorf("entries = %v, want single {A x}", entries)
	}
}

func TestDecodePayloadEmptyList(t *testing.T) {
	entries, err := DecodePayload(json.RawMessage(`{"taxonomy": []}`))
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want empty", entries)
	}
}

func TestDecodePayloadMissingFieldsDefaultEmpty(t *testing.T) {
	entries, err := DecodePayload(json.RawMessage(`{"taxonomy": [{"name": "A"}]}`))
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if entries[0].Type != "" {
		t.Errorf("missing type should decode to empty string, got %q", entries[0].Type)
	}
}

func TestDecodePayloadShapeErrors(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantReason string
	}{
		{
			name:       "nil data",
			data:       "",
			wantReason: "data field is missing or null",
		},
		{
			name:       "null data",
			data:       "null",
			wantReason: "data field is missing or null",
		},
		{
			name:       "data is not an object",
			data:       `[1, 2]`,
			wantReason: "not an object",
		},
		{
			name:       "taxonomy missing",
			data:       `{"other": []}`,
			wantReason: "taxonomy field is missing or null",
		},
		{
			name:       "taxonomy null",
			data:       `{"taxonomy": null}`,
			wantReason: "taxonomy field is missing or null",
		},
		{
			name:       "taxonomy is a string",
			data:       `{"taxonomy": "nope"}`,
			wantReason: "not a list",
		},
		{
			name:       "taxonomy is an object",
			data:       `{"taxonomy": {"name": "A"}}`,
			wantReason: "not a list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(json.RawMessage(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("expected ShapeError, got %T: %v", err, err)
			}
			if !strings.Contains(shapeErr.Reason, tt.wantReason) {
				t.Errorf("reason = %q, want it to contain %q", shapeErr.Reason, tt.wantReason)
			}
		})
	}
}
