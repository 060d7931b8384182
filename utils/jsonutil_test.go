package utils

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantKey string
		wantErr bool
	}{
		{
			name:    "plain JSON",
			input:   `{"food_name": "apple"}`,
			wantKey: "food_name",
		},
		{
			name:    "markdown code block",
			input:   "```json\n{\"food_name\": \"apple\"}\n```",
			wantKey: "food_name",
		},
		{
			name:    "fence without language tag",
			input:   "```\n{\"food_name\": \"apple\"}\n```",
			wantKey: "food_name",
		},
		{
			name:    "surrounding commentary",
			input:   "Here is the analysis you asked for:\n{\"food_name\": \"apple\", \"gi_value\": 36}\nLet me know if you need more detail.",
			wantKey: "food_name",
		},
		{
			name:    "trailing comma",
			input:   "{\"nutrition\": {\"protein\": \"0.3g\",}}",
			wantKey: "nutrition",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   "I could not identify any food in this image.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractJSON(tt.input)

			if tt.wantErr {
				if result != "" {
					t.Errorf("expected empty result, got: %s", result)
				}
				return
			}

			if result == "" {
				t.Fatal("expected JSON result, got empty string")
			}

			var parsed map[string]any
			if err := json.Unmarshal([]byte(result), &parsed); err != nil {
				t.Fatalf("extracted JSON does not parse: %v\n%s", err, result)
			}
			if _, ok := parsed[tt.wantKey]; !ok {
				t.Errorf("key %q missing from extracted JSON: %s", tt.wantKey, result)
			}
		})
	}
}
