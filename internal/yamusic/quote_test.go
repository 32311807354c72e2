package yamusic

import (
	"encoding/json"
	"testing"
)

func TestRepairQuotes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single quotes to double",
			input: `{'id': 42, 'title': 'Lullaby'}`,
			want:  `{"id": 42, "title": "Lullaby"}`,
		},
		{
			name:  "escaped single quote unescaped",
			input: `{'title': 'Boys Don\'t Cry'}`,
			want:  `{"title": "Boys Don't Cry"}`,
		},
		{
			name:  "embedded double quote escaped",
			input: `{'title': 'The "Best" Of'}`,
			want:  `{"title": "The \"Best\" Of"}`,
		},
		{
			name:  "already strict passes through",
			input: `{"id": 42, "title": "Lullaby"}`,
			want:  `{"id": 42, "title": "Lullaby"}`,
		},
		{
			name:  "strict with escaped double quote",
			input: `{"title": "The \"Best\" Of"}`,
			want:  `{"title": "The \"Best\" Of"}`,
		},
		{
			name:  "mixed quoting styles",
			input: `{'id': '7', "album": 'Wish'}`,
			want:  `{"id": "7", "album": "Wish"}`,
		},
		{
			name:  "apostrophe inside double quotes",
			input: `{"title": "Don't Stop"}`,
			want:  `{"title": "Don't Stop"}`,
		},
		{
			name:  "unclosed span left alone",
			input: `{'title': 'never ends`,
			want:  `{"title": 'never ends`,
		},
		{
			name:  "empty input",
			input: ``,
			want:  ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairQuotes(tt.input)
			if got != tt.want {
				t.Errorf("RepairQuotes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepairQuotes_Idempotent(t *testing.T) {
	inputs := []string{
		`{'id': 42, 'title': 'Boys Don\'t Cry', 'album': 'The "Best" Of'}`,
		`{"id": 42, "title": "Boys Don't Cry", "album": "The \"Best\" Of"}`,
		`{'tracks': [{'id': 1, 'title': 'One'}, {'id': 2, 'title': 'Two'}]}`,
	}

	for _, input := range inputs {
		once := RepairQuotes(input)
		twice := RepairQuotes(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once:  %q\n twice: %q", input, once, twice)
		}
	}
}

func TestRepairQuotes_ProducesValidJSON(t *testing.T) {
	input := `{'id': 42, 'title': 'Boys Don\'t Cry', 'album': 'The "Best" Of', 'duration': 155}`

	var decoded map[string]any
	if err := json.Unmarshal([]byte(RepairQuotes(input)), &decoded); err != nil {
		t.Fatalf("repaired literal is not valid JSON: %v", err)
	}
	if decoded["title"] != "Boys Don't Cry" {
		t.Errorf("title = %q, want %q", decoded["title"], "Boys Don't Cry")
	}
	if decoded["album"] != `The "Best" Of` {
		t.Errorf("album = %q, want %q", decoded["album"], `The "Best" Of`)
	}
}
