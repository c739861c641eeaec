package mealplan

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json fence with prose",
			in:   "Here is your plan:\n```json\n{\"days\":[]}\n```\nEnjoy!",
			want: `{"days":[]}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"days\":[1]}\n```",
			want: `{"days":[1]}`,
		},
		{
			name: "json fence preferred over earlier bare fence",
			in:   "```\nnot it\n```\n```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "brace without fence",
			in:   "Sure! {\"days\":[]} hope it helps",
			want: `{"days":[]} hope it helps`,
		},
		{
			name: "no json at all",
			in:   "  I cannot help with that.  ",
			want: "I cannot help with that.",
		},
		{
			name: "unterminated fence falls through to brace",
			in:   "```json\n{\"days\":[]}",
			want: `{"days":[]}`,
		},
		{
			name: "fence without newline falls through",
			in:   "```json{\"days\":[]}```",
			want: "{\"days\":[]}```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSONIdempotentOnBareJSON(t *testing.T) {
	inputs := []string{
		`{"days":[{"day":1,"meals":[]}]}`,
		`{"a":{"b":[1,2,3]}}`,
		`{}`,
	}
	for _, in := range inputs {
		once := ExtractJSON(in)
		if once != in {
			t.Errorf("ExtractJSON(%q) = %q, want input unchanged", in, once)
		}
		if twice := ExtractJSON(once); twice != once {
			t.Errorf("ExtractJSON not idempotent: %q then %q", once, twice)
		}
	}
}

func TestParseAndMaterializeSingleLineFence(t *testing.T) {
	in := "```json{\"days\":[{\"day\":1,\"meals\":[{\"type\":\"lunch\",\"name\":\"Salad\"}]}]}```"

	m, err := ParseAndMaterialize(in, UserRef{ID: "user-1"})
	if err != nil {
		t.Fatalf("ParseAndMaterialize: %v", err)
	}
	if len(m.Items) != 1 || m.Items[0].Recipe.Name != "Salad" {
		t.Fatalf("unexpected items: %+v", m.Items)
	}
}

func TestExtractArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
		n    int
	}{
		{"fenced array", "```json\n[{\"name\":\"a\"},{\"name\":\"b\"}]\n```", true, 2},
		{"array inside prose", "Sure:\n[1, 2, 3]\nDone.", true, 3},
		{"raw newline in string", "[{\"note\":\"line1\nline2\"}]", true, 1},
		{"object is not an array", `{"items":[1]}`, false, 0},
		{"prose only", "nothing to see", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractArray(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && len(got.Array()) != tt.n {
				t.Errorf("len = %d, want %d", len(got.Array()), tt.n)
			}
		})
	}
}
