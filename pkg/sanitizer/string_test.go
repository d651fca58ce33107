package sanitizer

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Green Acres Farm  ",
			want:  "Green Acres Farm",
		},
		{
			name:  "multiple spaces between words",
			input: "Green    Acres",
			want:  "Green Acres",
		},
		{
			name:  "tabs and newlines",
			input: "Green\t\nAcres",
			want:  "Green Acres",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Ọ̀yọ́ Agro & Sons ",
			want:  "Ọ̀yọ́ Agro & Sons",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := NormalizeText(got); again != got {
				t.Errorf("NormalizeText is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizeTextPtr(t *testing.T) {
	if NormalizeTextPtr(nil) != nil {
		t.Error("expected nil for nil input")
	}
	in := "  Kaduna   North "
	got := NormalizeTextPtr(&in)
	if got == nil || *got != "Kaduna North" {
		t.Errorf("NormalizeTextPtr() = %v", got)
	}
}
