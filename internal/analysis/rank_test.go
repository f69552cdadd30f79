package analysis_test

import (
	"testing"

	"github.com/AI-Template-SDK/senso-visibility/internal/analysis"
)

func TestExtractRank(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		synonyms []string
		expected *int
	}{
		{"numbered dot list", "1. Juleo\n2. Bumble", []string{"Juleo"}, intPtr(1)},
		{"second item", "1. Juleo\n2. Bumble", []string{"Bumble"}, intPtr(2)},
		{"paren marker with bullet and bold", "Top picks:\n- **3) Juleo** - great", []string{"Juleo"}, intPtr(3)},
		{"hash marker", "#2 Juleo", []string{"Juleo"}, intPtr(2)},
		{"markdown heading", "## 4. Juleo\nDetails", []string{"Juleo"}, intPtr(4)},
		{"indented", "   10. Juleo", []string{"Juleo"}, intPtr(10)},
		{"link item", "1. [Juleo](https://juleo.com)", []string{"Juleo"}, intPtr(1)},
		{"tag synonym", "1. Bumble\n2. JL Dating", []string{"Juleo", "JL Dating"}, intPtr(2)},
		{"first match wins", "1. Bumble\n2. Juleo\n5. Juleo again", []string{"Juleo"}, intPtr(2)},
		{"case insensitive", "3. JULEO", []string{"Juleo"}, intPtr(3)},
		{"mentioned outside list", "Juleo is nice.\n1. Bumble", []string{"Juleo"}, nil},
		{"name not first in item", "1. Try Juleo", []string{"Juleo"}, nil},
		{"word boundary", "1. JuleoPlus", []string{"Juleo"}, nil},
		{"zero is not a rank", "0. Juleo", []string{"Juleo"}, nil},
		{"empty text", "", []string{"Juleo"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.ExtractRank(tt.text, tt.synonyms)
			if tt.expected == nil {
				if got != nil {
					t.Errorf("ExtractRank() = %d, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ExtractRank() = nil, want %d", *tt.expected)
			}
			if *got != *tt.expected {
				t.Errorf("ExtractRank() = %d, want %d", *got, *tt.expected)
			}
		})
	}
}
