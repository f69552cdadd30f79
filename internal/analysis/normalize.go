package analysis

import "strings"

// typographic noise that AI engines emit and that would otherwise break matching
var noiseReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", "\"", "”", "\"",
	" ", " ",
	"​", "",
	"–", "-", "—", "-",
)

// Normalize returns the lowercase, noise-free copy of a response used for mention
// and sentiment detection. The raw text is kept separately for rank extraction.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return strings.ToLower(noiseReplacer.Replace(text))
}
