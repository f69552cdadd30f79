package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

// listMarkerPattern matches an enumerated-list marker at the start of a line:
// optional whitespace, optional bullets/quotes/headings, then "1.", "1)" or "#1".
var listMarkerPattern = regexp.MustCompile(`^\s*(?:(?:[-*+>]|#{1,6}\s)\s*)*(?:#(\d+)|(\d+)[.)])\s*`)

const emphasisChars = "*_[`"

// ExtractRank returns the number of the first list item, in document order,
// whose text starts with one of the synonyms. Returns nil when there is none.
func ExtractRank(raw string, synonyms []string) *int {
	if raw == "" || len(synonyms) == 0 {
		return nil
	}

	lowered := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		if s = Normalize(strings.TrimSpace(s)); s != "" {
			lowered = append(lowered, s)
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		loc := listMarkerPattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		var digits string
		if loc[2] >= 0 {
			digits = line[loc[2]:loc[3]]
		} else {
			digits = line[loc[4]:loc[5]]
		}
		rank, err := strconv.Atoi(digits)
		if err != nil || rank < 1 {
			continue
		}

		rest := strings.TrimLeft(line[loc[1]:], emphasisChars+" \t")
		rest = Normalize(rest)
		for _, synonym := range lowered {
			if startsWithTerm(rest, synonym) {
				return &rank
			}
		}
	}
	return nil
}

func startsWithTerm(text, term string) bool {
	if !strings.HasPrefix(text, term) {
		return false
	}
	if !wordTermPattern.MatchString(term) || len(text) == len(term) {
		return true
	}
	next := text[len(term)]
	return !isASCIIAlnum(next)
}

func isASCIIAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
