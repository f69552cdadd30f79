package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// Span is a byte range [Start, End) in the normalized text
type Span struct {
	Start int
	End   int
}

// Mention is the detector output for one identity
type Mention struct {
	Count        int
	MatchedTerms []string
	Spans        []Span
}

// Mentioned reports whether at least one occurrence was found
func (m Mention) Mentioned() bool {
	return m.Count > 0
}

// plain alphanumeric names (optionally several words) get word-boundary matching
var wordTermPattern = regexp.MustCompile(`^[a-z0-9]+(?:\s+[a-z0-9]+)*$`)

type termMatcher struct {
	term string
	re   *regexp.Regexp // nil means plain substring search
	lit  string
}

func newTermMatcher(term string) termMatcher {
	lower := Normalize(strings.TrimSpace(term))
	if wordTermPattern.MatchString(lower) {
		words := strings.Fields(lower)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		return termMatcher{term: term, re: regexp.MustCompile(`\b` + strings.Join(words, `\s+`) + `\b`)}
	}
	return termMatcher{term: term, lit: lower}
}

func (m termMatcher) find(text string) []Span {
	var spans []Span
	if m.re != nil {
		for _, loc := range m.re.FindAllStringIndex(text, -1) {
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
		}
		return spans
	}
	if m.lit == "" {
		return nil
	}
	offset := 0
	for {
		idx := strings.Index(text[offset:], m.lit)
		if idx < 0 {
			return spans
		}
		start := offset + idx
		spans = append(spans, Span{Start: start, End: start + len(m.lit)})
		offset = start + len(m.lit)
	}
}

type termSpan struct {
	Span
	term int
}

// DetectMentions counts every occurrence of any synonym in normalized text.
// Synonyms that are plain words match on word boundaries; names containing
// punctuation match as substrings, so "tinder+" also matches inside "tinder+plus".
// When two synonyms cover the same characters only the earliest, longest span counts.
func DetectMentions(normalized string, synonyms []string) Mention {
	mention := Mention{MatchedTerms: []string{}}
	if normalized == "" || len(synonyms) == 0 {
		return mention
	}

	var all []termSpan
	for i, synonym := range synonyms {
		for _, span := range newTermMatcher(synonym).find(normalized) {
			all = append(all, termSpan{Span: span, term: i})
		}
	}
	if len(all) == 0 {
		return mention
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].End-all[i].Start > all[j].End-all[j].Start
	})

	matched := make([]bool, len(synonyms))
	lastEnd := -1
	for _, ts := range all {
		if ts.Start < lastEnd {
			continue
		}
		mention.Spans = append(mention.Spans, ts.Span)
		matched[ts.term] = true
		lastEnd = ts.End
	}

	mention.Count = len(mention.Spans)
	for i, ok := range matched {
		if ok {
			mention.MatchedTerms = append(mention.MatchedTerms, synonyms[i])
		}
	}
	return mention
}
