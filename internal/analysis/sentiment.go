package analysis

import (
	"unicode/utf8"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// sentimentScorer holds the compiled keyword matchers for one Lexicon
type sentimentScorer struct {
	positive   []termMatcher
	negative   []termMatcher
	windowSize int
}

func newSentimentScorer(lex Lexicon) *sentimentScorer {
	s := &sentimentScorer{windowSize: lex.WindowSize}
	if s.windowSize <= 0 {
		s.windowSize = DefaultWindowSize
	}
	for _, kw := range lex.Positive {
		s.positive = append(s.positive, newTermMatcher(kw))
	}
	for _, kw := range lex.Negative {
		s.negative = append(s.negative, newTermMatcher(kw))
	}
	return s
}

// ClassifySentiment scores the window around each mention in document order.
// The first window where one side outweighs the other decides; a text whose
// windows are all balanced is neutral.
func ClassifySentiment(normalized string, spans []Span, lex Lexicon) models.Sentiment {
	return newSentimentScorer(lex).classify(normalized, spans)
}

func (s *sentimentScorer) classify(normalized string, spans []Span) models.Sentiment {
	for _, span := range spans {
		pos, neg := s.scoreWindow(normalized, span)
		if neg > pos {
			return models.SentimentNegative
		}
		if pos > neg {
			return models.SentimentPositive
		}
	}
	return models.SentimentNeutral
}

// scoreWindow counts keywords within windowSize characters on each side of the
// mention. The mention itself is excluded so a name like "Top Dating" does not
// score itself.
func (s *sentimentScorer) scoreWindow(text string, span Span) (pos, neg int) {
	start := span.Start
	for i := 0; i < s.windowSize && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := span.End
	for i := 0; i < s.windowSize && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}

	window := text[start:span.Start] + " " + text[span.End:end]
	for _, m := range s.positive {
		pos += len(m.find(window))
	}
	for _, m := range s.negative {
		neg += len(m.find(window))
	}
	return pos, neg
}
