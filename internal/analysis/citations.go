package analysis

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

var errNoHost = errors.New("no hostname in url")

// NormalizeURL canonicalizes a citation URL so the same page always yields the
// same key: https default scheme, lowercase, default ports, tracking parameters,
// fragment and trailing slash removed.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errNoHost
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse url %q: %w", raw, err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", errNoHost
	}
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else {
		u.Host = host
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil
	if u.RawQuery != "" {
		q := u.Query()
		for param := range q {
			lower := strings.ToLower(param)
			if strings.HasPrefix(lower, "utm_") || lower == "fbclid" || lower == "gclid" || lower == "msclkid" {
				q.Del(param)
			}
		}
		u.RawQuery = q.Encode()
	}
	u.Path = strings.ToLower(strings.TrimRight(u.Path, "/"))
	u.RawPath = ""

	return u.String(), nil
}

// ExtractDomain returns the host of a URL without port and leading "www."
func ExtractDomain(rawURL string) string {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// IsBrandSource reports whether a citation domain belongs to the brand: it equals
// or shares a registrable domain with the declared brand domain, or the host
// contains the brand name.
func IsBrandSource(domain string, brand models.BrandIdentity) bool {
	if domain == "" {
		return false
	}
	if brandDomain := ExtractDomain(brand.DomainOrEmpty()); brandDomain != "" {
		if domain == brandDomain || strings.HasSuffix(domain, "."+brandDomain) {
			return true
		}
		citationBase, err1 := publicsuffix.EffectiveTLDPlusOne(domain)
		brandBase, err2 := publicsuffix.EffectiveTLDPlusOne(brandDomain)
		if err1 == nil && err2 == nil && strings.EqualFold(citationBase, brandBase) {
			return true
		}
	}
	compact := compactName(brand.Name)
	return len(compact) >= 3 && strings.Contains(domain, compact)
}

func compactName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExtractCitations normalizes and deduplicates a response's citations by URL.
// Entries without a usable URL are dropped. Later duplicates only fill in a
// missing title or snippet.
func ExtractCitations(raw []models.RawCitation, brand models.BrandIdentity) []models.Citation {
	citations := make([]models.Citation, 0, len(raw))
	index := make(map[string]int, len(raw))

	for _, rc := range raw {
		normalized, err := NormalizeURL(rc.URL)
		if err != nil {
			continue
		}
		if i, ok := index[normalized]; ok {
			if citations[i].Title == "" {
				citations[i].Title = strings.TrimSpace(rc.Title)
			}
			if citations[i].Snippet == "" {
				citations[i].Snippet = strings.TrimSpace(rc.Snippet)
			}
			continue
		}

		domain := ExtractDomain(normalized)
		index[normalized] = len(citations)
		citations = append(citations, models.Citation{
			URL:           normalized,
			Title:         strings.TrimSpace(rc.Title),
			Domain:        domain,
			Snippet:       strings.TrimSpace(rc.Snippet),
			Position:      copyInt(rc.Position),
			IsBrandSource: IsBrandSource(domain, brand),
		})
	}
	return citations
}

// citationKey is the normalized URL, or domain|title for citations stored without one
func citationKey(c models.Citation) (key, canonicalURL string) {
	if c.URL != "" {
		if normalized, err := NormalizeURL(c.URL); err == nil {
			return normalized, normalized
		}
	}
	if c.Domain == "" && c.Title == "" {
		return "", ""
	}
	return strings.ToLower(c.Domain) + "|" + strings.ToLower(strings.TrimSpace(c.Title)), ""
}

// SummarizeCitations folds every citation of every model result into one entry
// per source. Prompts, models and categories are recorded once each, in the
// order they were first seen. Output is sorted by count, ties by first appearance.
func SummarizeCitations(results []models.AuditResult) []models.CitationSummary {
	summaries := []models.CitationSummary{}
	index := make(map[string]int)

	for _, audit := range results {
		prompt := audit.PromptID
		if prompt == "" {
			prompt = audit.PromptText
		}
		for _, mr := range audit.ModelResults {
			for _, c := range mr.Citations {
				key, canonical := citationKey(c)
				if key == "" {
					continue
				}
				i, ok := index[key]
				if !ok {
					i = len(summaries)
					index[key] = i
					domain := c.Domain
					if domain == "" && canonical != "" {
						domain = ExtractDomain(canonical)
					}
					summaries = append(summaries, models.CitationSummary{
						Key:        key,
						URL:        canonical,
						Title:      c.Title,
						Domain:     domain,
						Prompts:    []string{},
						Models:     []string{},
						Categories: []string{},
					})
				}
				s := &summaries[i]
				s.Count++
				if s.Title == "" {
					s.Title = c.Title
				}
				s.Prompts = appendUnique(s.Prompts, prompt)
				s.Models = appendUnique(s.Models, mr.ModelID)
				s.Categories = appendUnique(s.Categories, audit.Category)
			}
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Count > summaries[j].Count
	})
	return summaries
}

func appendUnique(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
