package common

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"mvdan.cc/xurls/v2"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
)

// FailedRunError is recorded on responses whose snapshot entry carried no answer
const FailedRunError = "question run failed for this model"

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".svg", ".webp"}

// IsStatusResponse checks if the response body is a status object rather than results
func IsStatusResponse(bodyBytes []byte) (bool, string, string) {
	var statusResp StatusResponse

	if err := json.Unmarshal(bodyBytes, &statusResp); err != nil {
		return false, "", ""
	}

	// If it has a status field, it's a status response
	if statusResp.Status != "" {
		return true, statusResp.Status, statusResp.Message
	}

	return false, "", ""
}

// ParseSnapshot decodes a snapshot body and orders its results by input index
func ParseSnapshot(bodyBytes []byte) ([]SnapshotResult, error) {
	var results []SnapshotResult
	if err := json.Unmarshal(bodyBytes, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results returned from BrightData")
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ResultIndex() < results[j].ResultIndex()
	})
	return results, nil
}

// DecodeSnapshot turns a snapshot body into one RawModelResponse per result
func DecodeSnapshot(bodyBytes []byte, modelID string) ([]models.RawModelResponse, error) {
	results, err := ParseSnapshot(bodyBytes)
	if err != nil {
		return nil, err
	}
	responses := make([]models.RawModelResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, ToRawResponse(r, modelID))
	}
	return responses, nil
}

// ToRawResponse converts one snapshot entry. Errors and empty answers become
// unsuccessful responses so the scorer records them as "no signal".
func ToRawResponse(result SnapshotResult, modelID string) models.RawModelResponse {
	resp := models.RawModelResponse{ModelID: modelID}

	switch {
	case result.Error != "":
		resp.Error = result.Error
		return resp
	case strings.TrimSpace(result.AnswerTextMarkdown) == "":
		resp.Error = FailedRunError
		return resp
	}

	resp.Success = true
	resp.Text = fixCitations(result.AnswerTextMarkdown, result.LinksAttached)
	resp.Citations = decodeCitations(result.Citations, result.LinksAttached)
	if len(resp.Citations) == 0 {
		resp.Citations = InlineCitations(result.AnswerTextMarkdown)
	}
	return resp
}

// decodeCitations handles citations that may be null, a string, or an array.
// Titles and positions come from links_attached when the URLs match.
func decodeCitations(raw interface{}, links []LinkAttached) []models.RawCitation {
	byURL := make(map[string]LinkAttached, len(links))
	for _, link := range links {
		byURL[link.URL] = link
	}

	var citations []models.RawCitation
	add := func(u, title string) {
		u = strings.TrimSpace(u)
		if u == "" {
			return
		}
		c := models.RawCitation{URL: u, Title: title}
		if link, ok := byURL[u]; ok {
			if c.Title == "" {
				c.Title = link.Text
			}
			if link.Position > 0 {
				pos := link.Position
				c.Position = &pos
			}
		}
		citations = append(citations, c)
	}

	switch v := raw.(type) {
	case string:
		add(v, "")
	case []interface{}:
		for _, item := range v {
			switch c := item.(type) {
			case string:
				add(c, "")
			case map[string]interface{}:
				u, _ := c["url"].(string)
				title, _ := c["title"].(string)
				add(u, title)
			}
		}
	}

	if len(citations) == 0 {
		for _, link := range links {
			add(link.URL, link.Text)
		}
	}
	return citations
}

// InlineCitations pulls scheme-qualified URLs out of answer text, skipping images
func InlineCitations(text string) []models.RawCitation {
	var citations []models.RawCitation
	seen := make(map[string]bool)
	for _, match := range xurls.Strict().FindAllString(text, -1) {
		urlStr := strings.TrimRight(strings.TrimSpace(match), ".,;:)")
		u, err := url.Parse(urlStr)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		if isImagePath(u.Path) || seen[urlStr] {
			continue
		}
		seen[urlStr] = true
		citations = append(citations, models.RawCitation{URL: urlStr})
	}
	return citations
}

func isImagePath(path string) bool {
	path = strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// fixCitations replaces escaped citation markers like \[1\] with markdown links [1](url)
func fixCitations(text string, links []LinkAttached) string {
	for _, link := range links {
		marker := fmt.Sprintf("\\[%d\\]", link.Position)
		replacement := fmt.Sprintf("[%d](%s)", link.Position, link.URL)
		text = strings.ReplaceAll(text, marker, replacement)
	}
	return text
}
