package common

// BrightData API response structures (shared across all snapshot-backed engines)

// ProgressResponse contains the status of a BrightData job
type ProgressResponse struct {
	Status             string `json:"status"`
	SnapshotID         string `json:"snapshot_id"`
	DatasetID          string `json:"dataset_id"`
	Records            *int   `json:"records,omitempty"`
	Errors             *int   `json:"errors,omitempty"`
	CollectionDuration *int   `json:"collection_duration,omitempty"`
}

// StatusResponse is used to check if response is a status object rather than results
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// LinkAttached is a numbered source the engine attached to its answer
type LinkAttached struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// SnapshotResult is one answer inside a snapshot. Citations may be null, a
// single string, or an array of strings or {url,title} objects.
type SnapshotResult struct {
	URL                string         `json:"url"`
	Prompt             string         `json:"prompt"`
	Citations          interface{}    `json:"citations"`
	Country            string         `json:"country"`
	AnswerTextMarkdown string         `json:"answer_text_markdown"`
	WebSearchTriggered bool           `json:"web_search_triggered"`
	Index              int            `json:"index"`
	Error              string         `json:"error,omitempty"`
	Input              *InputEcho     `json:"input,omitempty"` // Echoed back on errors
	LinksAttached      []LinkAttached `json:"links_attached"`
}

// InputEcho is the echoed input for error results
type InputEcho struct {
	URL     string `json:"url"`
	Prompt  string `json:"prompt"`
	Country string `json:"country"`
	Index   int    `json:"index"`
}

// ResultIndex returns the 1-based input index, falling back to the echoed input on errors
func (r SnapshotResult) ResultIndex() int {
	if r.Index == 0 && r.Input != nil {
		return r.Input.Index
	}
	return r.Index
}

// PromptText returns the prompt the result answers
func (r SnapshotResult) PromptText() string {
	if r.Prompt == "" && r.Input != nil {
		return r.Input.Prompt
	}
	return r.Prompt
}
