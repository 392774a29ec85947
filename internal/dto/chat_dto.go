package dto

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatReply struct {
	Intent      string         `json:"intent"`
	Reply       string         `json:"reply"`
	Results     []SearchResult `json:"results,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
}
