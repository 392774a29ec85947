package usecase

import "strings"

// Intent is the coarse classification of a chat message. The classifier is a
// keyword heuristic, kept as a pure function so it can be swapped for a real
// classifier without touching callers.
type Intent string

const (
	IntentSearch    Intent = "search"
	IntentInventory Intent = "inventory"
	IntentChat      Intent = "chat"
)

var searchKeywords = []string{
	"find",
	"search",
	"show me",
	"looking for",
	"recommend",
	"suggest",
	"buy",
	"browse",
	"do you have",
	"do you sell",
}

var inventoryKeywords = []string{
	"stock",
	"inventory",
	"restock",
	"quantity",
	"how many",
	"sold out",
	"running low",
	"availability",
}

// ClassifyIntent matches the lowercase message against the two keyword sets.
// A tie (both sets match) or no match at all falls through to plain chat.
func ClassifyIntent(message string) Intent {
	m := strings.ToLower(message)
	isSearch := containsAny(m, searchKeywords)
	isInventory := containsAny(m, inventoryKeywords)

	switch {
	case isSearch && !isInventory:
		return IntentSearch
	case isInventory && !isSearch:
		return IntentInventory
	default:
		return IntentChat
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
