package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopsense-ai/shopsense/internal/config"
	"github.com/shopsense-ai/shopsense/internal/dto"
	"github.com/shopsense-ai/shopsense/internal/repository"
	"github.com/shopsense-ai/shopsense/internal/service"
)

const chatSystemPrompt = "You are a friendly shopping assistant for an online store. " +
	"Answer briefly and helpfully. If the user seems to want a product, invite them to describe it."

// ChatUsecase routes a message by intent: product search, inventory report,
// or plain chat completion. Session state is just a capped rolling transcript
// kept in memory for the chat path.
type ChatUsecase struct {
	search      *SearchUsecase
	productRepo repository.ProductRepositoryInterface
	chat        service.ChatServiceInterface
	cfg         *config.AssistantConfig

	mu       sync.Mutex
	sessions map[string][]service.ChatMessage
}

func NewChatUsecase(
	search *SearchUsecase,
	productRepo repository.ProductRepositoryInterface,
	chat service.ChatServiceInterface,
	cfg *config.AssistantConfig,
) *ChatUsecase {
	return &ChatUsecase{
		search:      search,
		productRepo: productRepo,
		chat:        chat,
		cfg:         cfg,
		sessions:    make(map[string][]service.ChatMessage),
	}
}

func (uc *ChatUsecase) Handle(ctx context.Context, sessionID, message string) (*dto.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}

	intent := ClassifyIntent(message)
	switch intent {
	case IntentSearch:
		return uc.handleSearch(ctx, message)
	case IntentInventory:
		return uc.handleInventory()
	default:
		return uc.handleChat(ctx, sessionID, message)
	}
}

func (uc *ChatUsecase) handleSearch(ctx context.Context, message string) (*dto.ChatReply, error) {
	resp, err := uc.search.Search(ctx, message, Filters{InStockOnly: true})
	if err != nil {
		return nil, err
	}

	var reply strings.Builder
	if len(resp.Results) == 0 {
		reply.WriteString("I couldn't find anything matching that.")
		if len(resp.Suggestions) > 0 {
			reply.WriteString(" You could try: ")
			reply.WriteString(strings.Join(resp.Suggestions, "; "))
		}
	} else {
		reply.WriteString(fmt.Sprintf("I found %d product(s):\n", len(resp.Results)))
		for i, r := range resp.Results {
			reply.WriteString(fmt.Sprintf("%d. %s — $%.2f", i+1, r.Name, r.Price))
			if r.Brand != "" {
				reply.WriteString(fmt.Sprintf(" (%s)", r.Brand))
			}
			reply.WriteString("\n")
		}
	}

	return &dto.ChatReply{
		Intent:      string(IntentSearch),
		Reply:       strings.TrimSpace(reply.String()),
		Results:     resp.Results,
		Suggestions: resp.Suggestions,
	}, nil
}

func (uc *ChatUsecase) handleInventory() (*dto.ChatReply, error) {
	low, err := uc.productRepo.LowStock(uc.cfg.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	out, err := uc.productRepo.OutOfStock()
	if err != nil {
		return nil, err
	}

	var reply strings.Builder
	reply.WriteString(fmt.Sprintf("Inventory status: %d product(s) low on stock, %d out of stock.", len(low), len(out)))
	for i, p := range low {
		if i == 5 {
			reply.WriteString(" …")
			break
		}
		reply.WriteString(fmt.Sprintf("\nLow: %s (%d left)", p.Name, p.Quantity))
	}
	for i, p := range out {
		if i == 5 {
			reply.WriteString(" …")
			break
		}
		reply.WriteString(fmt.Sprintf("\nOut: %s", p.Name))
	}

	return &dto.ChatReply{
		Intent: string(IntentInventory),
		Reply:  reply.String(),
	}, nil
}

func (uc *ChatUsecase) handleChat(ctx context.Context, sessionID, message string) (*dto.ChatReply, error) {
	if sessionID == "" {
		sessionID = "default"
	}

	transcript := uc.appendTurn(sessionID, service.ChatMessage{Role: "user", Content: message})

	messages := make([]service.ChatMessage, 0, len(transcript)+1)
	messages = append(messages, service.ChatMessage{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, transcript...)

	answer, err := uc.chat.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}
	uc.appendTurn(sessionID, service.ChatMessage{Role: "assistant", Content: answer})

	return &dto.ChatReply{
		Intent: string(IntentChat),
		Reply:  answer,
	}, nil
}

// appendTurn adds a message to the session transcript and trims it to the
// configured number of most recent turns.
func (uc *ChatUsecase) appendTurn(sessionID string, msg service.ChatMessage) []service.ChatMessage {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	transcript := append(uc.sessions[sessionID], msg)
	maxMessages := uc.cfg.MaxTranscriptTurns * 2
	if maxMessages > 0 && len(transcript) > maxMessages {
		transcript = transcript[len(transcript)-maxMessages:]
	}
	uc.sessions[sessionID] = transcript

	out := make([]service.ChatMessage, len(transcript))
	copy(out, transcript)
	return out
}

// Transcript returns a copy of a session's rolling transcript.
func (uc *ChatUsecase) Transcript(sessionID string) []service.ChatMessage {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	t := uc.sessions[sessionID]
	out := make([]service.ChatMessage, len(t))
	copy(out, t)
	return out
}
