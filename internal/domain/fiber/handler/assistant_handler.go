package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopsense-ai/shopsense/internal/dto"
	"github.com/shopsense-ai/shopsense/internal/middleware"
	"github.com/shopsense-ai/shopsense/internal/usecase"
	"github.com/shopsense-ai/shopsense/internal/util"
)

// AssistantHandler exposes the conversational endpoints: chat routing and
// direct semantic search.
type AssistantHandler struct {
	chat   *usecase.ChatUsecase
	search *usecase.SearchUsecase
}

func NewAssistantHandler(chat *usecase.ChatUsecase, search *usecase.SearchUsecase) *AssistantHandler {
	return &AssistantHandler{chat: chat, search: search}
}

func (h *AssistantHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/chat", middleware.RateLimiter(20, 1*time.Minute), h.Chat)
	app.Post("/search", h.Search)
}

func (h *AssistantHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	if req.Message == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "message is required",
		})
	}

	reply, err := h.chat.Handle(c.Context(), req.SessionID, req.Message)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to handle chat message",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success handle chat message",
		Data:    reply,
	})
}

func (h *AssistantHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	if req.Query == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "query is required",
		})
	}

	resp, err := h.search.Search(c.Context(), req.Query, usecase.Filters{
		Category:        req.Category,
		Brand:           req.Brand,
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		InStockOnly:     req.InStockOnly,
		IncludeInactive: req.IncludeInactive,
		MaxResults:      req.MaxResults,
	})
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to search products",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success search products",
		Data:    resp,
	})
}
