package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopsense-ai/shopsense/internal/dto"
	"github.com/shopsense-ai/shopsense/internal/usecase"
	"github.com/shopsense-ai/shopsense/internal/util"
)

// InventoryHandler exposes inventory mutation, stock reports, and the
// embedding sync trigger plus job observability.
type InventoryHandler struct {
	sync    *usecase.SyncUsecase
	catalog *usecase.CatalogUsecase
}

func NewInventoryHandler(sync *usecase.SyncUsecase, catalog *usecase.CatalogUsecase) *InventoryHandler {
	return &InventoryHandler{sync: sync, catalog: catalog}
}

func (h *InventoryHandler) RegisterRoutes(app *fiber.App) {
	app.Put("/inventory/:id", h.UpdateInventory)
	app.Get("/inventory/low-stock", h.LowStock)
	app.Get("/inventory/out-of-stock", h.OutOfStock)
	app.Post("/sync/bulk", h.TriggerBulkSync)
	app.Get("/sync/jobs", h.ListJobs)
	app.Get("/sync/jobs/:id", h.GetJob)
}

// UpdateInventory commits the quantity change and reports the embedding
// action that was attempted. An embedding failure degrades gracefully: the
// quantity change still succeeds.
func (h *InventoryHandler) UpdateInventory(c *fiber.Ctx) error {
	var req dto.InventoryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "quantity must be >= 0",
		})
	}

	product, action, err := h.sync.ApplyInventoryUpdate(c.Context(), c.Params("id"), *req.Quantity)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "failed to update inventory",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update inventory",
		Data:    product,
		Meta:    fiber.Map{"embedding_action": action.String()},
	})
}

func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.catalog.LowStock(c.QueryInt("threshold", 0))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list low stock products",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list low stock products",
		Data:    products,
	})
}

func (h *InventoryHandler) OutOfStock(c *fiber.Ctx) error {
	products, err := h.catalog.OutOfStock()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list out of stock products",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list out of stock products",
		Data:    products,
	})
}

func (h *InventoryHandler) TriggerBulkSync(c *fiber.Ctx) error {
	job, err := h.sync.StartBulkSync()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to start bulk sync",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Bulk sync started",
		Data:    job,
	})
}

func (h *InventoryHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.sync.RecentJobs(c.QueryInt("limit", 20))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list jobs",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list jobs",
		Data:    jobs,
	})
}

func (h *InventoryHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.sync.JobByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "job not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job",
		Data:    job,
	})
}
