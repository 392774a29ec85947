package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopsense-ai/shopsense/internal/dto"
	"github.com/shopsense-ai/shopsense/internal/repository"
	"github.com/shopsense-ai/shopsense/internal/response"
	"github.com/shopsense-ai/shopsense/internal/usecase"
	"github.com/shopsense-ai/shopsense/internal/util"
)

type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/products", h.CreateProduct)
	app.Get("/products", h.ListProducts)
	app.Get("/products/sku/:sku", h.GetProductBySKU)
	app.Get("/products/:id", h.GetProduct)
	app.Put("/products/:id", h.UpdateProduct)
	app.Get("/categories", h.ListCategories)
	app.Post("/categories", h.CreateCategory)
	app.Get("/brands", h.ListBrands)
	app.Post("/brands", h.CreateBrand)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	p, err := h.uc.CreateProduct(c.Context(), req)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "failed to create product",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create product",
		Data:    p,
	})
}

func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	q := repository.ProductQuery{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
	if c.Query("is_active") != "" {
		active := c.QueryBool("is_active")
		q.IsActive = &active
	}
	if c.Query("has_stock") != "" {
		hasStock := c.QueryBool("has_stock")
		q.HasStock = &hasStock
	}

	products, total, err := h.uc.ListProducts(q)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list products",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success list products",
		Data:       products,
		Pagination: response.NewPagination(page, pageSize, len(products), total),
	})
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	p, err := h.uc.GetProduct(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "product not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get product",
		Data:    p,
	})
}

func (h *CatalogHandler) GetProductBySKU(c *fiber.Ctx) error {
	p, err := h.uc.GetProductBySKU(c.Params("sku"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "product not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get product",
		Data:    p,
	})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var req dto.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	p, err := h.uc.UpdateProduct(c.Context(), c.Params("id"), req)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "failed to update product",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update product",
		Data:    p,
	})
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.uc.ListCategories()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list categories",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list categories",
		Data:    categories,
	})
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.TaxonomyCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	category, err := h.uc.CreateCategory(req)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "failed to create category",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create category",
		Data:    category,
	})
}

func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	brands, err := h.uc.ListBrands()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list brands",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list brands",
		Data:    brands,
	})
}

func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var req dto.TaxonomyCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	brand, err := h.uc.CreateBrand(req)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "failed to create brand",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create brand",
		Data:    brand,
	})
}
