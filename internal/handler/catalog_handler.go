package handler

import (
	"net/http"

	"evimeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 公開カタログのHTTP（GETのみ）
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// /, /health, /products..., /categories... を登録
func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.index)
	e.GET("/health", h.health)

	e.GET("/products", h.listProducts)
	e.GET("/products/featured", h.listFeatured)
	e.GET("/products/search", h.search)
	e.GET("/products/:slug", h.productDetail)

	e.GET("/categories", h.listCategories)
	e.GET("/categories/:slug", h.categoryDetail)
	e.GET("/categories/:slug/products", h.categoryProducts)
	e.GET("/categories/:slug/subcategories", h.subCategories)
}

func (h *CatalogHandler) index(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Index())
}

func (h *CatalogHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Health(c.Request().Context()))
}

func (h *CatalogHandler) listProducts(c echo.Context) error {
	out, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) listFeatured(c echo.Context) error {
	out, err := h.uc.ListFeaturedProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ?q=
func (h *CatalogHandler) search(c echo.Context) error {
	out, err := h.uc.SearchProducts(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) productDetail(c echo.Context) error {
	p, err := h.uc.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) categoryDetail(c echo.Context) error {
	cat, err := h.uc.GetCategoryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

// ?subcategory=
func (h *CatalogHandler) categoryProducts(c echo.Context) error {
	out, err := h.uc.ListProductsByCategory(c.Request().Context(), c.Param("slug"), c.QueryParam("subcategory"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) subCategories(c echo.Context) error {
	out, err := h.uc.ListSubCategories(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
