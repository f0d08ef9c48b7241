package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anayki/biz_erp_app/internal/core/domain"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/middleware"
)

// masterDataHandler exposes the read-only master-data lookups the UI needs
// to build documents. Master data itself is managed elsewhere.
type masterDataHandler struct {
	masterDataService portssvc.MasterDataSvcFacade
}

func newMasterDataHandler(ms portssvc.MasterDataSvcFacade) *masterDataHandler {
	return &masterDataHandler{masterDataService: ms}
}

func registerMasterDataRoutes(rg *gin.RouterGroup, masterDataService portssvc.MasterDataSvcFacade) {
	h := newMasterDataHandler(masterDataService)

	rg.GET("/contacts", h.listContacts)
	rg.GET("/products", h.listProducts)
	rg.GET("/categories", h.listCategories)
}

// listContacts godoc
// @Summary List active contacts
// @Tags master-data
// @Produce json
// @Param type query string false "Filter by contact type (VENDOR, CUSTOMER)"
// @Success 200 {array} domain.Contact
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /contacts [get]
func (h *masterDataHandler) listContacts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var contactType *domain.ContactType
	if raw := c.Query("type"); raw != "" {
		t := domain.ContactType(raw)
		if t != domain.ContactVendor && t != domain.ContactCustomer {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact type"})
			return
		}
		contactType = &t
	}

	contacts, err := h.masterDataService.ListContacts(c.Request.Context(), contactType)
	if err != nil {
		logger.Error("Failed to list contacts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contacts"})
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// listProducts godoc
// @Summary List active products
// @Tags master-data
// @Produce json
// @Success 200 {array} domain.Product
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /products [get]
func (h *masterDataHandler) listProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	products, err := h.masterDataService.ListProducts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list products", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// listCategories godoc
// @Summary List product categories
// @Tags master-data
// @Produce json
// @Success 200 {array} domain.Category
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *masterDataHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	categories, err := h.masterDataService.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list categories", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}
