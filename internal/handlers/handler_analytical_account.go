package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/dto"
	"github.com/anayki/biz_erp_app/internal/middleware"
)

// analyticalAccountHandler handles HTTP requests for the cost-center tree.
type analyticalAccountHandler struct {
	accountService portssvc.AnalyticalAccountSvcFacade
}

func newAnalyticalAccountHandler(as portssvc.AnalyticalAccountSvcFacade) *analyticalAccountHandler {
	return &analyticalAccountHandler{accountService: as}
}

// registerAnalyticalAccountRoutes registers routes related to analytical accounts.
func registerAnalyticalAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AnalyticalAccountSvcFacade) {
	h := newAnalyticalAccountHandler(accountService)

	accounts := rg.Group("/analytical-accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccountByID)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deactivateAccount)
	}
}

// createAccount godoc
// @Summary Create an analytical account
// @Description Creates a cost center, optionally under a parent account.
// @Tags analytical-accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAnalyticalAccountRequest true "Account details"
// @Success 201 {object} dto.AnalyticalAccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Account code already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /analytical-accounts [post]
func (h *analyticalAccountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAnalyticalAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate account code", slog.String("code", req.Code))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrReferential) {
			logger.Warn("Validation error creating account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create analytical account"})
		}
		return
	}

	logger.Info("Analytical account created", slog.String("account_id", account.AnalyticalAccountID))
	c.JSON(http.StatusCreated, dto.ToAnalyticalAccountResponse(account))
}

// listAccounts godoc
// @Summary List analytical accounts
// @Description Lists cost centers, active only unless includeInactive is set.
// @Tags analytical-accounts
// @Produce json
// @Param includeInactive query bool false "Include deactivated accounts"
// @Success 200 {array} dto.AnalyticalAccountResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /analytical-accounts [get]
func (h *analyticalAccountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	includeInactive := c.Query("includeInactive") == "true"

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), includeInactive)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analytical accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalyticalAccountResponses(accounts))
}

// getAccountByID godoc
// @Summary Get an analytical account
// @Tags analytical-accounts
// @Produce json
// @Param id path string true "Analytical account ID"
// @Success 200 {object} dto.AnalyticalAccountResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /analytical-accounts/{id} [get]
func (h *analyticalAccountHandler) getAccountByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analytical account not found"})
		} else {
			logger.Error("Failed to get account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytical account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalyticalAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an analytical account
// @Description Edits name, parent or active flag. Re-parenting into the
// @Description account's own subtree is rejected.
// @Tags analytical-accounts
// @Accept json
// @Produce json
// @Param id path string true "Analytical account ID"
// @Param account body dto.UpdateAnalyticalAccountRequest true "Fields to update"
// @Success 200 {object} dto.AnalyticalAccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /analytical-accounts/{id} [put]
func (h *analyticalAccountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.UpdateAnalyticalAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analytical account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrReferential) {
			logger.Warn("Validation error updating account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update analytical account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalyticalAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an analytical account
// @Description Soft-deletes a cost center. Historical references stay intact.
// @Tags analytical-accounts
// @Produce json
// @Param id path string true "Analytical account ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /analytical-accounts/{id} [delete]
func (h *analyticalAccountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), accountID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analytical account not found"})
		} else {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate analytical account"})
		}
		return
	}

	logger.Info("Analytical account deactivated", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}
