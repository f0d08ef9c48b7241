package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anayki/biz_erp_app/internal/apperrors"
	"github.com/anayki/biz_erp_app/internal/core/domain"
	portssvc "github.com/anayki/biz_erp_app/internal/core/ports/services"
	"github.com/anayki/biz_erp_app/internal/dto"
	"github.com/anayki/biz_erp_app/internal/middleware"
)

// autoAnalyticalModelHandler handles HTTP requests for auto-analytical rules.
type autoAnalyticalModelHandler struct {
	modelService portssvc.AutoAnalyticalSvcFacade
}

func newAutoAnalyticalModelHandler(ms portssvc.AutoAnalyticalSvcFacade) *autoAnalyticalModelHandler {
	return &autoAnalyticalModelHandler{modelService: ms}
}

// registerAutoAnalyticalModelRoutes registers routes for auto-analytical rules.
func registerAutoAnalyticalModelRoutes(rg *gin.RouterGroup, modelService portssvc.AutoAnalyticalSvcFacade) {
	h := newAutoAnalyticalModelHandler(modelService)

	models := rg.Group("/auto-analytical-models")
	{
		models.POST("", h.createModel)
		models.GET("", h.listModels)
		models.GET("/:id", h.getModelByID)
		models.PUT("/:id", h.updateModel)
		models.POST("/:id/confirm", h.confirmModel)
		models.POST("/:id/cancel", h.cancelModel)
	}
}

// createModel godoc
// @Summary Create an auto-analytical rule
// @Description Creates a DRAFT rule mapping line attributes to an analytical account.
// @Tags auto-analytical-models
// @Accept json
// @Produce json
// @Param model body dto.CreateAutoAnalyticalModelRequest true "Rule details"
// @Success 201 {object} dto.AutoAnalyticalModelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auto-analytical-models [post]
func (h *autoAnalyticalModelHandler) createModel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAutoAnalyticalModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateModel", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	model, err := h.modelService.CreateModel(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrReferential) {
			logger.Warn("Validation error creating model", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create model in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create auto-analytical model"})
		}
		return
	}

	logger.Info("Auto-analytical model created", slog.String("model_id", model.ModelID))
	c.JSON(http.StatusCreated, dto.ToAutoAnalyticalModelResponse(model))
}

// listModels godoc
// @Summary List auto-analytical rules
// @Tags auto-analytical-models
// @Produce json
// @Param status query string false "Filter by rule status (DRAFT, CONFIRMED, CANCELLED)"
// @Param active query bool false "Filter by active flag"
// @Success 200 {array} dto.AutoAnalyticalModelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auto-analytical-models [get]
func (h *autoAnalyticalModelHandler) listModels(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListModelsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	models, err := h.modelService.ListModels(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list models", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list auto-analytical models"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAutoAnalyticalModelResponses(models))
}

// getModelByID godoc
// @Summary Get an auto-analytical rule
// @Tags auto-analytical-models
// @Produce json
// @Param id path string true "Model ID"
// @Success 200 {object} dto.AutoAnalyticalModelResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auto-analytical-models/{id} [get]
func (h *autoAnalyticalModelHandler) getModelByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	modelID := c.Param("id")

	model, err := h.modelService.GetModelByID(c.Request.Context(), modelID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Auto-analytical model not found"})
		} else {
			logger.Error("Failed to get model", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve auto-analytical model"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAutoAnalyticalModelResponse(model))
}

// updateModel godoc
// @Summary Update an auto-analytical rule
// @Description Edits a rule. Matching fields are mutable only while DRAFT;
// @Description the active flag may be toggled at any time.
// @Tags auto-analytical-models
// @Accept json
// @Produce json
// @Param id path string true "Model ID"
// @Param model body dto.UpdateAutoAnalyticalModelRequest true "Fields to update"
// @Success 200 {object} dto.AutoAnalyticalModelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Matching fields frozen after confirmation"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auto-analytical-models/{id} [put]
func (h *autoAnalyticalModelHandler) updateModel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	modelID := c.Param("id")

	var req dto.UpdateAutoAnalyticalModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	model, err := h.modelService.UpdateModel(c.Request.Context(), modelID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Auto-analytical model not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Attempted to edit frozen model fields", slog.String("model_id", modelID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrReferential) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update model", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update auto-analytical model"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAutoAnalyticalModelResponse(model))
}

// confirmModel godoc
// @Summary Confirm an auto-analytical rule
// @Description Flips a DRAFT rule to CONFIRMED, making it eligible for resolution.
// @Tags auto-analytical-models
// @Produce json
// @Param id path string true "Model ID"
// @Success 200 {object} dto.AutoAnalyticalModelResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Rule is not DRAFT"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auto-analytical-models/{id}/confirm [post]
func (h *autoAnalyticalModelHandler) confirmModel(c *gin.Context) {
	h.transitionModel(c, h.modelService.ConfirmModel, "confirm")
}

// cancelModel godoc
// @Summary Cancel an auto-analytical rule
// @Description Flips a rule to CANCELLED, removing it from resolution.
// @Tags auto-analytical-models
// @Produce json
// @Param id path string true "Model ID"
// @Success 200 {object} dto.AutoAnalyticalModelResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /auto-analytical-models/{id}/cancel [post]
func (h *autoAnalyticalModelHandler) cancelModel(c *gin.Context) {
	h.transitionModel(c, h.modelService.CancelModel, "cancel")
}

func (h *autoAnalyticalModelHandler) transitionModel(
	c *gin.Context,
	transition func(ctx context.Context, modelID string, userID string) (*domain.AutoAnalyticalModel, error),
	action string,
) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	modelID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	model, err := transition(c.Request.Context(), modelID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Auto-analytical model not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Invalid model transition", slog.String("model_id", modelID), slog.String("action", action))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to transition model", slog.String("error", err.Error()), slog.String("action", action))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " auto-analytical model"})
		}
		return
	}

	logger.Info("Model transition applied", slog.String("model_id", modelID), slog.String("action", action))
	c.JSON(http.StatusOK, dto.ToAutoAnalyticalModelResponse(model))
}
