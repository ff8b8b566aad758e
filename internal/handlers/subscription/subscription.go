// internal/handlers/subscription/subscription.go
package subscription

import (
	"net/http"
	"strconv"

	"worklink-service/internal/domain/subscription"
	"worklink-service/internal/middleware"
	"worklink-service/internal/pkg/response"
	service "worklink-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// ========== Plan catalog ==========

func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var req subscription.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid plan request", err)
		return
	}

	plan, err := h.subscriptionService.CreatePlan(c.Request.Context(), p, &req)
	if err != nil {
		response.FromError(c, "failed to create plan", err)
		return
	}

	response.Success(c, http.StatusCreated, "plan created", plan)
}

func (h *SubscriptionHandler) GetPlan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid plan ID", err)
		return
	}

	plan, err := h.subscriptionService.GetPlan(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "failed to load plan", err)
		return
	}

	response.Success(c, http.StatusOK, "plan retrieved", plan)
}

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "plans retrieved", plans)
}

// ========== Managed subscriptions ==========

func (h *SubscriptionHandler) Create(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var req subscription.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid subscription request", err)
		return
	}

	sub, err := h.subscriptionService.Create(c.Request.Context(), p, &req)
	if err != nil {
		response.FromError(c, "failed to open subscription", err)
		return
	}

	response.Success(c, http.StatusCreated, "subscription opened", sub)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	sub, err := h.subscriptionService.Get(c.Request.Context(), p, id)
	if err != nil {
		response.FromError(c, "failed to load subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", sub)
}

func (h *SubscriptionHandler) UpdateStatus(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid subscription ID", err)
		return
	}

	var req subscription.UpdateSubscriptionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid status request", err)
		return
	}

	if err := h.subscriptionService.UpdateStatus(c.Request.Context(), p, id, &req); err != nil {
		response.FromError(c, "failed to change subscription status", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription status changed", nil)
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var filters subscription.SubscriptionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid list filters", err)
		return
	}

	result, err := h.subscriptionService.List(c.Request.Context(), p, &filters)
	if err != nil {
		response.FromError(c, "failed to list subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved", result)
}
