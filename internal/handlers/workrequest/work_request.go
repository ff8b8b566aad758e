// internal/handlers/workrequest/work_request.go
package workrequest

import (
	"net/http"
	"strconv"

	"worklink-service/internal/domain/workrequest"
	"worklink-service/internal/middleware"
	"worklink-service/internal/pkg/response"
	service "worklink-service/internal/service/workrequest"

	"github.com/gin-gonic/gin"
)

type WorkRequestHandler struct {
	workRequestService *service.WorkRequestService
}

func NewWorkRequestHandler(workRequestService *service.WorkRequestService) *WorkRequestHandler {
	return &WorkRequestHandler{workRequestService: workRequestService}
}

// Submit files a new work request. Staff only.
func (h *WorkRequestHandler) Submit(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var req workrequest.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid work request", err)
		return
	}

	result, err := h.workRequestService.Submit(c.Request.Context(), p, &req)
	if err != nil {
		response.FromError(c, "failed to submit work request", err)
		return
	}

	response.Success(c, http.StatusCreated, "work request submitted", workrequest.SubmitResponse{
		WorkRequestID: result.ID,
	})
}

// Approve moves a pending request to approved. Client only.
func (h *WorkRequestHandler) Approve(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid work request ID", err)
		return
	}

	if err := h.workRequestService.Approve(c.Request.Context(), p, id); err != nil {
		response.FromError(c, "failed to approve work request", err)
		return
	}

	response.Success(c, http.StatusOK, "work request approved", nil)
}

// Reject moves a pending request to rejected with a reason. Client only.
func (h *WorkRequestHandler) Reject(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid work request ID", err)
		return
	}

	var req workrequest.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "rejection reason is required", err)
		return
	}

	if err := h.workRequestService.Reject(c.Request.Context(), p, id, req.Reason); err != nil {
		response.FromError(c, "failed to reject work request", err)
		return
	}

	response.Success(c, http.StatusOK, "work request rejected", nil)
}

// ChangeStatus advances an approved request through the delivery states.
// Owning employee only.
func (h *WorkRequestHandler) ChangeStatus(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid work request ID", err)
		return
	}

	var req workrequest.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid status request", err)
		return
	}

	if err := h.workRequestService.ChangeStatus(c.Request.Context(), p, id, req.Status); err != nil {
		response.FromError(c, "failed to change work request status", err)
		return
	}

	response.Success(c, http.StatusOK, "work request status changed", nil)
}

// Delete soft-deletes a request and restores what it consumed. Owning
// employee only.
func (h *WorkRequestHandler) Delete(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid work request ID", err)
		return
	}

	if err := h.workRequestService.Delete(c.Request.Context(), p, id); err != nil {
		response.FromError(c, "failed to delete work request", err)
		return
	}

	response.Success(c, http.StatusOK, "work request deleted", nil)
}

func (h *WorkRequestHandler) Get(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid work request ID", err)
		return
	}

	result, err := h.workRequestService.Get(c.Request.Context(), p, id)
	if err != nil {
		response.FromError(c, "failed to load work request", err)
		return
	}

	response.Success(c, http.StatusOK, "work request retrieved", result)
}

func (h *WorkRequestHandler) List(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var filters workrequest.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid list filters", err)
		return
	}

	result, err := h.workRequestService.List(c.Request.Context(), p, &filters)
	if err != nil {
		response.FromError(c, "failed to list work requests", err)
		return
	}

	response.Success(c, http.StatusOK, "work requests retrieved", result)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
