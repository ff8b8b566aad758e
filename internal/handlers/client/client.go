// internal/handlers/client/client.go
package client

import (
	"net/http"
	"strconv"

	"worklink-service/internal/domain/client"
	"worklink-service/internal/middleware"
	"worklink-service/internal/pkg/response"
	service "worklink-service/internal/service/client"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func (h *ClientHandler) Create(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var req client.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid client request", err)
		return
	}

	result, err := h.clientService.Create(c.Request.Context(), p, &req)
	if err != nil {
		response.FromError(c, "failed to register client", err)
		return
	}

	response.Success(c, http.StatusCreated, "client registered", result)
}

func (h *ClientHandler) Get(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	result, err := h.clientService.Get(c.Request.Context(), p, id)
	if err != nil {
		response.FromError(c, "failed to load client", err)
		return
	}

	response.Success(c, http.StatusOK, "client retrieved", result)
}

func (h *ClientHandler) Update(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	var req client.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid update request", err)
		return
	}

	result, err := h.clientService.Update(c.Request.Context(), p, id, &req)
	if err != nil {
		response.FromError(c, "failed to update client", err)
		return
	}

	response.Success(c, http.StatusOK, "client updated", result)
}

func (h *ClientHandler) List(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var filters client.ClientListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid list filters", err)
		return
	}

	result, err := h.clientService.List(c.Request.Context(), p, &filters)
	if err != nil {
		response.FromError(c, "failed to list clients", err)
		return
	}

	response.Success(c, http.StatusOK, "clients retrieved", result)
}
