// internal/handlers/menu/menu.go
package menu

import (
	"net/http"

	"worklink-service/internal/domain/menu"
	"worklink-service/internal/middleware"
	"worklink-service/internal/pkg/response"
	service "worklink-service/internal/service/menu"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService *service.MenuService
}

func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// MyMenus returns the menu codes the caller's role may see.
func (h *MenuHandler) MyMenus(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	menus, err := h.menuService.MyMenus(c.Request.Context(), p)
	if err != nil {
		response.FromError(c, "failed to load menus", err)
		return
	}

	response.Success(c, http.StatusOK, "menus retrieved", gin.H{
		"menus": menus,
	})
}

// ListAll returns the full role/menu matrix. Admin only.
func (h *MenuHandler) ListAll(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	perms, err := h.menuService.ListAll(c.Request.Context(), p)
	if err != nil {
		response.FromError(c, "failed to list menu permissions", err)
		return
	}

	response.Success(c, http.StatusOK, "menu permissions retrieved", perms)
}

// Upsert sets one role/menu visibility flag. Admin only.
func (h *MenuHandler) Upsert(c *gin.Context) {
	p := middleware.MustGetPrincipal(c)

	var req menu.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid menu permission request", err)
		return
	}

	perm, err := h.menuService.Upsert(c.Request.Context(), p, &req)
	if err != nil {
		response.FromError(c, "failed to update menu permission", err)
		return
	}

	response.Success(c, http.StatusOK, "menu permission updated", perm)
}
