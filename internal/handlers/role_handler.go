package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medresearch/internal/models"
	"medresearch/internal/repositories"
)

type RoleHandler struct {
	roles repositories.RoleRepository
}

func NewRoleHandler(roles repositories.RoleRepository) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// @Summary      List roles
// @Tags         Roles
// @Produce      json
// @Success      200  {array}  models.Role
// @Router       /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roles.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not fetch roles"})
		return
	}
	if roles == nil {
		roles = []*models.Role{}
	}
	c.JSON(http.StatusOK, roles)
}
