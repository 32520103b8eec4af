package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medresearch/internal/models"
	"medresearch/internal/services"
)

type AdminHandler struct {
	registrationService services.RegistrationService
}

func NewAdminHandler(registrationService services.RegistrationService) *AdminHandler {
	return &AdminHandler{registrationService: registrationService}
}

// @Summary      List pending registrations
// @Tags         Admin
// @Produce      json
// @Success      200  {array}   models.PendingRegistration
// @Failure      500  {object}  map[string]string
// @Router       /admin/pending-registrations [get]
func (h *AdminHandler) ListPending(c *gin.Context) {
	pendings, err := h.registrationService.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not fetch pending registrations"})
		return
	}
	if pendings == nil {
		pendings = []*models.PendingRegistration{}
	}
	c.JSON(http.StatusOK, pendings)
}

// @Summary      Approve a pending registration
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id       path      int                        true  "Pending registration ID"
// @Param        approve  body      models.RegistrationApprove true  "Role assignment"
// @Success      200  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/pending-registrations/{id}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	pendingID, err := strconv.Atoi(c.Param("id"))
	if err != nil || pendingID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return
	}
	var req models.RegistrationApprove
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, err := h.registrationService.Approve(pendingID, req.RoleIDs)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPendingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		case errors.Is(err, services.ErrInvalidRoleIDs):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			log.Printf("[admin][approve] internal error pendingID=%d: err=%v", pendingID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Reject a pending registration
// @Tags         Admin
// @Param        id  path  int  true  "Pending registration ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/pending-registrations/{id} [delete]
func (h *AdminHandler) Reject(c *gin.Context) {
	pendingID, err := strconv.Atoi(c.Param("id"))
	if err != nil || pendingID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return
	}
	if err := h.registrationService.Reject(pendingID); err != nil {
		if errors.Is(err, services.ErrPendingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
