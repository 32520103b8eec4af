package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"medresearch/internal/models"
	"medresearch/internal/services"
)

type ProjectHandler struct {
	service services.ProjectService
}

func NewProjectHandler(service services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func projectErrStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrLeadUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrTooManyMembers),
		errors.Is(err, services.ErrProjectNameTaken):
		return http.StatusBadRequest
	}
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// @Summary      List projects
// @Tags         Projects
// @Produce      json
// @Success      200  {array}  models.Project
// @Router       /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.service.ListProjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not fetch projects"})
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	c.JSON(http.StatusOK, projects)
}

// @Summary      Create a project
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Param        project  body  models.ProjectCreate  true  "Project data"
// @Success      201  {object}  models.Project
// @Failure      400  {object}  map[string]string
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req models.ProjectCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	p, err := h.service.CreateProject(&req)
	if err != nil {
		c.JSON(projectErrStatus(err), gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Update a project
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Param        id       path  int                   true  "Project ID"
// @Param        project  body  models.ProjectUpdate  true  "Fields to update"
// @Success      200  {object}  models.Project
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [put]
func (h *ProjectHandler) EditProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return
	}
	var upd models.ProjectUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	p, err := h.service.UpdateProject(id, &upd)
	if err != nil {
		c.JSON(projectErrStatus(err), gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      List users for project membership
// @Tags         Projects
// @Produce      json
// @Success      200  {array}  models.UserSummary
// @Router       /projects/users [get]
func (h *ProjectHandler) ListProjectUsers(c *gin.Context) {
	users, err := h.service.ListProjectUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}
