package task

import (
	"errors"
	"net/http"
	"strconv"

	"tasktracker/internal/domain"
	"tasktracker/internal/middleware"
	"tasktracker/internal/pkg/response"
	"tasktracker/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected gin.IRouter) {
	tasks := protected.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.GET("/:id", h.Get)
		tasks.PATCH("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
		tasks.PATCH("/:id/toggle", h.Toggle)
	}
}

// List returns the caller's tasks, newest first.
// @Summary   List tasks
// @Tags      Tasks
// @Security  BearerAuth
// @Param     page   query int    false "page, default 1"
// @Param     limit  query int    false "page size, default 10, max 100"
// @Param     status query string false "pending | in_progress | completed"
// @Param     search query string false "case-insensitive title substring"
// @Router    /tasks [GET]
func (h *Handler) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	res, err := h.service.List(c.Request.Context(), id.UserID, ListParams{
		Page:   page,
		Limit:  limit,
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		_ = c.Error(err)
		page, limit = NormalizePage(page, limit)
		response.PaginatedError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load tasks",
			[]domain.Task{}, response.Pagination{Page: page, Limit: limit})
		return
	}

	response.Paginated(c, http.StatusOK, res.Items, response.Pagination{
		Page:       res.Page,
		Limit:      res.Limit,
		Total:      res.Total,
		TotalPages: res.TotalPages,
	})
}

func (h *Handler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	t, err := h.service.Create(c.Request.Context(), id.UserID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), id.UserID, taskID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	t, err := h.service.Update(c.Request.Context(), id.UserID, taskID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id.UserID, taskID); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Task deleted")
}

func (h *Handler) Toggle(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	t, err := h.service.Toggle(c.Request.Context(), id.UserID, taskID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func identity(c *gin.Context) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
	}
	return id, ok
}

func taskIDParam(c *gin.Context) (int64, bool) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || taskID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid task ID")
		return 0, false
	}
	return taskID, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verr *validator.Error
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message)
	case errors.Is(err, ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, "TASK_NOT_FOUND", "Task not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
