package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/atelier-sns/atelier/internal/application"
	"github.com/atelier-sns/atelier/internal/domain/entity"
	"github.com/atelier-sns/atelier/pkg/response"
	"github.com/atelier-sns/atelier/pkg/validation"
)

type WorkHandler struct {
	Svc    *application.WorkService
	Logger *logrus.Logger
}

func NewWorkHandler(svc *application.WorkService, logger *logrus.Logger) *WorkHandler {
	return &WorkHandler{Svc: svc, Logger: logger}
}

type createWorkRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Visibility string `json:"visibility" binding:"omitempty,oneof=private public friends"`
}

func workView(w *entity.Work) gin.H {
	return gin.H{
		"id":          w.ID,
		"title":       w.Title,
		"content":     w.Content,
		"author_id":   w.AuthorID,
		"author_name": w.AuthorName,
		"visibility":  w.Visibility,
		"created_at":  w.CreatedAt,
	}
}

func workViews(works []*entity.Work) []gin.H {
	out := make([]gin.H, 0, len(works))
	for _, w := range works {
		out = append(out, workView(w))
	}
	return out
}

// Create posts a new work. Omitted visibility means private.
func (h *WorkHandler) Create(c *gin.Context) {
	uid := c.GetString("userID")
	var req createWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	w, err := h.Svc.CreateWork(c.Request.Context(), uid, req.Title, req.Content, entity.ParseVisibility(req.Visibility))
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("create work failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create work", nil)
		return
	}
	response.Success(c, http.StatusCreated, workView(w), "work created", nil)
}

// Get returns a single work. 404 and 403 stay distinct: a work that
// exists but is hidden from the caller is forbidden, not missing.
func (h *WorkHandler) Get(c *gin.Context) {
	uid := c.GetString("userID")
	w, err := h.Svc.GetWork(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrWorkNotFound):
			response.Error[any](c, http.StatusNotFound, "work not found", nil)
		case errors.Is(err, application.ErrForbidden):
			response.Error[any](c, http.StatusForbidden, "you do not have access to this work", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).Error("get work failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to load work", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, workView(w), "work", nil)
}

// Feed returns the caller's dashboard: own works plus works visible to
// them.
func (h *WorkHandler) Feed(c *gin.Context) {
	uid := c.GetString("userID")
	feed, err := h.Svc.ComposeFeed(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("compose feed failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to compose feed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"own":     workViews(feed.Own),
		"visible": workViews(feed.Visible),
	}, "feed", nil)
}

// Search queries the works index; results are access-filtered.
func (h *WorkHandler) Search(c *gin.Context) {
	uid := c.GetString("userID")
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	works, err := h.Svc.SearchWorks(c.Request.Context(), uid, q, 10)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, workViews(works), "search results", nil)
}
