package interviews

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/domain/model"
	"interview-backend/internal/lifecycle"
	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the interviews service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches interview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interviews", h.create)
	rg.GET("/interviews", h.board)
	rg.GET("/interviews/:id", h.detail)
	rg.POST("/interviews/:id/complete", h.complete)
}

type completeRequest struct {
	Transcript []model.TranscriptEntry `json:"transcript"`
}

func (h *Handler) create(c *gin.Context) {
	var form FormFields
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_json", "request body must be a JSON object", nil)
		return
	}

	iv, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), form)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", verr.Message, []map[string]string{
				{"field": verr.Field, "issue": verr.Code()},
			})
		case errors.Is(err, ErrGenerationFailed):
			respond.Error(c, http.StatusBadGateway, "generation_failed", "Could not generate interview questions. Please try again.", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create interview", nil)
		}
		return
	}

	c.Set(middleware.InterviewIDKey, iv.ID)
	resp := gin.H{
		"success":     true,
		"interviewId": iv.ID,
		"scheduled":   iv.ScheduledFor != nil,
		"next":        "/interview/" + iv.ID,
	}
	if iv.ScheduledFor != nil {
		resp["scheduledFor"] = iv.ScheduledFor
		resp["next"] = "/"
	}
	respond.Created(c, "/api/v1/interviews/"+iv.ID, resp)
}

func (h *Handler) board(c *gin.Context) {
	view, err := h.Svc.Board(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list interviews", nil)
		return
	}

	respond.OK(c, gin.H{
		"pendingScheduled": boardItems(view.PendingScheduled, view.States),
		"missed":           boardItems(view.Missed, view.States),
		"completed":        boardItems(view.Completed, view.States),
		"takeable":         boardItems(view.Takeable, view.States),
		"total":            view.Len(),
	})
}

func (h *Handler) detail(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.InterviewIDKey, id)

	iv, detail, err := h.Svc.Detail(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "interview not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch interview", nil)
		}
		return
	}
	c.Set(middleware.LifecycleKey, string(detail.State))

	respond.OK(c, gin.H{
		"interview": interviewJSON(iv, detail.State),
		"lifecycle": detail,
	})
}

func (h *Handler) complete(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.InterviewIDKey, id)

	var body completeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_json", "request body must be a JSON object", nil)
		return
	}

	done, err := h.Svc.Complete(c.Request.Context(), middleware.UserIDFromContext(c), id, middleware.RequestIDFromContext(c), body.Transcript)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "interview not found", nil)
		case errors.Is(err, ErrNotTakeable):
			respond.Error(c, http.StatusConflict, "not_takeable", "This interview cannot be taken right now.", nil)
		case errors.Is(err, ErrEmptyTranscript):
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "transcript is empty", []map[string]string{
				{"field": "transcript", "issue": "empty"},
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to complete interview", nil)
		}
		return
	}
	c.Set(middleware.LifecycleKey, string(done.TakenAs))

	respond.Accepted(c, gin.H{
		"interviewId": done.Interview.ID,
		"status":      done.Interview.Status,
		"takenAs":     done.TakenAs,
		"feedback":    "pending",
	})
}

func boardItems(list []model.Interview, states map[string]lifecycle.State) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, iv := range list {
		state := states[iv.ID]
		if state == lifecycle.PendingScheduled {
			iv.Questions = nil
		}
		out = append(out, interviewJSON(iv, state))
	}
	return out
}

func interviewJSON(iv model.Interview, state lifecycle.State) gin.H {
	item := gin.H{
		"id":        iv.ID,
		"role":      iv.Role,
		"level":     iv.Level,
		"type":      iv.Type,
		"techstack": iv.TechStack,
		"status":    iv.Status,
		"lifecycle": state,
		"createdAt": iv.CreatedAt.Format(time.RFC3339),
	}
	if iv.Questions != nil {
		item["questions"] = iv.Questions
	}
	if iv.ScheduledFor != nil {
		item["scheduledFor"] = iv.ScheduledFor.Format(time.RFC3339)
	}
	return item
}
