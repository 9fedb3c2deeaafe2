package handler

import (
	"net/http"
	"strconv"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/middleware"
	"github.com/arliBukasa/pos-caisse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct{ svc service.SessionService }

func NewSessionHandler(svc service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Manage is the single POST /v1/sessions entry point the terminals call:
// state=open opens (or returns) the caller's session, state=close closes one,
// any other state value lists sessions filtered by it.
func (h *SessionHandler) Manage(c *gin.Context) {
	var req dto.ManageSessionsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}

	switch req.State {
	case "open":
		resp, err := h.svc.Open(c.Request.Context(), userID)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"sessions": []dto.SessionResponse{*resp}})
	case "close":
		if req.SessionID == nil {
			fail(c, service.ErrValidation)
			return
		}
		sessionID, err := uuid.Parse(*req.SessionID)
		if err != nil {
			fail(c, service.ErrValidation)
			return
		}
		if err := h.svc.Close(c.Request.Context(), sessionID, userID, claims.IsAdmin()); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{})
	default:
		resp, err := h.svc.List(c.Request.Context(), req.State, req.Page, req.Limit)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{
			"sessions": resp.Sessions,
			"page":     resp.Page,
			"limit":    resp.Limit,
			"total":    resp.Total,
		})
	}
}

func (h *SessionHandler) List(c *gin.Context) {
	state := c.Query("state")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.svc.List(c.Request.Context(), state, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"sessions": resp.Sessions,
		"page":     resp.Page,
		"limit":    resp.Limit,
		"total":    resp.Total,
	})
}

func (h *SessionHandler) Dashboard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Reopen is the administrative override that clears the closing timestamp.
func (h *SessionHandler) Reopen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	if err := h.svc.Reopen(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id.String(), "state": "ouvert"})
}

// Rapport enqueues the sales report PDF job; generation is asynchronous.
func (h *SessionHandler) Rapport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	if err := h.svc.EnqueueRapport(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusAccepted, gin.H{"id": id.String(), "rapport": "en_file"})
}
