package handler

import (
	"net/http"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/middleware"
	"github.com/arliBukasa/pos-caisse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommandeHandler struct{ svc service.CommandeService }

func NewCommandeHandler(svc service.CommandeService) *CommandeHandler {
	return &CommandeHandler{svc: svc}
}

// Create handles order creation, optionally confirming in the same call.
// Replayed idempotency keys return the original order with 200 semantics
// preserved inside the success envelope.
func (h *CommandeHandler) Create(c *gin.Context) {
	var req dto.CreateCommandeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"commande": resp})
}

func (h *CommandeHandler) List(c *gin.Context) {
	var filter dto.CommandeListFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *CommandeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *CommandeHandler) Confirmer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}

	resp, err := h.svc.Confirmer(c.Request.Context(), id, userID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *CommandeHandler) Annuler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	if err := h.svc.Annuler(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id.String(), "state": "annule"})
}

func (h *CommandeHandler) Livrer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	if err := h.svc.Livrer(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id.String(), "state": "livre"})
}

// MarquerPayee settles a BP order at end of month.
func (h *CommandeHandler) MarquerPayee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	if err := h.svc.MarquerPayee(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id.String(), "paiement_state": "payee"})
}

// UpdateClient re-resolves the vendor from the new card and optionally
// replaces lines; the linked mouvement follows the new total atomically.
func (h *CommandeHandler) UpdateClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	var req dto.UpdateClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}

	resp, err := h.svc.UpdateClient(c.Request.Context(), id, userID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
