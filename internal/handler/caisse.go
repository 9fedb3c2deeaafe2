package handler

import (
	"net/http"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/middleware"
	"github.com/arliBukasa/pos-caisse/internal/model"
	"github.com/arliBukasa/pos-caisse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaisseHandler struct{ svc service.MouvementService }

func NewCaisseHandler(svc service.MouvementService) *CaisseHandler {
	return &CaisseHandler{svc: svc}
}

// Entree records a manual cash-in on the session's drawer.
func (h *CaisseHandler) Entree(c *gin.Context) {
	h.manual(c, model.MouvementEntree)
}

// Sortie records a manual cash-out; the motif is mandatory.
func (h *CaisseHandler) Sortie(c *gin.Context) {
	h.manual(c, model.MouvementSortie)
}

func (h *CaisseHandler) manual(c *gin.Context, typ string) {
	var req dto.CashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}

	var mov *model.Mouvement
	if typ == model.MouvementEntree {
		mov, err = h.svc.CashIn(c.Request.Context(), userID, claims.IsAdmin(), req)
	} else {
		mov, err = h.svc.CashOut(c.Request.Context(), userID, claims.IsAdmin(), req)
	}
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, mouvementToResponse(mov))
}

// ListMouvements returns the movement history of one session.
func (h *CaisseHandler) ListMouvements(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Query("session_id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	mouvements, err := h.svc.List(c.Request.Context(), sessionID)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]dto.MouvementResponse, 0, len(mouvements))
	for i := range mouvements {
		out = append(out, mouvementToResponse(&mouvements[i]))
	}
	ok(c, http.StatusOK, out)
}

func mouvementToResponse(m *model.Mouvement) dto.MouvementResponse {
	var commandeID *string
	if m.CommandeID != nil {
		s := m.CommandeID.String()
		commandeID = &s
	}
	return dto.MouvementResponse{
		ID:         m.ID.String(),
		SessionID:  m.SessionID.String(),
		Type:       m.Type,
		Montant:    m.Montant,
		Motif:      m.Motif,
		CommandeID: commandeID,
		PaieRef:    m.PaieRef,
		CreatedAt:  m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
