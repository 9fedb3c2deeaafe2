package handler

import (
	"net/http"
	"strconv"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VendeurHandler struct{ svc service.VendeurService }

func NewVendeurHandler(svc service.VendeurService) *VendeurHandler {
	return &VendeurHandler{svc: svc}
}

// Search matches by card number or name fragment.
func (h *VendeurHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	resp, err := h.svc.Search(c.Request.Context(), query, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *VendeurHandler) Create(c *gin.Context) {
	var req dto.CreateVendeurRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Creer(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// Stats returns order count, total sales and commission for one vendeur.
func (h *VendeurHandler) Stats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	resp, err := h.svc.Stats(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
