package handler

import (
	"net/http"
	"strconv"

	"github.com/arliBukasa/pos-caisse/internal/dto"
	"github.com/arliBukasa/pos-caisse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PainHandler struct{ svc service.PainService }

func NewPainHandler(svc service.PainService) *PainHandler { return &PainHandler{svc: svc} }

// List serves the active catalog; the unfiltered list is redis-cached.
func (h *PainHandler) List(c *gin.Context) {
	search := c.Query("search")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

	resp, err := h.svc.List(c.Request.Context(), search, limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *PainHandler) Get(c *gin.Context) {
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

func (h *PainHandler) Create(c *gin.Context) {
	var req dto.CreatePainRequest
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

func (h *PainHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	var req dto.UpdatePainRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Delete archives the type when order lines still reference it.
func (h *PainHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, service.ErrValidation)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
