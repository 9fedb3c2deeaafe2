package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/arliBukasa/pos-caisse/internal/apierror"
	"github.com/arliBukasa/pos-caisse/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalide: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQueryAndValidate does the same for query-string requests.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametres invalides: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// ok wraps successful gateway responses in the {status, data} envelope the
// POS terminals expect.
func ok(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

// respond writes a success envelope whose payload keys sit at the top level,
// for the endpoints whose contract names its fields (commande, sessions, ...).
func respond(c *gin.Context, code int, payload gin.H) {
	payload["status"] = "success"
	c.JSON(code, payload)
}

// fail maps a service sentinel error to its HTTP status and writes the
// {status: "error", message} envelope. Internal errors are masked.
func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	msg := "Erreur interne du serveur"

	switch {
	case errors.Is(err, service.ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrForbidden):
		code, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrIdentifiantsInvalides),
		errors.Is(err, service.ErrTokenInvalide):
		code, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrSessionFermee),
		errors.Is(err, service.ErrEtatInvalide):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrLigneInvalide),
		errors.Is(err, service.ErrMontantInvalide),
		errors.Is(err, service.ErrMotifManquant),
		errors.Is(err, service.ErrAucuneSessionOuverte):
		code, msg = http.StatusBadRequest, err.Error()
	}

	c.JSON(code, gin.H{"status": "error", "message": msg})
}
