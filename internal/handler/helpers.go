package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"paulinepos/internal/apierror"
	"paulinepos/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// report fields by their JSON name so clients can map errors to inputs
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the
// caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalide : "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// storeError maps the store's structural errors to HTTP responses.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrUnknownTable):
		c.JSON(http.StatusUnprocessableEntity, apierror.WithCode("unknown_table", err.Error()))
	case errors.Is(err, store.ErrTableRestaurantMismatch):
		c.JSON(http.StatusConflict, apierror.WithCode("table_restaurant_mismatch", err.Error()))
	default:
		_ = c.Error(err)
	}
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, apierror.WithCode("not_found", what+" introuvable"))
}
