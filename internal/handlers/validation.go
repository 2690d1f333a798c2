package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report validation failures by json field name, not Go struct field
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON binds the request body into obj. On failure it writes a 400
// naming every failing field and returns false.
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	err := ctx.ShouldBindJSON(obj)

	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors

	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))

		for _, fieldErr := range validationErrs {
			fields[fieldErr.Field()] = validationMessage(fieldErr)
		}

		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": fields})
		return false
	}

	ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	return false
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldErr.Param())
	default:
		return "is invalid"
	}
}
