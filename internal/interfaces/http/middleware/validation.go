package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/levelshop/backend/internal/interfaces/http/dto"
)

const categoryTag = "account_category"

var registerRules sync.Once

// SetupValidator registers the storefront rules on gin's validator and
// names fields by their json tag, falling back to the form tag
func SetupValidator() {
	registerRules.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation(categoryTag, func(fl validator.FieldLevel) bool {
			return storefront.Category(fl.Field().String()).Valid()
		})
	})
}

func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		name, _, _ = strings.Cut(f.Tag.Get("form"), ",")
	}
	return name
}

// ruleMessages explains a failed rule to the admin UI
var ruleMessages = map[string]func(validator.FieldError) string{
	"required": func(validator.FieldError) string { return "This field is required" },
	"min":      func(e validator.FieldError) string { return bound("at least", e) },
	"max":      func(e validator.FieldError) string { return bound("at most", e) },
	"gte":      func(e validator.FieldError) string { return "Must be greater than or equal to " + e.Param() },
	"lte":      func(e validator.FieldError) string { return "Must be less than or equal to " + e.Param() },
	"oneof":    func(e validator.FieldError) string { return "Must be one of: " + e.Param() },
	"url":      func(validator.FieldError) string { return "Invalid URL format" },
	categoryTag: func(validator.FieldError) string {
		return fmt.Sprintf("Must be one of: %s %s", storefront.CategoryPremium, storefront.CategoryVarious)
	},
}

// bound words a min or max rule by the kind of field it applies to
func bound(limit string, e validator.FieldError) string {
	switch e.Kind() {
	case reflect.String:
		return fmt.Sprintf("Must be %s %s characters", limit, e.Param())
	case reflect.Slice:
		if limit == "at least" {
			return fmt.Sprintf("Must contain at least %s item(s)", e.Param())
		}
		return fmt.Sprintf("Must contain at most %s item(s)", e.Param())
	default:
		return fmt.Sprintf("Must be %s %s", limit, e.Param())
	}
}

func ruleMessage(e validator.FieldError) string {
	if msg, ok := ruleMessages[e.Tag()]; ok {
		return msg(e)
	}
	return "Invalid value"
}

// FormatValidationErrors turns a bind error into the error envelope. Errors
// that are not rule failures mean the body did not parse.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var failed validator.ValidationErrors
	if !errors.As(err, &failed) {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, "Request body could not be parsed", requestID)
	}

	details := make([]dto.ValidationDetail, len(failed))
	for i, e := range failed {
		details[i] = dto.ValidationDetail{Field: e.Field(), Message: ruleMessage(e)}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers 400 for a failed bind
func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}
