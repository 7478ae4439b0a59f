package api

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
)

// statusFor maps service error codes to HTTP statuses.
func statusFor(code string) int {
	switch code {
	case "validation_error",
		"duplicate_membership",
		"membership_not_found",
		"already_subscribed",
		"subscription_not_found",
		"self_subscription",
		"invalid_credentials",
		"email_taken",
		"username_taken",
		"invalid_image":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "forbidden":
		return http.StatusForbidden
	case "invalid_token":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "code", "fields"} and aborts.
func respondError(c *gin.Context, err error) {
	code := service.ErrorCode(err)
	status := statusFor(code)

	body := gin.H{"error": err.Error(), "code": code}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		body["error"] = "invalid input."
		body["fields"] = ve.Fields
	}
	if status == http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		body["error"] = "internal server error."
	}
	c.AbortWithStatusJSON(status, body)
}

// respondBindError reports a request body that gin could not bind.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(c, &service.ValidationError{Fields: map[string]string{"non_field_errors": "malformed request body."}})
		return
	}
	ve := &service.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		msg := "invalid value."
		if fe.Tag() == "required" {
			msg = "this field is required."
		}
		if _, ok := ve.Fields[fe.Field()]; !ok {
			ve.Fields[fe.Field()] = msg
		}
	}
	respondError(c, ve)
}

func respondNotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found.", "code": "not_found"})
}

// pathID parses a positive integer path parameter. It responds 404 and
// returns false when the parameter is not an id.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		respondNotFound(c)
		return 0, false
	}
	return uint(id), true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(c, &service.ValidationError{Fields: map[string]string{name: "a valid non-negative integer is required."}})
		return 0, false
	}
	return n, true
}

var bindingOnce sync.Once

// useJSONFieldNames makes gin's binding validator report json field names.
func useJSONFieldNames() {
	bindingOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}
