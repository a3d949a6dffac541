package rest

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// report binding failures under the json names clients send
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON decodes the request body into dst and turns decoding and
// binding-tag failures into a *common.ValidationError.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return common.NewValidationError(fe.Field(), "is required")
		}
		return common.NewValidationError(fe.Field(), "failed "+fe.Tag()+" check")
	}
	return common.NewValidationError("body", err.Error())
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusFor maps service errors onto HTTP statuses. Anything unrecognised
// is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrDenied):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) errorBody(c *gin.Context, err error) (int, errorResponse) {
	status := statusFor(err)

	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return status, errorResponse{Error: ve.Reason, Field: ve.Field}
	case status == http.StatusInternalServerError:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		return status, errorResponse{Error: "internal error"}
	case status == http.StatusUnauthorized && errors.Is(err, common.ErrTokenExpired):
		return status, errorResponse{Error: common.ErrTokenExpired.Error()}
	default:
		// sentinel text only; wrapped details stay server-side
		for _, sentinel := range []error{common.ErrorUnauthorized, common.ErrInvalidToken, common.ErrDenied, common.ErrorNotFound} {
			if errors.Is(err, sentinel) {
				return status, errorResponse{Error: sentinel.Error()}
			}
		}
		return status, errorResponse{Error: err.Error()}
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status, body := s.errorBody(c, err)
	c.JSON(status, body)
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status, body := s.errorBody(c, err)
	c.AbortWithStatusJSON(status, body)
}
