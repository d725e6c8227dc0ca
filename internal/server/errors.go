package server

import (
	"errors"
	"net/http"
	"strings"

	availabilitydomain "github.com/bookwise/bookwise/internal/availability/domain"
	offeringdomain "github.com/bookwise/bookwise/internal/offering/domain"
	pricingdomain "github.com/bookwise/bookwise/internal/pricing/domain"
	ruledomain "github.com/bookwise/bookwise/internal/pricingrule/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrTooManyRequest = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if rvErr := asRuleValidationError(err); rvErr != nil {
		fields := make([]ValidationError, 0, len(rvErr.Messages))
		for _, msg := range rvErr.Messages {
			fields = append(fields, ValidationError{
				Field:   "pricing_rule",
				Code:    "pricing_rule_validation_failed",
				Message: msg,
			})
		}
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "pricing rule validation failed",
			Errors:  fields,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, availabilitydomain.ErrInvalidBookingCount),
		errors.Is(err, availabilitydomain.ErrGenerationLocked):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, ErrTooManyRequest),
		errors.Is(err, availabilitydomain.ErrGenerationThrottled):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func asRuleValidationError(err error) *ruledomain.ValidationError {
	var vErr *ruledomain.ValidationError
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isOfferingValidationError(err),
		isPricingRuleValidationError(err),
		isPricingValidationError(err),
		isAvailabilityValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, offeringdomain.ErrNotFound),
		errors.Is(err, ruledomain.ErrNotFound),
		errors.Is(err, availabilitydomain.ErrSlotNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isOfferingValidationError(err error) bool {
	switch err {
	case offeringdomain.ErrInvalidTenant,
		offeringdomain.ErrInvalidName,
		offeringdomain.ErrInvalidBasePrice,
		offeringdomain.ErrInvalidCurrency,
		offeringdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isPricingRuleValidationError(err error) bool {
	switch err {
	case ruledomain.ErrInvalidTenant,
		ruledomain.ErrInvalidID,
		ruledomain.ErrInvalidOffering,
		ruledomain.ErrInvalidName:
		return true
	default:
		return false
	}
}

func isPricingValidationError(err error) bool {
	switch err {
	case pricingdomain.ErrInvalidTenant,
		pricingdomain.ErrInvalidOffering,
		pricingdomain.ErrInvalidQuantity,
		pricingdomain.ErrInvalidDate,
		pricingdomain.ErrInvalidTime:
		return true
	default:
		return false
	}
}

func isAvailabilityValidationError(err error) bool {
	switch err {
	case availabilitydomain.ErrInvalidTenant,
		availabilitydomain.ErrInvalidOffering,
		availabilitydomain.ErrInvalidDateRange,
		availabilitydomain.ErrInvalidTemplate,
		availabilitydomain.ErrInvalidTime:
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog maps the request's terminal error to the error_type and
// error_code fields of the access log.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if vErr := asValidationErrors(err); vErr != nil {
		if len(vErr.Errors) > 0 {
			return "validation_error", vErr.Errors[0].Code
		}
		return "validation_error", ""
	}
	if asRuleValidationError(err) != nil {
		return "validation_error", "pricing_rule_validation_failed"
	}
	if isValidationError(err) {
		return "validation_error", validationErrorCode(err)
	}
	if isNotFoundError(err) {
		return "not_found", err.Error()
	}
	return "internal_error", err.Error()
}
