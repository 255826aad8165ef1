// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "url":
		return err.Field() + " must be a valid URL"
	case "gtfield":
		return err.Field() + " must be after " + err.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

func validationErrors(err error) []string {
	var msgs []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			msgs = append(msgs, getValidationErrorMessage(verr))
		}
		return msgs
	}
	return []string{err.Error()}
}

// asBusinessError unwraps err into a BusinessError when possible
func asBusinessError(err error, target **businessflow.BusinessError) bool {
	return errors.As(err, target)
}

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "timeout", timeout)
	ctx = context.WithValue(ctx, "cancel_func", cancel) // Stored so late consumers can clean up

	return ctx
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		metadata.SetRequestID(requestID)
	}
	return metadata
}

// accountIDFromContext reads the authenticated account ID set by the auth middleware
func accountIDFromContext(c fiber.Ctx) (uint, error) {
	accountID, ok := c.Locals("account_id").(uint)
	if !ok || accountID == 0 {
		return 0, fmt.Errorf("account ID missing from request context")
	}
	return accountID, nil
}

func parseUintParam(c fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return uint(parsed), nil
}

func parseIntQuery(c fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseOptionalUintQuery(c fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, err
	}
	v := uint(parsed)
	return &v, nil
}
