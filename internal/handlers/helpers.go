package handlers

import (
	"errors"
	"fmt"

	"aura/internal/apperrors"
	"aura/internal/middleware"
	"aura/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// newValidator builds the request validator with the password-strength rule:
// at least eight characters including a digit and an uppercase letter.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		if len(password) < 8 {
			return false
		}
		var hasDigit, hasUpper bool
		for _, r := range password {
			switch {
			case r >= '0' && r <= '9':
				hasDigit = true
			case r >= 'A' && r <= 'Z':
				hasUpper = true
			}
		}
		return hasDigit && hasUpper
	})
	return v
}

// validationResponse maps validator failures to a 400 with a field-error map.
func validationResponse(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// errorResponse maps a service error onto its HTTP status, falling back to a
// generic 500 message for shapes outside the taxonomy.
func errorResponse(c *fiber.Ctx, err error, fallback string) error {
	message := fallback
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	return c.Status(apperrors.StatusOf(err)).JSON(fiber.Map{"message": message})
}

// principalFromContext reads the identity the auth middleware attached.
func principalFromContext(c *fiber.Ctx) (models.Principal, bool) {
	principal, ok := c.Locals(middleware.PrincipalKey).(models.Principal)
	return principal, ok
}
