package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Santos2175/auth-app/internal/common"
)

const (
	msgNoToken      = "Unauthorized - no token provided."
	msgInvalidToken = "Unauthorized - invalid token"
)

// statuses lists the sentinel errors in matching order; the more specific
// validation and unauthorized errors come before their parent.
var statuses = []struct {
	err     error
	status  int
	message string
}{
	{common.ErrRequiredFields, fiber.StatusBadRequest, "Required fields are missing"},
	{common.ErrInvalidEmail, fiber.StatusBadRequest, "Invalid email address"},
	{common.ErrPasswordTooLong, fiber.StatusBadRequest, "Password must be at most 72 bytes"},
	{common.ErrorValidation, fiber.StatusBadRequest, "Invalid request"},
	{common.ErrorAlreadyExists, fiber.StatusBadRequest, "User already exists"},
	{common.ErrorInvalidCredentials, fiber.StatusBadRequest, "Invalid credentials"},
	{common.ErrorEmailNotVerified, fiber.StatusBadRequest, "Email not verifed. Verification code sent, Please verify."},
	{common.ErrorInvalidOrExpired, fiber.StatusBadRequest, "Invalid or expired token"},
	{common.ErrorNotFound, fiber.StatusNotFound, "Not found"},
	{common.ErrNoToken, fiber.StatusUnauthorized, msgNoToken},
	{common.ErrInvalidToken, fiber.StatusUnauthorized, msgInvalidToken},
	{common.ErrorUnauthorized, fiber.StatusUnauthorized, "Unauthorized"},
}

// messages overrides the default message per sentinel for one endpoint.
type messages map[error]string

func success(c *fiber.Ctx, status int, message string, payload fiber.Map) error {
	body := fiber.Map{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// fail writes the failure envelope for err. Anything that is not a known
// sentinel is an internal error: it is logged and answered with fallback.
func (s *HTTPServer) fail(c *fiber.Ctx, err error, msgs messages, fallback string) error {
	for _, st := range statuses {
		if !errors.Is(err, st.err) {
			continue
		}

		message := st.message
		if m, ok := msgs[st.err]; ok {
			message = m
		}

		body := fiber.Map{"success": false, "message": message}
		if errors.Is(st.err, common.ErrorValidation) {
			body["error"] = err.Error()
		}
		return c.Status(st.status).JSON(body)
	}

	s.logger.Error(c.UserContext(), fallback, "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": fallback,
	})
}

// errorHandler renders errors that escape handlers, such as fiber's own 404
// and 405, in the common envelope.
func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	} else {
		s.logger.Error(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

func (s *HTTPServer) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Route not found: " + c.Method() + " " + c.Path(),
	})
}
