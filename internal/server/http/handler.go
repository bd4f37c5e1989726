package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Santos2175/auth-app/internal/common"
	"github.com/Santos2175/auth-app/internal/server/auth"
	"github.com/Santos2175/auth-app/internal/server/services"
)

type verifyEmailRequest struct {
	Code string `json:"code"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// parseBody decodes a JSON body. An empty body leaves out untouched so the
// service reports the missing fields.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return common.ErrorValidation
	}
	return nil
}

// sameSite is None for cross-site clients in production. None requires
// Secure, so plain-http development falls back to Lax.
func (s *HTTPServer) sameSite() string {
	if s.secureCookies {
		return fiber.CookieSameSiteNoneMode
	}
	return fiber.CookieSameSiteLaxMode
}

func (s *HTTPServer) setSessionCookie(c *fiber.Ctx, session *services.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   s.secureCookies,
		SameSite: s.sameSite(),
	})
}

func (s *HTTPServer) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.secureCookies,
		SameSite: s.sameSite(),
	})
}

func (s *HTTPServer) health(c *fiber.Ctx) error {
	return success(c, fiber.StatusOK, "ok", nil)
}

func (s *HTTPServer) signup(c *fiber.Ctx) error {
	msgs := messages{
		common.ErrRequiredFields: "All fields are required: email, password, name",
		common.ErrorValidation:   "All fields are required: email, password, name",
	}
	const fallback = "Error registering user."

	var req services.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	session, err := s.auth.Signup(c.UserContext(), req)
	if err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	s.setSessionCookie(c, session)
	s.logger.Info(c.UserContext(), "Registered", "user_id", session.Account.ID)

	return success(c, fiber.StatusCreated, "User created successfully", fiber.Map{
		"user":  session.Account,
		"token": session.Token,
	})
}

func (s *HTTPServer) login(c *fiber.Ctx) error {
	msgs := messages{
		common.ErrorValidation:         "Email and password are required",
		common.ErrorNotFound:           "Invalid credentials.",
		common.ErrorInvalidCredentials: "Invalid credentials",
	}
	const fallback = "User login failed"

	var req services.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	session, err := s.auth.Login(c.UserContext(), req)
	if err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	s.setSessionCookie(c, session)

	return success(c, fiber.StatusOK, "User loggedin successfully", fiber.Map{
		"user":  session.Account,
		"token": session.Token,
	})
}

func (s *HTTPServer) logout(c *fiber.Ctx) error {
	token := c.Cookies(common.SessionCookieName)
	s.clearSessionCookie(c)

	if err := s.auth.Logout(c.UserContext(), token); err != nil {
		return s.fail(c, err, nil, "Logout failed")
	}

	return success(c, fiber.StatusOK, "Logged out successfully", nil)
}

func (s *HTTPServer) verifyEmail(c *fiber.Ctx) error {
	msgs := messages{common.ErrorInvalidOrExpired: "Invalid or expired verification code"}
	const fallback = "Error verifying email"

	var req verifyEmailRequest
	if err := parseBody(c, &req); err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	account, err := s.auth.VerifyEmail(c.UserContext(), req.Code)
	if err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	return success(c, fiber.StatusOK, "Email verified successfully", fiber.Map{"user": account})
}

func (s *HTTPServer) forgotPassword(c *fiber.Ctx) error {
	msgs := messages{
		common.ErrorValidation: "Email is required",
		common.ErrorNotFound:   "User not found",
	}
	const fallback = "Error sending password reset email"

	var req forgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	if err := s.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	return success(c, fiber.StatusOK, "Password reset link sent to your email", nil)
}

func (s *HTTPServer) resetPassword(c *fiber.Ctx) error {
	msgs := messages{
		common.ErrorValidation:       "Password is required",
		common.ErrorInvalidOrExpired: "Invalid or expired reset token",
	}
	const fallback = "Error resetting password"

	var req resetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	if err := s.auth.ResetPassword(c.UserContext(), c.Params("token"), req.Password); err != nil {
		return s.fail(c, err, msgs, fallback)
	}

	return success(c, fiber.StatusOK, "Password reset successful", nil)
}

func (s *HTTPServer) checkAuth(c *fiber.Ctx) error {
	msgs := messages{common.ErrorNotFound: "User not found"}

	account, err := s.auth.CheckAuth(c.UserContext(), auth.AccountIDFromContext(c.UserContext()))
	if err != nil {
		return s.fail(c, err, msgs, "Error checking auth")
	}

	return success(c, fiber.StatusOK, "Authenticated", fiber.Map{"user": account})
}
