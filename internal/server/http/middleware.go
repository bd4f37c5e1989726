package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Santos2175/auth-app/internal/common"
	"github.com/Santos2175/auth-app/internal/server/auth"
)

const localsAccountID = "accountID"

// requireSession is the session guard: it admits requests whose cookie holds
// a valid session and puts the account id into the request context.
func (s *HTTPServer) requireSession(c *fiber.Ctx) error {
	accountID, err := s.guard.Authenticate(c.UserContext(), c.Cookies(common.SessionCookieName))
	if err != nil {
		return s.fail(c, err, nil, "Error in token verification")
	}

	c.Locals(localsAccountID, accountID)
	c.SetUserContext(auth.WithAccountID(c.UserContext(), accountID))

	return c.Next()
}

func (s *HTTPServer) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start),
	)

	return err
}
