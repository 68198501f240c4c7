package server

import (
	"errors"

	"atrium/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// profileID returns the authenticated profile ID set by the auth middleware.
func (s *Server) profileID(c *fiber.Ctx) uint {
	if pid, ok := c.Locals("profileID").(uint); ok {
		return pid
	}
	return 0
}

// profileEmail returns the email claim set by the auth middleware, empty
// when the token carries none.
func (s *Server) profileEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("profileEmail").(string); ok {
		return email
	}
	return ""
}

// profileName returns the display-name claim set by the auth middleware.
func (s *Server) profileName(c *fiber.Ctx) string {
	if name, ok := c.Locals("profileName").(string); ok {
		return name
	}
	return ""
}

// optionalProfileID returns the profile ID when the viewer is authenticated,
// else zero.
func (s *Server) optionalProfileID(c *fiber.Ctx) uint {
	return s.profileID(c)
}
