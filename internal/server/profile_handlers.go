package server

import (
	"atrium/internal/models"
	"atrium/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profiles/me. It resolves the authenticated
// principal to its profile, creating one on first sign-in if absent.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profileID := s.profileID(c)

	profile, err := s.profileService.Resolve(c.Context(), service.Principal{
		ID:    profileID,
		Email: s.profileEmail(c),
		Name:  s.profileName(c),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	profileID := s.profileID(c)

	var req struct {
		Name     string `json:"name"`
		Headline string `json:"headline"`
		Bio      string `json:"bio"`
		Avatar   string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		ActingID:  profileID,
		ProfileID: profileID,
		Name:      req.Name,
		Headline:  req.Headline,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}

// DeleteMyProfile handles DELETE /api/profiles/me. The database cascade
// removes the profile's posts, likes, and comments, transitively removing
// likes/comments on those posts.
func (s *Server) DeleteMyProfile(c *fiber.Ctx) error {
	profileID := s.profileID(c)

	if err := s.profileService.DeleteProfile(c.Context(), profileID, profileID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetProfiles handles GET /api/profiles, the public people directory.
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	profiles, err := s.profileService.ListProfiles(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profiles)
}

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfile(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}

// GetProfilePosts handles GET /api/profiles/:id/posts
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	currentProfileID := s.optionalProfileID(c)

	posts, err := s.feedService.GetPostsByAuthor(c.Context(), id, page.Limit, page.Offset, currentProfileID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}
