package middleware

import (
	"context"
	"strconv"
	"strings"

	"atrium/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIdentity is the identity a validated Bearer token asserts: the
// profile ID from "sub" plus the email and display name claims the token
// was issued with.
type TokenIdentity struct {
	ProfileID uint
	Email     string
	Name      string
}

// identityFromToken validates a Bearer token and extracts the identity
// claims. Returns an AppError on any failure.
func identityFromToken(tokenString, secret string) (TokenIdentity, error) {
	var id TokenIdentity

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return id, models.NewUnauthenticatedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return id, models.NewUnauthenticatedError("Invalid token claims")
	}

	// Subject claim per RFC 7519 carries the profile ID as a string
	subClaim, ok := claims["sub"]
	if !ok {
		return id, models.NewUnauthenticatedError("Invalid token structure - missing subject")
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return id, models.NewUnauthenticatedError("Invalid token subject type")
	}

	profileID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return id, models.NewUnauthenticatedError("Invalid profile ID in token")
	}
	id.ProfileID = uint(profileID)

	// Email and name are optional; older tokens may not carry them.
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)

	return id, nil
}

// storeIdentity places the token identity into request locals and the
// request context for downstream handlers.
func storeIdentity(c *fiber.Ctx, id TokenIdentity) {
	c.Locals("profileID", id.ProfileID)
	c.Locals("profileEmail", id.Email)
	c.Locals("profileName", id.Name)
	c.SetUserContext(context.WithValue(c.UserContext(), ProfileIDKey, id.ProfileID))
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", models.NewUnauthenticatedError("Authorization header required")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", models.NewUnauthenticatedError("Invalid authorization header format")
	}
	return parts[1], nil
}

// AuthRequired enforces authentication for protected routes. On success the
// token identity is stored in request locals and the request context.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}

		id, err := identityFromToken(token, secret)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}

		storeIdentity(c, id)
		return c.Next()
	}
}

// OptionalAuth resolves the profile ID when a valid token is present but
// never rejects the request. Public feed reads use it to annotate posts with
// the viewer's liked flag.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return c.Next()
		}
		id, err := identityFromToken(token, secret)
		if err != nil {
			return c.Next()
		}
		storeIdentity(c, id)
		return c.Next()
	}
}
