package middleware

import (
	"errors"

	"github.com/denizocal/photostream/internal/config"
	"github.com/denizocal/photostream/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected verifies the bearer access token against the access secret and
// puts the parsed token into context locals. The whitelist is deliberately
// not consulted here: access tokens live 5 minutes and are not revocable.
//
// Expired tokens get the TokenExpired marker so clients know to attempt a
// refresh instead of forcing a re-login; every other failure is a generic 401.
func Protected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTAccessSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "TokenExpired",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		},
	})
}
