package middleware

import (
	"net/http"
	"strings"

	profileRepo "github.com/ajisaka/devmatch/internal/repository/profile"
	"github.com/ajisaka/devmatch/pkg/jwt"
	"github.com/labstack/echo"
)

func JWTMiddleware(profiles profileRepo.IProfileRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "missing token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token format"})
			}
			token := parts[1]

			claims, err := jwt.ValidateToken(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			userProfile, err := profiles.GetByID(c.Request().Context(), uint(claims.UserID))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			c.Set("claims", claims)
			c.Set("userProfile", userProfile)

			return next(c)
		}
	}
}
