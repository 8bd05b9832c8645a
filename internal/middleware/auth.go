package middleware

import (
	"net/http"
	"strings"

	"craftconnect-be/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Auth parses the bearer token issued by the external identity provider and,
// when valid, stores the verified actor in the request context. Requests
// without a token pass through anonymously.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			actor := identity.Actor{}
			if sub, ok := claims["sub"].(string); ok {
				actor.ID = sub
			}
			if email, ok := claims["email"].(string); ok {
				actor.Email = email
			}
			if role, ok := claims["user_type"].(string); ok {
				actor.Role = identity.Role(role)
			}
			if actor.ID != "" {
				ctx := identity.WithActor(c.Request.Context(), actor)
				c.Request = c.Request.WithContext(ctx)
			}
		}

		c.Next()
	}
}

// RequireAuth rejects requests that did not present a valid token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity.ActorFrom(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}
