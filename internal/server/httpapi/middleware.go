package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gramolapp/gramola/internal/server/auth"
)

const authEmailKey = "authEmail"

// requireAuth validates the Bearer session token and, when the route
// carries an :email parameter, enforces that it matches the token's
// subject. There is no cross-account access.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "falta el token de sesión"})
			return
		}

		email, err := auth.GetEmailFromToken(token, s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token de sesión no válido"})
			return
		}

		if p := c.Param("email"); p != "" && p != email {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "el token no corresponde a este usuario"})
			return
		}

		c.Set(authEmailKey, email)
		c.Next()
	}
}
