package delivery

import (
	"net/http"
	"strings"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	contextUserKey   = "user"
	contextUserIDKey = "userID"
)

// AuthMiddleware requires a bearer access token. Browsers cannot set headers
// on WebSocket upgrades, so the access_token query parameter is accepted when
// the header is absent.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("access_token")

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
				return
			}
			token = parts[1]
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		user, err := authUsecase.ValidateToken(token)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindInternal {
				apperror.Respond(c, err)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextUserIDKey, user.ID)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) *authdomain.User {
	return c.MustGet(contextUserKey).(*authdomain.User)
}

// CurrentUserID returns the id stored by AuthMiddleware.
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(contextUserIDKey)
}
