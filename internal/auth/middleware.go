package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

var (
	ErrMissingHeader = apperror.New(apperror.KindUnauthorized, "missing Authorization header")
	ErrBadScheme     = apperror.New(apperror.KindUnauthorized, "invalid Authorization header format")
	ErrTokenRejected = apperror.New(apperror.KindUnauthorized, "invalid or expired token")
)

// AuthRequired validates "Authorization: Bearer <token>" and stores the caller's id on the context.
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseAndValidate(token)
		if err != nil {
			response.Error(c, ErrTokenRejected)
			c.Abort()
			return
		}

		SetUserID(c, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", ErrBadScheme
	}
	return token, nil
}
