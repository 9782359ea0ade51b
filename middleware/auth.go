package middleware

import (
	"context"
	"strings"

	"foodorder/apperr"
	"foodorder/models"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	adminKey    = "admin"
	tokenKey    = "token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Identity, error)
}

// AuthMiddleware requires a valid bearer token and stores the caller identity.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abort(c, apperr.Unauthenticated("token required"))
			return
		}

		identity, err := authn.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Set(tokenKey, tokenString)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware. It exchanges the identity for an
// admin capability or rejects the request.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			abort(c, apperr.Unauthenticated("token required"))
			return
		}

		admin, ok := identity.Admin()
		if !ok {
			abort(c, apperr.Forbidden("access denied: admin only"))
			return
		}

		c.Set(adminKey, admin)
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

func CurrentAdmin(c *gin.Context) (models.AdminIdentity, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return models.AdminIdentity{}, false
	}
	admin, ok := v.(models.AdminIdentity)
	return admin, ok
}

// CurrentToken is the raw bearer token of an authenticated request.
func CurrentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func abort(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	message := apperr.Message(err)
	c.AbortWithStatusJSON(apperr.HTTPStatus(kind), gin.H{
		"message":   message,
		"errorKind": kind.String(),
	})
}
