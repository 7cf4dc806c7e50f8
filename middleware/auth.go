package middleware

import (
	"context"
	"encoding/gob"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	config "github.com/jutlandia/jutlandia-site-go/config"
)

// Session keys shared with the oauth controller.
const (
	SessionKeyToken       = "token"
	SessionKeyTokenExpiry = "token_expiry"
	SessionKeyRoles       = "roles"
)

func init() {
	// Role lists ride in the gob-encoded session cookie.
	gob.Register([]string{})
}

// RoleFetcher is the slice of the Discord client the guard needs.
type RoleFetcher interface {
	GuildRoles(ctx context.Context, token string) ([]string, error)
}

// RequireGuildAdmin guards admin routes. No usable token: redirect into
// the OAuth flow. Token but no cached roles: fetch and cache them. Then
// let the request through only when the configured admin role is present.
func RequireGuildAdmin(cfg *config.Config, discord RoleFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		token, _ := sess.Get(SessionKeyToken).(string)
		expiry, _ := sess.Get(SessionKeyTokenExpiry).(int64)
		if token == "" || time.Now().Unix() >= expiry {
			// Stale credentials restart the flow from scratch.
			sess.Delete(SessionKeyToken)
			sess.Delete(SessionKeyTokenExpiry)
			sess.Delete(SessionKeyRoles)
			_ = sess.Save()

			c.Redirect(http.StatusFound, "/oauth")
			c.Abort()
			return
		}

		roles, ok := sess.Get(SessionKeyRoles).([]string)
		if !ok {
			fetched, err := discord.GuildRoles(c.Request.Context(), token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "could not verify guild membership"})
				return
			}
			sess.Set(SessionKeyRoles, fetched)
			if err := sess.Save(); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
				return
			}
			roles = fetched
		}

		if !slices.Contains(roles, cfg.AdminRoleID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin role required"})
			return
		}

		c.Next()
	}
}
