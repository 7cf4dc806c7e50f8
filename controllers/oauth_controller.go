package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	middleware "github.com/jutlandia/jutlandia-site-go/middleware"
)

// OAuthExchanger is the slice of the Discord client the entry endpoint
// needs.
type OAuthExchanger interface {
	AuthCodeURL() string
	Exchange(ctx context.Context, code string) (token string, expiry time.Time, err error)
}

// OAuthEntry drives the authorization-code flow. Already authenticated:
// straight to the admin page. No code yet: off to Discord. Code present:
// exchange it, cache the token, and loop back here so the first branch
// fires.
func OAuthEntry(discord OAuthExchanger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		token, _ := sess.Get(middleware.SessionKeyToken).(string)
		expiry, _ := sess.Get(middleware.SessionKeyTokenExpiry).(int64)
		if token != "" && time.Now().Unix() < expiry {
			c.Redirect(http.StatusFound, "/admin")
			return
		}

		code := c.Query("code")
		if code == "" {
			c.Redirect(http.StatusFound, discord.AuthCodeURL())
			return
		}

		accessToken, tokenExpiry, err := discord.Exchange(c.Request.Context(), code)
		if err != nil {
			// Leave the session alone; a half-written token must not
			// look like an authenticated visitor.
			c.JSON(http.StatusBadGateway, gin.H{"error": "discord authentication failed"})
			return
		}

		sess.Set(middleware.SessionKeyToken, accessToken)
		sess.Set(middleware.SessionKeyTokenExpiry, tokenExpiry.Unix())
		// Roles cached for an older token are stale now.
		sess.Delete(middleware.SessionKeyRoles)
		if err := sess.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
			return
		}

		c.Redirect(http.StatusFound, "/oauth")
	}
}
