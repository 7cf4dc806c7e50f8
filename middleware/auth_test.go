package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	config "github.com/jutlandia/jutlandia-site-go/config"
)

const adminRole = "role-admin"

type fakeRoleFetcher struct {
	roles []string
	err   error
	calls int
}

func (f *fakeRoleFetcher) GuildRoles(ctx context.Context, token string) ([]string, error) {
	f.calls++
	return f.roles, f.err
}

// guardedEngine wires a /seed route that writes session state and a
// guarded /admin route that records whether the handler ran.
func guardedEngine(fetcher RoleFetcher, handlerRan *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{AdminRoleID: adminRole}

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	r.GET("/seed", func(c *gin.Context) {
		sess := sessions.Default(c)
		sess.Set(SessionKeyToken, c.Query("token"))
		if c.Query("expired") == "1" {
			sess.Set(SessionKeyTokenExpiry, time.Now().Add(-time.Hour).Unix())
		} else {
			sess.Set(SessionKeyTokenExpiry, time.Now().Add(time.Hour).Unix())
		}
		if roles, ok := c.GetQueryArray("role"); ok {
			sess.Set(SessionKeyRoles, roles)
		}
		if err := sess.Save(); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	admin := r.Group("/admin")
	admin.Use(RequireGuildAdmin(cfg, fetcher))
	admin.GET("", func(c *gin.Context) {
		*handlerRan = true
		c.String(http.StatusOK, "admin page")
	})

	return r
}

// seed performs the /seed request and returns the session cookies.
func seed(t *testing.T, r *gin.Engine, query string) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/seed"+query, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("seed status = %d", w.Code)
	}
	return w.Result().Cookies()
}

func request(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestNoTokenRedirectsToOAuth(t *testing.T) {
	var ran bool
	fetcher := &fakeRoleFetcher{}
	r := guardedEngine(fetcher, &ran)

	w := request(r, "/admin", nil)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/oauth" {
		t.Fatalf("location = %q, want /oauth", loc)
	}
	if ran {
		t.Fatal("handler ran without a token")
	}
	if fetcher.calls != 0 {
		t.Fatal("roles fetched without a token")
	}
}

func TestExpiredTokenRedirectsToOAuth(t *testing.T) {
	var ran bool
	r := guardedEngine(&fakeRoleFetcher{}, &ran)

	cookies := seed(t, r, "?token=tok&expired=1&role="+adminRole)
	w := request(r, "/admin", cookies)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/oauth" {
		t.Fatalf("status = %d location = %q, want 302 /oauth", w.Code, w.Header().Get("Location"))
	}
	if ran {
		t.Fatal("handler ran with an expired token")
	}
}

func TestAdminRoleAuthorized(t *testing.T) {
	var ran bool
	fetcher := &fakeRoleFetcher{}
	r := guardedEngine(fetcher, &ran)

	cookies := seed(t, r, "?token=tok&role="+adminRole+"&role=role-other")
	w := request(r, "/admin", cookies)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "admin page" {
		t.Fatalf("body = %q", w.Body.String())
	}
	if !ran {
		t.Fatal("handler did not run")
	}
	if fetcher.calls != 0 {
		t.Fatal("roles re-fetched despite cached session value")
	}
}

func TestMissingAdminRoleDenied(t *testing.T) {
	var ran bool
	r := guardedEngine(&fakeRoleFetcher{}, &ran)

	cookies := seed(t, r, "?token=tok&role=role-other")
	w := request(r, "/admin", cookies)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if ran {
		t.Fatal("handler ran without the admin role")
	}
}

func TestRolesFetchedWhenAbsent(t *testing.T) {
	var ran bool
	fetcher := &fakeRoleFetcher{roles: []string{adminRole}}
	r := guardedEngine(fetcher, &ran)

	cookies := seed(t, r, "?token=tok")
	w := request(r, "/admin", cookies)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !ran {
		t.Fatal("handler did not run after role fetch")
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher calls = %d, want 1", fetcher.calls)
	}

	// The fetched roles are cached: a second request with the updated
	// cookie must not hit the provider again.
	updated := w.Result().Cookies()
	if len(updated) == 0 {
		t.Fatal("guard did not re-issue the session cookie after caching roles")
	}
	ran = false
	w2 := request(r, "/admin", updated)
	if w2.Code != http.StatusOK || !ran {
		t.Fatalf("second request: status = %d ran = %v", w2.Code, ran)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher calls after cached request = %d, want 1", fetcher.calls)
	}
}

func TestRoleFetchFailureBlocksRequest(t *testing.T) {
	var ran bool
	fetcher := &fakeRoleFetcher{err: errors.New("discord is down")}
	r := guardedEngine(fetcher, &ran)

	cookies := seed(t, r, "?token=tok")
	w := request(r, "/admin", cookies)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if ran {
		t.Fatal("handler ran despite role fetch failure")
	}
}
