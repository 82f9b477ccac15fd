package guard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	for i := 0; i < 3; i++ {
		denied := Authorize(false)
		assert.False(t, denied.Allowed())
		assert.Equal(t, "/login", denied.Location())

		allowed := Authorize(true)
		assert.True(t, allowed.Allowed())
		assert.Empty(t, allowed.Location())
	}
}

func TestProtects(t *testing.T) {
	g := New("invest_session", []string{"/user/:path*", "reports/*"})

	cases := map[string]bool{
		"/user":           true,
		"/user/":          true,
		"/user/dashboard": true,
		"/user/a/b":       true,
		"/username":       false,
		"/login":          false,
		"/register":       false,
		"/reports/2026":   true,
		"/":               false,
	}
	for path, want := range cases {
		assert.Equal(t, want, g.Protects(path), path)
	}
}

func TestProtectsEverythingWithRootPattern(t *testing.T) {
	g := New("invest_session", []string{"/"})
	assert.True(t, g.Protects("/anything"))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestWrapRedirectsWithoutCookie(t *testing.T) {
	handler := New("invest_session", []string{"/user/:path*"}).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/user/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fuser%2Fdashboard", rec.Header().Get("Location"))
}

func TestWrapAllowsWithCookieRegardlessOfValue(t *testing.T) {
	handler := New("invest_session", []string{"/user/:path*"}).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/user/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "invest_session", Value: "not-even-a-real-session"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestWrapIgnoresOtherCookies(t *testing.T) {
	handler := New("invest_session", []string{"/user/:path*"}).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: "other", Value: "x"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fuser", rec.Header().Get("Location"))
}

func TestWrapPassesUnprotectedPaths(t *testing.T) {
	handler := New("invest_session", []string{"/user/:path*"}).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCustomLoginPath(t *testing.T) {
	g := New("invest_session", []string{"/user/:path*"}, WithLoginPath("/signin?x=1"))

	req := httptest.NewRequest(http.MethodGet, "/user/dashboard", nil)
	decision := g.Check(req)
	assert.Equal(t, "/signin?x=1", decision.Location())

	rec := httptest.NewRecorder()
	g.Wrap(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, "/signin?x=1&next=%2Fuser%2Fdashboard", rec.Header().Get("Location"))
}

func TestWrapNeverGuardsLoginPage(t *testing.T) {
	cases := []struct {
		patterns  []string
		loginPath string
	}{
		{[]string{"/"}, "/login"},
		{[]string{"/user/:path*"}, "/user/login"},
		{[]string{"/user/:path*"}, "/user/login?source=guard"},
	}
	for _, tc := range cases {
		handler := New("invest_session", tc.patterns, WithLoginPath(tc.loginPath)).Wrap(okHandler())

		login := tc.loginPath
		if i := strings.IndexByte(login, '?'); i >= 0 {
			login = login[:i]
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, login+"?next=%2Fuser%2Fdashboard", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code, tc.loginPath)

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/dashboard", nil))
		require.Equal(t, http.StatusFound, rec.Code, tc.loginPath)
		location := rec.Header().Get("Location")
		assert.True(t, strings.HasPrefix(location, tc.loginPath), location)
		assert.Contains(t, location, "next=%2Fuser%2Fdashboard")
	}
}
