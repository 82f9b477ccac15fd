package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	investhttp "invest/internal/platform/http"
	"invest/internal/testutil"
)

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestRoutesRegisterPage verifies the signup form is public.
func TestRoutesRegisterPage(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	handler := investhttp.Routes(testutil.NewServer(t))

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/register?ref=FRIEND42", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="firstName"`)
	assert.Contains(t, body, `value="FRIEND42"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

// TestRoutesGuardRedirectsAnonymous verifies protected paths need the credential cookie.
func TestRoutesGuardRedirectsAnonymous(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	handler := investhttp.Routes(testutil.NewServer(t))

	for _, path := range []string{"/user/dashboard", "/user/security", "/user"} {
		rec := serve(handler, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login?next="+url.QueryEscape(path), rec.Header().Get("Location"), path)
	}

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestRoutesStaleCookieIsSentToLogin verifies the guard admits any credential
// cookie while the dashboard rejects one it cannot decode.
func TestRoutesStaleCookieIsSentToLogin(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	handler := investhttp.Routes(testutil.NewServer(t))

	req := httptest.NewRequest(http.MethodGet, "/user/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "invest_session", Value: "garbage"})
	rec := serve(handler, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fuser%2Fdashboard", rec.Header().Get("Location"))
}

// TestRoutesRootRedirectsToLanding verifies the home page forwards to the dashboard.
func TestRoutesRootRedirectsToLanding(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	handler := investhttp.Routes(testutil.NewServer(t))

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/user/dashboard", rec.Header().Get("Location"))
}

// TestRoutesHealth verifies the health endpoint pings the database.
func TestRoutesHealth(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	handler := investhttp.Routes(testutil.NewServer(t))

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"db":"ok"`)
}

// TestRoutesRegisterThenDashboard walks signup through to the protected landing page.
func TestRoutesRegisterThenDashboard(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	srv := testutil.NewServer(t)
	handler := investhttp.Routes(srv)

	form := url.Values{
		"firstName":       {"Ada"},
		"lastName":        {"Lovelace"},
		"email":           {"ada@example.com"},
		"referralId":      {"FRIEND42"},
		"password":        {"correct horse"},
		"confirmPassword": {"correct horse"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(handler, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Registration successful")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	var count int
	require.NoError(t, srv.DB().QueryRow("SELECT COUNT(*) FROM user").Scan(&count))
	assert.Equal(t, 1, count)

	req = httptest.NewRequest(http.MethodGet, "/user/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = serve(handler, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome, Ada Lovelace")
	assert.Contains(t, body, "FRIEND42")
}

// TestRoutesRegisterMismatchStaysOnForm verifies a failed validation issues no credential.
func TestRoutesRegisterMismatchStaysOnForm(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	srv := testutil.NewServer(t)
	handler := investhttp.Routes(srv)

	form := url.Values{
		"firstName":       {"Ada"},
		"lastName":        {"Lovelace"},
		"email":           {"ada@example.com"},
		"password":        {"one"},
		"confirmPassword": {"two"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(handler, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match.")
	var count int
	require.NoError(t, srv.DB().QueryRow("SELECT COUNT(*) FROM user").Scan(&count))
	assert.Equal(t, 0, count)
}

// TestRoutesRegisterEnforcesCSRFAndRateLimit verifies signup posts need a
// token and are throttled per client.
func TestRoutesRegisterEnforcesCSRFAndRateLimit(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	cfg := testutil.TestConfig(t)
	cfg.DisableCSRF = false
	cfg.RegisterRate = 0.01
	cfg.RegisterBurst = 1
	handler := investhttp.Routes(testutil.NewServerWithConfig(t, cfg))

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("firstName=Ada"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(handler, req)
	}

	rec := post()
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=ada%40example.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(handler, req)
	assert.NotEqual(t, http.StatusTooManyRequests, rec.Code, "login has its own budget")
}

// TestRoutesPasskeyEndpoints verifies enrollment is guarded while the
// sign-in ceremony stays reachable without a credential cookie.
func TestRoutesPasskeyEndpoints(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	handler := investhttp.Routes(testutil.NewServer(t))

	rec := serve(handler, httptest.NewRequest(http.MethodPost, "/user/passkeys/register/options", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fuser%2Fpasskeys%2Fregister%2Foptions", rec.Header().Get("Location"))

	rec = serve(handler, httptest.NewRequest(http.MethodGet, "/passkeys/login/options?email=nobody@example.com", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(handler, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="passkey-login"`)
}
