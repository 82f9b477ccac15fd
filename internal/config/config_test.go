package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("INVEST_ENV", "")
	t.Setenv("INVEST_SECRET_KEY", "")
	t.Setenv("INVEST_PROTECTED_PATHS", "")
	t.Setenv("INVEST_REDIRECT_DELAY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.IsProd)
	assert.NotEmpty(t, cfg.SecretKey)
	assert.Equal(t, "invest_session", cfg.SessionCookie)
	assert.Equal(t, []string{"/user/:path*"}, cfg.ProtectedPaths)
	assert.Equal(t, "/login", cfg.LoginPath)
	assert.Equal(t, "/user/dashboard", cfg.LandingPath)
	assert.Equal(t, 1500*time.Millisecond, cfg.RedirectDelay)
	assert.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite)
	assert.False(t, cfg.BlankIsMissing)
}

func TestLoadConfigSeparateLimiterBudgets(t *testing.T) {
	t.Setenv("INVEST_REGISTER_RATE", "")
	t.Setenv("INVEST_REGISTER_BURST", "")
	t.Setenv("INVEST_LOGIN_RATE", "2")
	t.Setenv("INVEST_LOGIN_BURST", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.RegisterRate)
	assert.Equal(t, 5, cfg.RegisterBurst)
	assert.Equal(t, 2.0, cfg.LoginRate)
	assert.Equal(t, 20, cfg.LoginBurst)
}

func TestLoadConfigRequiresSecretInProduction(t *testing.T) {
	t.Setenv("INVEST_ENV", "production")
	t.Setenv("INVEST_SECRET_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("INVEST_ENV", "production")
	t.Setenv("INVEST_SECRET_KEY", "s3cret")
	t.Setenv("INVEST_PROTECTED_PATHS", " /user/:path*, /admin ,")
	t.Setenv("INVEST_REDIRECT_DELAY", "2s")
	t.Setenv("INVEST_COOKIE_SAMESITE", "strict")
	t.Setenv("INVEST_BLANK_IS_MISSING", "yes")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []byte("s3cret"), cfg.SecretKey)
	assert.Equal(t, []string{"/user/:path*", "/admin"}, cfg.ProtectedPaths)
	assert.Equal(t, 2*time.Second, cfg.RedirectDelay)
	assert.Equal(t, http.SameSiteStrictMode, cfg.CookieSameSite)
	assert.True(t, cfg.BlankIsMissing)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigRejectsBadDelay(t *testing.T) {
	t.Setenv("INVEST_ENV", "")
	t.Setenv("INVEST_REDIRECT_DELAY", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
}
