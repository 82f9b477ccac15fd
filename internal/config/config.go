package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings loaded from environment variables.
type Config struct {
	Env            string
	IsProd         bool
	SecretKey      []byte
	DBPath         string
	StaticDir      string
	Host           string
	Port           string
	CookieSecure   bool
	CookieSameSite http.SameSite
	SessionCookie  string
	SessionMaxAge  int
	ProtectedPaths []string
	LoginPath      string
	LandingPath    string
	RedirectDelay  time.Duration
	DisableCSRF    bool
	BlankIsMissing bool
	RegisterRate   float64
	RegisterBurst  int
	LoginRate      float64
	LoginBurst     int
	TOTPIssuer     string
	BaseURL        string
	LogLevel       string
	LogFormat      string
	EnvFileLoaded  bool
}

// LoadConfig reads an optional .env file and environment variables, applies defaults,
// and validates required settings.
func LoadConfig() (Config, error) {
	loaded := godotenv.Load() == nil

	env := strings.ToLower(strings.TrimSpace(getEnv("INVEST_ENV", "development")))
	isProd := env == "production"

	secret := os.Getenv("INVEST_SECRET_KEY")
	if secret == "" && isProd {
		return Config{}, errors.New("INVEST_SECRET_KEY is required in production")
	}
	if secret == "" {
		secret = randomSecret(32)
	}

	sameSite := http.SameSiteLaxMode
	switch strings.ToLower(getEnv("INVEST_COOKIE_SAMESITE", "lax")) {
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	}

	delay := 1500 * time.Millisecond
	if v := os.Getenv("INVEST_REDIRECT_DELAY"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < 0 {
			return Config{}, fmt.Errorf("INVEST_REDIRECT_DELAY: invalid duration %q", v)
		}
		delay = parsed
	}

	loginPath := getEnv("INVEST_LOGIN_PATH", "/login")
	if !strings.HasPrefix(loginPath, "/") {
		return Config{}, fmt.Errorf("INVEST_LOGIN_PATH must start with /, got %q", loginPath)
	}

	return Config{
		Env:            env,
		IsProd:         isProd,
		SecretKey:      []byte(secret),
		DBPath:         getEnv("INVEST_DB_PATH", filepath.Join(getBaseDir(), "invest.db")),
		StaticDir:      filepath.Join(getBaseDir(), "static"),
		Host:           getEnv("INVEST_HOST", "127.0.0.1"),
		Port:           getEnv("INVEST_PORT", "3000"),
		CookieSecure:   envBool("INVEST_COOKIE_SECURE", isProd),
		CookieSameSite: sameSite,
		SessionCookie:  getEnv("INVEST_SESSION_COOKIE", "invest_session"),
		SessionMaxAge:  envInt("INVEST_SESSION_MAX_AGE", 86400*30),
		ProtectedPaths: envList("INVEST_PROTECTED_PATHS", []string{"/user/:path*"}),
		LoginPath:      loginPath,
		LandingPath:    getEnv("INVEST_LANDING_PATH", "/user/dashboard"),
		RedirectDelay:  delay,
		DisableCSRF:    envBool("INVEST_DISABLE_CSRF", false),
		BlankIsMissing: envBool("INVEST_BLANK_IS_MISSING", false),
		RegisterRate:   envFloat("INVEST_REGISTER_RATE", 0.2),
		RegisterBurst:  envInt("INVEST_REGISTER_BURST", 5),
		LoginRate:      envFloat("INVEST_LOGIN_RATE", 0.5),
		LoginBurst:     envInt("INVEST_LOGIN_BURST", 10),
		TOTPIssuer:     getEnv("INVEST_TOTP_ISSUER", "Global Invest"),
		BaseURL:        strings.TrimRight(os.Getenv("INVEST_BASE_URL"), "/"),
		LogLevel:       strings.ToLower(getEnv("INVEST_LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("INVEST_LOG_FORMAT", defaultLogFormat(isProd))),
		EnvFileLoaded:  loaded,
	}, nil
}

func defaultLogFormat(isProd bool) string {
	if isProd {
		return "json"
	}
	return "console"
}

// getBaseDir returns the working directory or executable directory as a fallback.
func getBaseDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// randomSecret returns a hex token, falling back to a timestamp on RNG failure.
func randomSecret(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// getEnv returns the environment value or fallback when empty.
func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// envBool parses common boolean env values and falls back when empty/invalid.
func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(name string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// envList splits a comma separated value, dropping empty entries.
func envList(name string, fallback []string) []string {
	v := os.Getenv(name)
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
