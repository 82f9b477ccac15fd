package activity

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invest/internal/domain"
)

type fakeDeps struct {
	user    domain.User
	noUser  bool
	logs    []domain.AuditLog
	listed  []int
	counted int
}

func (d *fakeDeps) CurrentUser(*http.Request) (domain.User, error) {
	if d.noUser {
		return domain.User{}, errors.New("not logged in")
	}
	return d.user, nil
}

func (d *fakeDeps) ListAuditLogs(_ context.Context, actorID, limit, offset int) ([]domain.AuditLog, error) {
	d.listed = []int{actorID, limit, offset}
	return d.logs, nil
}

func (d *fakeDeps) CountAuditLogs(_ context.Context, actorID int) (int, error) {
	d.counted = actorID
	return len(d.logs), nil
}

func newFakeDeps() *fakeDeps {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return &fakeDeps{
		user: domain.User{ID: 3, Username: "ada-1a2b3c"},
		logs: []domain.AuditLog{
			{ID: 2, Action: "user.login", Target: "ada@example.com", Metadata: `{"status":"success"}`, CreatedAt: created},
			{ID: 1, Action: "user.create", Target: "ada@example.com", CreatedAt: created},
		},
	}
}

func TestDownloadCSVIsScopedToCurrentUser(t *testing.T) {
	deps := newFakeDeps()
	rec := httptest.NewRecorder()
	NewHandler(deps).Download(rec, httptest.NewRequest(http.MethodGet, "/user/activity?page=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{3, pageSize, pageSize}, deps.listed)
	assert.Equal(t, "attachment; filename=activity-page.csv", rec.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "timestamp", "action", "target", "metadata"}, records[0])
	assert.Equal(t, "user.login", records[1][2])
}

func TestDownloadAllAsJSON(t *testing.T) {
	deps := newFakeDeps()
	rec := httptest.NewRecorder()
	NewHandler(deps).Download(rec, httptest.NewRequest(http.MethodGet, "/user/activity?format=json&scope=all", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, deps.counted)
	assert.Equal(t, []int{3, 2, 0}, deps.listed)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "user.create", rows[1]["action"])
	_, hasActor := rows[0]["actor_name"]
	assert.False(t, hasActor)
}

func TestDownloadText(t *testing.T) {
	deps := newFakeDeps()
	rec := httptest.NewRecorder()
	NewHandler(deps).Download(rec, httptest.NewRequest(http.MethodGet, "/user/activity?format=txt", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2026-03-01 09:30:00 | user.create | object ada@example.com | log #1")
}

func TestDownloadRejectsUnknownFormatAndAnonymous(t *testing.T) {
	deps := newFakeDeps()
	rec := httptest.NewRecorder()
	NewHandler(deps).Download(rec, httptest.NewRequest(http.MethodGet, "/user/activity?format=xml", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	deps.noUser = true
	rec = httptest.NewRecorder()
	NewHandler(deps).Download(rec, httptest.NewRequest(http.MethodGet, "/user/activity", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
