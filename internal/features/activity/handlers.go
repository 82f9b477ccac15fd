package activity

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"invest/internal/domain"
)

const pageSize = 20

type Dependencies interface {
	CurrentUser(r *http.Request) (domain.User, error)
	ListAuditLogs(ctx context.Context, actorID, limit, offset int) ([]domain.AuditLog, error)
	CountAuditLogs(ctx context.Context, actorID int) (int, error)
}

type Handler struct {
	deps Dependencies
}

// NewHandler constructs a new handler.
func NewHandler(deps Dependencies) Handler {
	return Handler{deps: deps}
}

// Download exports the signed-in user's own account activity as CSV, JSON, or text.
func (h Handler) Download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	current, err := h.deps.CurrentUser(r)
	if err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	scope := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("scope")))
	switch format {
	case "", "csv":
		format = "csv"
	case "json", "txt":
	default:
		http.Error(w, "Unsupported format", http.StatusBadRequest)
		return
	}

	var logs []domain.AuditLog
	if scope == "all" {
		total, cerr := h.deps.CountAuditLogs(r.Context(), current.ID)
		if cerr != nil {
			http.Error(w, "Failed to load activity", http.StatusInternalServerError)
			return
		}
		if total > 0 {
			logs, err = h.deps.ListAuditLogs(r.Context(), current.ID, total, 0)
		}
	} else {
		scope = "page"
		page := 1
		if p, perr := strconv.Atoi(r.URL.Query().Get("page")); perr == nil && p > 0 {
			page = p
		}
		logs, err = h.deps.ListAuditLogs(r.Context(), current.ID, pageSize, (page-1)*pageSize)
	}
	if err != nil {
		http.Error(w, "Failed to load activity", http.StatusInternalServerError)
		return
	}

	filename := "activity-" + scope + "." + format
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if logs == nil {
			logs = []domain.AuditLog{}
		}
		_ = json.NewEncoder(w).Encode(exportRows(logs))
	case "txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, entry := range logs {
			target := entry.Target
			if target == "" {
				target = "n/a"
			}
			fmt.Fprintf(w, "%s | %s | object %s | log #%d\n",
				entry.CreatedAt.Format("2006-01-02 15:04:05"),
				entry.Action,
				target,
				entry.ID,
			)
		}
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		writer := csv.NewWriter(w)
		_ = writer.Write([]string{"id", "timestamp", "action", "target", "metadata"})
		for _, entry := range logs {
			_ = writer.Write([]string{
				strconv.Itoa(entry.ID),
				entry.CreatedAt.Format(time.RFC3339),
				entry.Action,
				entry.Target,
				entry.Metadata,
			})
		}
		writer.Flush()
	}
}

type exportRow struct {
	ID        int       `json:"id"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func exportRows(logs []domain.AuditLog) []exportRow {
	out := make([]exportRow, 0, len(logs))
	for _, entry := range logs {
		out = append(out, exportRow{
			ID:        entry.ID,
			Action:    entry.Action,
			Target:    entry.Target,
			Metadata:  entry.Metadata,
			CreatedAt: entry.CreatedAt,
		})
	}
	return out
}
