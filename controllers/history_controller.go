package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pmitra96/recipe-backend/logger"
	"github.com/pmitra96/recipe-backend/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryLister reads stored generations, newest first.
type HistoryLister interface {
	List(ctx context.Context, kind string, limit int) ([]models.Generation, error)
}

type HistoryController struct {
	lister HistoryLister
}

func NewHistoryController(lister HistoryLister) *HistoryController {
	return &HistoryController{lister: lister}
}

type HistoryEntry struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Ingredients    string          `json:"ingredients"`
	Diet           string          `json:"diet,omitempty"`
	Model          string          `json:"model"`
	Response       json.RawMessage `json:"response"`
	Fallback       bool            `json:"fallback"`
	FallbackReason string          `json:"fallback_reason,omitempty"`
	Strict         bool            `json:"strict"`
	LatencyMs      int64           `json:"latency_ms"`
	CreatedAt      time.Time       `json:"created_at"`
}

// List handles GET /history?kind=recipe|grocery&limit=N.
func (c *HistoryController) List(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && kind != models.KindRecipe && kind != models.KindGrocery {
		writeError(w, http.StatusBadRequest, "kind must be recipe or grocery")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	generations, err := c.lister.List(r.Context(), kind, limit)
	if err != nil {
		logger.Error("Failed to list generations", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	entries := make([]HistoryEntry, 0, len(generations))
	for _, g := range generations {
		resp := json.RawMessage(g.Response)
		if !json.Valid(resp) {
			resp = json.RawMessage("null")
		}
		entries = append(entries, HistoryEntry{
			ID:             g.ID,
			Kind:           g.Kind,
			Ingredients:    g.Ingredients,
			Diet:           g.Diet,
			Model:          g.Model,
			Response:       resp,
			Fallback:       g.Fallback,
			FallbackReason: g.FallbackReason,
			Strict:         g.Strict,
			LatencyMs:      g.LatencyMs,
			CreatedAt:      g.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// HistoryDisabled answers /history when no database is configured.
func HistoryDisabled(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "History is disabled")
}
