package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"reviewwise/internal/app"
	"reviewwise/internal/categorize"
	"reviewwise/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Handlers struct {
	Q   *app.QueryService
	Tax *categorize.Taxonomy
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type categoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type categoriesResponse struct {
	Categories []categoryCount `json:"categories"`
	Total      int             `json:"total"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Get("/v1/categories", h.listCategories)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeJSON answers 304 when the client already holds the current version.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "response encoding failed")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := domain.ReviewsQuery{Category: qs.Get("category"), Limit: defaultLimit}

	if q.Category != "" && !h.Tax.Has(q.Category) {
		writeProblem(w, http.StatusBadRequest, "Invalid category", "unknown category "+strconv.Quote(q.Category))
		return
	}
	if ls := qs.Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > maxLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		q.Limit = l
	}
	if cs := qs.Get("cursor"); cs != "" {
		off, err := strconv.Atoi(cs)
		if err != nil || off < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid cursor", "cursor must come from a previous next_cursor")
			return
		}
		q.Offset = off
	}

	out, err := h.Q.ListReviews(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Str("category", q.Category).Msg("list reviews failed")
		writeProblem(w, http.StatusServiceUnavailable, "Store Unavailable", "reviews could not be read")
		return
	}
	if out.Items == nil {
		out.Items = []domain.Review{}
	}
	writeJSON(w, r, out)
}

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Q.CategoryCounts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("category counts failed")
		writeProblem(w, http.StatusServiceUnavailable, "Store Unavailable", "counts could not be read")
		return
	}
	writeJSON(w, r, categoriesBody(h.Tax.Labels(), counts))
}

// categoriesBody lists taxonomy labels in match order, then the fallback,
// then any stored label no longer in the taxonomy.
func categoriesBody(labels []string, counts map[string]int) categoriesResponse {
	order := append(labels, domain.FallbackCategory)
	seen := make(map[string]bool, len(order))
	resp := categoriesResponse{Categories: make([]categoryCount, 0, len(order))}
	for _, l := range order {
		seen[l] = true
		resp.Categories = append(resp.Categories, categoryCount{Label: l, Count: counts[l]})
		resp.Total += counts[l]
	}
	var extra []string
	for l := range counts {
		if !seen[l] {
			extra = append(extra, l)
		}
	}
	sort.Strings(extra)
	for _, l := range extra {
		resp.Categories = append(resp.Categories, categoryCount{Label: l, Count: counts[l]})
		resp.Total += counts[l]
	}
	return resp
}
