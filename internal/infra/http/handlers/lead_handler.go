package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carnance/crm-sync-backend/internal/entity"
	"github.com/carnance/crm-sync-backend/internal/infra/http/middleware"
	"github.com/carnance/crm-sync-backend/internal/usecase"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

type LeadHandler struct {
	Repo        entity.LeadRepositoryInterface
	Capture     *usecase.CaptureLeadUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(repo entity.LeadRepositoryInterface, capture *usecase.CaptureLeadUseCase) *LeadHandler {
	return &LeadHandler{
		Repo:        repo,
		Capture:     capture,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 captures/min per IP
	}
}

// LeadSummary is the trimmed row for list responses.
type LeadSummary struct {
	ID               int64  `json:"id"`
	LeadID           string `json:"lead_id"`
	FullName         string `json:"full_name,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	City             string `json:"city,omitempty"`
	StateProvince    string `json:"state_province,omitempty"`
	EmploymentStatus string `json:"employment_status,omitempty"`
	CompanyName      string `json:"company_name,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

type LeadListResponse struct {
	Total int           `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
	Leads []LeadSummary `json:"leads"`
}

// HandleList serves GET /leads?skip&limit.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	leads, err := h.Repo.FindAll(r.Context(), skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, usecase.CodeStoreError, "failed to list leads")
		return
	}

	summaries := make([]LeadSummary, 0, len(leads))
	for _, lead := range leads {
		summaries = append(summaries, LeadSummary{
			ID:               lead.ID,
			LeadID:           lead.LeadID,
			FullName:         lead.FullName,
			Email:            lead.Email,
			Phone:            lead.Phone,
			City:             lead.City,
			StateProvince:    lead.StateProvince,
			EmploymentStatus: lead.EmploymentStatus,
			CompanyName:      lead.CompanyName,
			CreatedAt:        lead.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, LeadListResponse{
		Total: len(summaries),
		Skip:  skip,
		Limit: limit,
		Leads: summaries,
	})
}

// HandleGet serves GET /leads/{leadId} with the full record.
func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	lead, err := h.Repo.FindByLeadID(r.Context(), leadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, usecase.CodeNotFound, "lead '"+leadID+"' not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, usecase.CodeStoreError, "failed to fetch lead")
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// HandleCapture serves POST /leads: the intake entry point. Rate limited per
// IP because it is the one unauthenticated write we expose.
func (h *LeadHandler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "", "Too many requests. Please try again later.")
		return
	}

	var input usecase.CaptureLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, usecase.CodeValidationError, "Invalid JSON")
		return
	}

	lead, err := h.Capture.Execute(r.Context(), input)
	if err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) {
			switch domainErr.Code {
			case usecase.CodeDuplicateLead:
				writeError(w, http.StatusConflict, domainErr.Code, domainErr.Message)
			default:
				writeError(w, http.StatusBadRequest, domainErr.Code, domainErr.Message)
			}
			return
		}
		writeError(w, http.StatusInternalServerError, usecase.CodeStoreError, "failed to capture lead")
		return
	}

	middleware.RecordLeadCaptured()
	writeJSON(w, http.StatusCreated, lead)
}

func parsePagination(w http.ResponseWriter, r *http.Request) (skip, limit int, ok bool) {
	skip, limit = 0, defaultPageLimit

	if v := r.URL.Query().Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, usecase.CodeValidationError, "skip must be a non-negative integer")
			return 0, 0, false
		}
		skip = n
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageLimit {
			writeError(w, http.StatusBadRequest, usecase.CodeValidationError, "limit must be between 1 and 1000")
			return 0, 0, false
		}
		limit = n
	}

	return skip, limit, true
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
