// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mensahub/mensad/internal/archive"
	"github.com/mensahub/mensad/internal/fetch"
	"github.com/mensahub/mensad/internal/logging"
	"github.com/mensahub/mensad/internal/model"
)

// envelope is the response wrapper the service has always answered with:
// {"success": true, "data": ...} or {"success": false, "message": ...}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debugf("Failed to encode response: %v", err)
	}
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, envelope{Success: false, Message: msg})
}

// planDay is the wire form of one service day.
type planDay struct {
	Weekday string                    `json:"weekday"`
	Meals   map[model.Category]string `json:"meals"`
}

// planPayload is the wire form of a weekly plan. Days are keyed by ISO date,
// the shape clients have consumed since the first release.
type planPayload struct {
	Year      int                `json:"year"`
	Week      int                `json:"week"`
	FetchedAt time.Time          `json:"fetched_at,omitempty"`
	Days      map[string]planDay `json:"days"`
}

func planView(p *model.MealPlan) planPayload {
	days := make(map[string]planDay, len(p.Days))
	for _, d := range p.Days {
		days[d.Date] = planDay{Weekday: d.Weekday, Meals: d.Meals}
	}
	return planPayload{Year: p.Year, Week: p.Week, FetchedAt: p.FetchedAt, Days: days}
}

// handleCurrentPlan serves the latest stored plan, preferring the in-memory
// cache the scheduler keeps warm. A missing plan answers 200 with a
// success:false body; existing clients depend on that shape.
func (s *Server) handleCurrentPlan(w http.ResponseWriter, r *http.Request) {
	var plan *model.MealPlan
	if s.cache != nil {
		plan = s.cache.Get()
	}
	if plan == nil {
		p, err := s.store.GetLatestMealPlan()
		if err != nil {
			logging.Errorf("Failed to load latest meal plan: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to load meal plan")
			return
		}
		plan = p
		if plan != nil && s.cache != nil {
			s.cache.Set(plan)
		}
	}
	if plan == nil {
		writeJSON(w, http.StatusOK, envelope{Success: false, Message: "Meal plan not available"})
		return
	}
	writeData(w, http.StatusOK, planView(plan))
}

func (s *Server) handlePlanWeek(w http.ResponseWriter, r *http.Request) {
	year, yerr := strconv.Atoi(r.PathValue("year"))
	week, werr := strconv.Atoi(r.PathValue("week"))
	if yerr != nil || werr != nil || year < 2000 || week < 1 || week > 53 {
		writeError(w, http.StatusBadRequest, "invalid year or week")
		return
	}

	plan, err := s.store.GetMealPlan(year, week)
	if err != nil {
		logging.Errorf("Failed to load meal plan %d/%d: %v", year, week, err)
		writeError(w, http.StatusInternalServerError, "failed to load meal plan")
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "Meal plan not available")
		return
	}
	writeData(w, http.StatusOK, planView(plan))
}

func (s *Server) handleWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.store.ListPlanWeeks()
	if err != nil {
		logging.Errorf("Failed to list plan weeks: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list weeks")
		return
	}
	if weeks == nil {
		weeks = []model.PlanWeek{}
	}
	writeData(w, http.StatusOK, weeks)
}

func (s *Server) handleArchiveList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.archive.List()
	if err != nil {
		logging.Errorf("Failed to list archive: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read archive")
		return
	}
	if entries == nil {
		entries = []archive.Entry{}
	}
	writeData(w, http.StatusOK, entries)
}

// handleArchiveFile serves one stored PDF. The name must match an entry in
// the archive listing, which rules out path traversal.
func (s *Server) handleArchiveFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	ok, err := s.archive.Contains(name)
	if err != nil {
		logging.Errorf("Failed to check archive for %q: %v", name, err)
		writeError(w, http.StatusInternalServerError, "failed to read archive")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no such archived plan")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, filepath.Join(s.archive.Dir(), name))
}

// handleFetch triggers a refresh in the background and answers immediately.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		writeError(w, http.StatusServiceUnavailable, "fetch not configured")
		return
	}
	if s.opts.Token != "" && bearerToken(r) != s.opts.Token {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	go func() {
		if _, err := s.fetcher.Fetch(context.Background()); err != nil && !errors.Is(err, fetch.ErrUnchanged) {
			logging.Errorf("Manual fetch failed: %v", err)
		}
	}()
	writeData(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.opts.Ping(ctx); err != nil {
			logging.Errorf("Health check database ping failed: %v", err)
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// bearerToken pulls the token out of an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}
