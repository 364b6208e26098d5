package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/ftoledo/olistmetrics/internal/adapters/export"
	"github.com/ftoledo/olistmetrics/internal/domain"
	"github.com/ftoledo/olistmetrics/internal/usecase"
)

type Server struct {
	mux           *http.ServeMux
	kpis          *usecase.KPIUC
	cohorts       *usecase.CohortUC
	categories    *usecase.CategoryUC
	concentration *usecase.ConcentrationUC
	quality       *usecase.QualityUC
	oauthCfg      *oauth2.Config

	allowed map[string]struct{}
	secret  []byte
}

func New(k *usecase.KPIUC, co *usecase.CohortUC, cat *usecase.CategoryUC, conc *usecase.ConcentrationUC, q *usecase.QualityUC, oauthCfg *oauth2.Config) http.Handler {
	s := &Server{
		mux:           http.NewServeMux(),
		kpis:          k,
		cohorts:       co,
		categories:    cat,
		concentration: conc,
		quality:       q,
		oauthCfg:      oauthCfg,
	}

	allowed := map[string]struct{}{}
	if raw := os.Getenv("REPORT_ALLOWED_EMAILS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				allowed[e] = struct{}{}
			}
		}
	}
	s.allowed = allowed
	sec := os.Getenv("SESSION_KEY")
	if sec == "" {
		sec = "dev-session-secret"
	}
	s.secret = []byte(sec)

	s.routes()
	return Chain(s.mux,
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/reports/monthly", s.handleMonthly)
	s.mux.HandleFunc("/api/reports/customers", s.handleCustomers)
	s.mux.HandleFunc("/api/reports/retention", s.handleRetention)
	s.mux.HandleFunc("/api/reports/categories", s.handleCategories)
	s.mux.HandleFunc("/api/reports/concentration", s.handleConcentration)
	s.mux.HandleFunc("/api/reports/quality", s.handleQuality)
	s.mux.HandleFunc("/api/reports/export.xlsx", s.handleExport)

	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	s.mux.HandleFunc("/logout", s.handleLogout)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}
	rows, err := s.kpis.Monthly(r.Context())
	if err != nil {
		s.reportError(w, "monthly", err)
		return
	}
	writeJSON(w, 200, map[string]any{"months": rows})
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}
	rows, err := s.kpis.Customers(r.Context())
	if err != nil {
		s.reportError(w, "customers", err)
		return
	}
	total := len(rows)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(rows) {
			rows = rows[:n]
		}
	}
	writeJSON(w, 200, map[string]any{"customers": rows, "total": total})
}

func (s *Server) handleRetention(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}
	m, err := s.cohorts.Retention(r.Context())
	if err != nil {
		s.reportError(w, "retention", err)
		return
	}

	// retention rate is derived here on the read side, never stored
	sizeOf := map[string]int{}
	for _, c := range m.Cohorts {
		sizeOf[c.CohortMonth.Format("2006-01")] = c.Customers
	}
	type cellOut struct {
		domain.RetentionCell
		Rate float64 `json:"rate"`
	}
	cells := make([]cellOut, 0, len(m.Cells))
	for _, c := range m.Cells {
		rate := 0.0
		if n := sizeOf[c.CohortMonth.Format("2006-01")]; n > 0 {
			rate = float64(c.ActiveCustomers) / float64(n)
		}
		cells = append(cells, cellOut{RetentionCell: c, Rate: rate})
	}
	writeJSON(w, 200, map[string]any{"cells": cells, "cohorts": m.Cohorts})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}
	rows, err := s.categories.Revenue(r.Context())
	if err != nil {
		s.reportError(w, "categories", err)
		return
	}
	writeJSON(w, 200, map[string]any{"categories": rows})
}

func (s *Server) handleConcentration(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}
	ctx := r.Context()
	deciles, err := s.concentration.Deciles(ctx)
	if err != nil {
		s.reportError(w, "deciles", err)
		return
	}
	freq, err := s.concentration.OrderFrequency(ctx)
	if err != nil {
		s.reportError(w, "frequency", err)
		return
	}
	top, err := s.concentration.TopCustomers(ctx, 10)
	if err != nil {
		s.reportError(w, "top customers", err)
		return
	}
	writeJSON(w, 200, map[string]any{"deciles": deciles, "frequency": freq, "top_customers": top})
}

func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}
	c, err := s.quality.Report(r.Context())
	if err != nil {
		s.reportError(w, "quality", err)
		return
	}
	writeJSON(w, 200, c)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}
	rs, err := export.Collect(r.Context(), export.Sources{
		KPIs:          s.kpis,
		Cohorts:       s.cohorts,
		Categories:    s.categories,
		Concentration: s.concentration,
		Quality:       s.quality,
	})
	if err != nil {
		s.reportError(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=kpis_%s.xlsx", time.Now().Format("20060102")))
	if err := export.WriteWorkbook(w, rs); err != nil {
		log.Error().Err(err).Msg("write workbook")
	}
}

func (s *Server) reportError(w http.ResponseWriter, name string, err error) {
	log.Error().Err(err).Str("report", name).Msg("report failed")
	writeJSON(w, 500, map[string]any{"status": "error", "message": name + " report failed"})
}

// --- session ---

type sessionUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// requireSession guards the report endpoints. With no allowed emails
// configured the API is open (local/dev usage against a private database).
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) bool {
	if len(s.allowed) == 0 {
		return true
	}
	u := s.readSession(r)
	if u == nil {
		writeJSON(w, 401, map[string]any{"status": "error", "message": "unauthorized"})
		return false
	}
	if _, ok := s.allowed[strings.ToLower(u.Email)]; !ok {
		writeJSON(w, 403, map[string]any{"status": "error", "message": "forbidden"})
		return false
	}
	return true
}

func (s *Server) writeSession(w http.ResponseWriter, u *sessionUser) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteStrictMode})
		return
	}
	b, _ := json.Marshal(u)
	h := hmac.New(sha256.New, s.secret)
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "sess", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteStrictMode})
}

func (s *Server) readSession(r *http.Request) *sessionUser {
	c, err := r.Cookie("sess")
	if err != nil || c.Value == "" {
		return nil
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil
	}
	var u sessionUser
	if err := json.Unmarshal(payload, &u); err != nil || u.Email == "" {
		return nil
	}
	return &u
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), 302)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	q := r.URL.Query()
	state := q.Get("state")
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != state {
		http.Error(w, "state", 400)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "oauth", 400)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != 200 {
		log.Error().Err(err).Msg("userinfo")
		http.Error(w, "userinfo", 400)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		http.Error(w, "email", 400)
		return
	}
	s.writeSession(w, &sessionUser{Email: info.Email, Name: info.Name})
	http.Redirect(w, r, "/api/reports/monthly", 302)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, nil)
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
