// Package backendtest runs an in-process imitation of the banking REST API
// with one-time OTP codes and scriptable failures.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

const (
	Token      = "test-token"
	APIPrefix  = "/api/v1"
	OurBank    = "shlapabank"
	defaultTTL = 300
)

type Call struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type failure struct {
	status int
	detail interface{}
	once   bool
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	codes    []string
	issued   int
	current  string
	ttl      int
	calls    []Call
	failures map[string]*failure
	accounts map[string]bool
	phones   map[string]bool
	password string
	nextTxID int64
}

func NewServer(t testing.TB) *Server {
	s := &Server{
		codes:    []string{"1234", "5678", "9012", "3456"},
		ttl:      defaultTTL,
		failures: map[string]*failure{},
		accounts: map[string]bool{},
		phones:   map[string]bool{},
		password: "secret",
		nextTxID: 100,
	}

	r := chi.NewRouter()
	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(s.record, s.authenticate)
		r.Get("/helper/otp/preview", s.otpPreview)
		r.Get("/transfers/by-account/check", s.checkAccount)
		r.Get("/transfers/by-phone/check", s.checkPhone)
		r.Get("/transfers/daily-usage", s.dailyUsage)
		r.Get("/transfers/rates", s.rates)
		r.Get("/payments/mobile/operators", s.static(`{"operators":["Babline","MTSha","MegaFun","TelePanda","YotaLike"],"amountRangeRub":{"min":100,"max":12000}}`))
		r.Get("/payments/vendor/providers", s.static(`{"providers":[{"name":"TV360","accountLength":12}],"amountRangeRub":{"min":100,"max":500000}}`))
		r.Get("/accounts", s.static(`[{"id":1,"account_number":"4081781000000001","account_type":"DEBIT","currency":"RUB","balance":"5000.00"},{"id":2,"account_number":"4081784000000002","account_type":"DEBIT","currency":"USD","balance":"10.00"}]`))
		r.Get("/transactions", s.static(`[]`))
		r.Get("/profile", s.static(`{"id":7,"login":"user","first_name":"Anna","last_name":"Ivanova","email":"a@example.com","status":"ACTIVE"}`))
		r.Patch("/profile", s.updateProfile)
		r.Post("/transfers", s.mutate)
		r.Post("/transfers/by-account", s.mutate)
		r.Post("/transfers/external-by-account", s.mutate)
		r.Post("/transfers/by-phone", s.mutate)
		r.Post("/transfers/exchange", s.mutate)
		r.Post("/payments/mobile", s.mutate)
		r.Post("/payments/vendor", s.mutate)
		r.Post("/accounts/{id}/topup", s.mutate)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to backend.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + APIPrefix
}

func (s *Server) SetCodes(codes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = codes
}

func (s *Server) SetTTL(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttl = seconds
}

// CurrentCode is the last issued, still unused OTP code.
func (s *Server) CurrentCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Server) AddAccount(number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[number] = true
}

func (s *Server) AddPhone(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phones[phone] = true
}

// Fail makes every request to method+path fail with status and detail.
func (s *Server) Fail(method, path string, status int, detail interface{}) {
	s.setFailure(method, path, &failure{status: status, detail: detail})
}

// FailOnce fails only the next request to method+path.
func (s *Server) FailOnce(method, path string, status int, detail interface{}) {
	s.setFailure(method, path, &failure{status: status, detail: detail, once: true})
}

func (s *Server) setFailure(method, path string, f *failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+APIPrefix+path] = f
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == APIPrefix+path {
			n++
		}
	}
	return n
}

// MutatingCalls counts every POST that moves money.
func (s *Server) MutatingCalls() int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == http.MethodPost {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&call.Body)
		}
		s.mu.Lock()
		s.calls = append(s.calls, call)
		f := s.failures[r.Method+" "+r.URL.Path]
		if f != nil && f.once {
			delete(s.failures, r.Method+" "+r.URL.Path)
		}
		s.mu.Unlock()

		ctx := r.Context()
		r = r.WithContext(withCall(ctx, &call, f))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeDetail(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if _, f := callFrom(r.Context()); f != nil && r.Method == http.MethodGet {
			writeDetail(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) otpPreview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	code := s.codes[s.issued%len(s.codes)]
	s.issued++
	s.current = code
	ttl := s.ttl
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userId":     7,
		"otp":        code,
		"ttlSeconds": ttl,
		"message":    "SMS: ваш код подтверждения " + code,
	})
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func (s *Server) checkAccount(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("target_account_number")
	if len(number) != 16 || !isDigits(number) {
		writeDetail(w, http.StatusBadRequest, "invalid_account_number")
		return
	}
	s.mu.Lock()
	found := s.accounts[number]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"found": found, "masked": "••••" + number[12:]})
}

func (s *Server) checkPhone(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	s.mu.Lock()
	inOurBank := s.phones[phone]
	s.mu.Unlock()

	banks := []map[string]string{{"id": "alfa", "label": "Alfa"}, {"id": "tbank", "label": "T-Bank"}}
	if inOurBank {
		banks = append([]map[string]string{{"id": OurBank, "label": "ShlapaBank"}}, banks...)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"inOurBank": inOurBank, "availableBanks": banks})
}

func (s *Server) dailyUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"limits": map[string]interface{}{
			"perCurrency": []map[string]string{
				{"currency": "RUB", "dailyLimit": "1000000.00", "usedToday": "750000.00", "remaining": "250000.00"},
				{"currency": "USD", "dailyLimit": "10000.00", "usedToday": "0.00", "remaining": "10000.00"},
			},
		},
	})
}

func (s *Server) rates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"base":  "RUB",
		"toRub": map[string]string{"RUB": "1", "USD": "90.00", "EUR": "100.00", "CNY": "12.50"},
	})
}

func (s *Server) static(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	call, _ := callFrom(r.Context())
	if pw, ok := call.Body["current_password"].(string); ok && pw != s.password {
		writeDetail(w, http.StatusUnauthorized, "invalid_current_password")
		return
	}
	s.static(`{"id":7,"login":"user","first_name":"Anna","last_name":"Ivanova","email":"a@example.com","status":"ACTIVE"}`)(w, r)
}

// mutate validates the one-time code first, like the real API, then applies
// any scripted failure.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request) {
	call, f := callFrom(r.Context())
	code, _ := call.Body["otp_code"].(string)

	s.mu.Lock()
	if s.current == "" || code != s.current {
		s.mu.Unlock()
		writeDetail(w, http.StatusBadRequest, "invalid_otp_code")
		return
	}
	s.current = ""
	s.nextTxID++
	id := s.nextTxID
	s.mu.Unlock()

	if f != nil {
		writeDetail(w, f.status, f.detail)
		return
	}

	amount, _ := call.Body["amount"].(string)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":           id,
		"type":         txType(r.URL.Path),
		"amount":       amount,
		"currency":     "RUB",
		"status":       "COMPLETED",
		"initiated_by": 7,
		"created_at":   "2026-02-26T12:34:56.000000",
	})
}

func txType(path string) string {
	switch {
	case strings.Contains(path, "/payments/"):
		return "PAYMENT"
	case strings.HasSuffix(path, "/topup"):
		return "TOPUP"
	}
	return "TRANSFER"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail interface{}) {
	writeJSON(w, status, map[string]interface{}{"detail": detail})
}
