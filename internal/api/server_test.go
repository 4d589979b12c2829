package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/RobinCoderZhao/countrykit/internal/channel"
	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/i18n"
	"github.com/RobinCoderZhao/countrykit/pkg/picker"
	"github.com/RobinCoderZhao/countrykit/pkg/storage"
	"golang.org/x/text/language"
)

const testSecret = "test-secret"

type mapLocator map[string]string

func (m mapLocator) Locate(_ context.Context, ip string) (string, error) {
	if code, ok := m[ip]; ok {
		return code, nil
	}
	return "", i18n.ErrNotLocated
}

func newTestServer(t *testing.T) (*Server, *channel.Store) {
	t.Helper()
	db, err := storage.Open(storage.Config{DSN: storage.MemoryDSN})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := channel.NewStore(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddAll(context.Background(), channel.Seed); err != nil {
		t.Fatal(err)
	}

	s := NewServer(picker.NewFormatter(nil), store, Options{
		Codes:       []country.Code{"KE", "UG", "TZ"},
		DefaultLang: language.English,
		JWTSecret:   testSecret,
		Locator:     mapLocator{"41.90.0.1": "KE", "41.202.0.1": "CI"},
	})
	return s, store
}

func do(t *testing.T, h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestListCountries(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	w := do(t, h, http.MethodGet, "/api/countries?all=true", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[CountryListResponse](t, w)
	if len(resp.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(resp.Rows))
	}
	if resp.Rows[0].Text != "🌍 All Countries" || resp.Rows[1].Text != "🇰🇪 Kenya" {
		t.Fatalf("unexpected rows: %+v", resp.Rows)
	}

	w = do(t, h, http.MethodGet, "/api/countries?codes=de", "", map[string]string{"Accept-Language": "fr-FR,fr;q=0.9"})
	resp = decode[CountryListResponse](t, w)
	if resp.Language != "fr-FR" || len(resp.Rows) != 1 || resp.Rows[0].Text != "🇩🇪 Allemagne" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	w = do(t, h, http.MethodGet, "/api/countries?codes=K1", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetCountry(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	w := do(t, h, http.MethodGet, "/api/countries/ug?lang=fr", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[CountryResponse](t, w)
	if resp.Code != "UG" || resp.Flag != "🇺🇬" || resp.Name != "Ouganda" || resp.Label != "🇺🇬 Ouganda" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	w = do(t, h, http.MethodGet, "/api/countries/00?lang=sw", "", nil)
	resp = decode[CountryResponse](t, w)
	if resp.Label != "🌍 Nchi zote" || resp.Flag != "" {
		t.Fatalf("unexpected sentinel response: %+v", resp)
	}

	w = do(t, h, http.MethodGet, "/api/countries/USA", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListChannels(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	w := do(t, h, http.MethodGet, "/api/channels", "", nil)
	all := decode[ChannelListResponse](t, w)
	if all.Country != country.All || len(all.Channels) != len(channel.Seed) {
		t.Fatalf("expected all channels, got %d for %s", len(all.Channels), all.Country)
	}

	w = do(t, h, http.MethodGet, "/api/channels?country=gh", "", nil)
	gh := decode[ChannelListResponse](t, w)
	if len(gh.Channels) != 2 || gh.Label != "🇬🇭 Ghana" {
		t.Fatalf("unexpected Ghana response: %+v", gh)
	}

	w = do(t, h, http.MethodGet, "/api/channels?country=FR&lang=fr", "", nil)
	fr := decode[ChannelListResponse](t, w)
	if len(fr.Channels) != 0 || fr.Message != "Aucun service disponible en France" {
		t.Fatalf("unexpected empty response: %+v", fr)
	}

	w = do(t, h, http.MethodGet, "/api/channels?country=F", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChannelCountries(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s.Routes(), http.MethodGet, "/api/channels/countries", "", nil)
	resp := decode[CountryListResponse](t, w)
	if len(resp.Rows) != 7 {
		t.Fatalf("expected sentinel plus 6 countries, got %d", len(resp.Rows))
	}
	if resp.Rows[0].Code != country.All || resp.Rows[1].Code != "CI" {
		t.Fatalf("unexpected rows: %+v", resp.Rows)
	}
	if resp.Selected != -1 {
		t.Fatalf("expected no selection, got %d", resp.Selected)
	}
}

func TestCountryRows_Selected(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	w := do(t, h, http.MethodGet, "/api/channels/countries?selected=ke&lang=fr", "", nil)
	resp := decode[CountryListResponse](t, w)
	if resp.Selected != 3 || resp.Rows[resp.Selected].Code != "KE" || resp.Language != "fr" {
		t.Fatalf("expected KE selected at 3, got %+v", resp)
	}

	w = do(t, h, http.MethodGet, "/api/countries?all=true&selected=00", "", nil)
	resp = decode[CountryListResponse](t, w)
	if resp.Selected != 0 {
		t.Fatalf("expected sentinel selected at 0, got %d", resp.Selected)
	}

	w = do(t, h, http.MethodGet, "/api/countries?selected=FR", "", nil)
	resp = decode[CountryListResponse](t, w)
	if resp.Selected != -1 {
		t.Fatalf("expected FR to be absent, got %d", resp.Selected)
	}

	w = do(t, h, http.MethodGet, "/api/countries?selected=F", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAddAndDeleteChannel_Auth(t *testing.T) {
	s, store := newTestServer(t)
	h := s.Routes()
	body := `{"name":"Wave","country":"sn","kind":"mobile_money"}`

	w := do(t, h, http.MethodPost, "/api/channels", body, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	w = do(t, h, http.MethodPost, "/api/channels", body, map[string]string{"Authorization": "Bearer nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}

	token, err := GenerateToken(testSecret, "ops", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	auth := map[string]string{"Authorization": "Bearer " + token}

	w = do(t, h, http.MethodPost, "/api/channels", body, auth)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decode[map[string]int](t, w)

	w = do(t, h, http.MethodPost, "/api/channels", body, auth)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", w.Code)
	}
	w = do(t, h, http.MethodPost, "/api/channels", `{"name":"Any","country":"00"}`, auth)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for sentinel country, got %d", w.Code)
	}

	list, err := store.List(context.Background(), "SN")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected channel in SN, got %v (%v)", list, err)
	}

	target := "/api/channels/" + strconv.Itoa(created["id"])
	w = do(t, h, http.MethodDelete, target, "", auth)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = do(t, h, http.MethodDelete, target, "", auth)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if _, err := store.Get(context.Background(), created["id"]); !errors.Is(err, channel.ErrNotFound) {
		t.Fatalf("expected channel to be gone, got %v", err)
	}
}

func TestWriteDisabledWithoutSecret(t *testing.T) {
	s, store := newTestServer(t)
	s = NewServer(picker.NewFormatter(nil), store, Options{})
	w := do(t, s.Routes(), http.MethodPost, "/api/channels", `{"name":"x","country":"KE"}`, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	if _, err := GenerateToken("", "ops", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestDetect(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	w := do(t, h, http.MethodGet, "/api/detect", "", map[string]string{"X-Forwarded-For": "41.202.0.1, 10.0.0.1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[DetectResponse](t, w)
	wantLabel := country.Code("CI").Flag() + " " + i18n.RegionName(language.French, "CI")
	if resp.Country != "CI" || resp.Language != "fr" || resp.Label != wantLabel {
		t.Fatalf("unexpected detect response: %+v", resp)
	}

	w = do(t, h, http.MethodGet, "/api/detect?ip=41.90.0.1", "", nil)
	resp = decode[DetectResponse](t, w)
	if resp.Country != "KE" || resp.Language != "en" {
		t.Fatalf("unexpected detect response: %+v", resp)
	}

	w = do(t, h, http.MethodGet, "/api/detect?ip=127.0.0.1", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	for _, bad := range []string{"../admin%3Fx%3D", "localhost", "41.90.0"} {
		w = do(t, h, http.MethodGet, "/api/detect?ip="+bad, "", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for ip=%s, got %d", bad, w.Code)
		}
	}
	w = do(t, h, http.MethodGet, "/api/detect", "", map[string]string{"X-Forwarded-For": "not-an-ip"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for forwarded garbage, got %d", w.Code)
	}
}

func TestDetect_RequestLanguageWins(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	w := do(t, h, http.MethodGet, "/api/detect?ip=41.90.0.1&lang=pt", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[DetectResponse](t, w)
	wantLabel := country.Code("KE").Flag() + " " + i18n.RegionName(language.Portuguese, "KE")
	if resp.Country != "KE" || resp.Language != "pt" || resp.Label != wantLabel {
		t.Fatalf("expected Portuguese label, got %+v", resp)
	}

	w = do(t, h, http.MethodGet, "/api/detect?ip=41.90.0.1", "", map[string]string{"Accept-Language": "de-DE,de;q=0.8"})
	resp = decode[DetectResponse](t, w)
	if resp.Language != "de-DE" {
		t.Fatalf("expected Accept-Language to win, got %+v", resp)
	}
}

func TestAddChannel_StoreFailure(t *testing.T) {
	db, err := storage.Open(storage.Config{DSN: storage.MemoryDSN})
	if err != nil {
		t.Fatal(err)
	}
	store, err := channel.NewStore(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(picker.NewFormatter(nil), store, Options{JWTSecret: testSecret})
	db.Close()

	token, err := GenerateToken(testSecret, "ops", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	w := do(t, s.Routes(), http.MethodPost, "/api/channels", `{"name":"Wave","country":"SN"}`,
		map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[map[string]string](t, w)
	if resp["error"] != "Database error" {
		t.Fatalf("expected generic error, got %q", resp["error"])
	}
}

func TestDetect_NoLocator(t *testing.T) {
	_, store := newTestServer(t)
	s := NewServer(picker.NewFormatter(nil), store, Options{})
	w := do(t, s.Routes(), http.MethodGet, "/api/detect?ip=1.1.1.1", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	w := do(t, h, http.MethodGet, "/healthz", "", nil)
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	w = do(t, h, http.MethodGet, "/healthz", "", map[string]string{RequestIDHeader: "abc-123"})
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected incoming request id, got %q", got)
	}
}
