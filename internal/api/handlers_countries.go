package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/i18n"
	"github.com/RobinCoderZhao/countrykit/pkg/picker"
)

type CountryListResponse struct {
	Language string       `json:"language"`
	Rows     []picker.Row `json:"rows"`
	// Selected is the row of ?selected=, or -1.
	Selected int `json:"selected"`
}

type CountryResponse struct {
	Code  country.Code `json:"code"`
	Flag  string       `json:"flag,omitempty"`
	Name  string       `json:"name"`
	Label string       `json:"label"`
}

type DetectResponse struct {
	IP       string       `json:"ip"`
	Country  country.Code `json:"country"`
	Label    string       `json:"label"`
	Language string       `json:"language"`
}

// handleListCountries renders the configured code list, or the ?codes= list,
// optionally prefixed with the all-countries row (?all=true).
// ?selected= reports the position of one code in the result.
func (s *Server) handleListCountries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes := s.codes
		if raw := r.URL.Query().Get("codes"); raw != "" {
			parsed, err := country.ParseList(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			codes = parsed
		}
		if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); all {
			codes = country.WithAll(codes)
		}

		adapter := picker.NewAdapter(codes, s.language(r), s.formatter)
		s.respondRows(w, r, adapter)
	}
}

// respondRows writes every row of adapter and marks the ?selected= code.
func (s *Server) respondRows(w http.ResponseWriter, r *http.Request, adapter *picker.Adapter) {
	selected := -1
	if raw := r.URL.Query().Get("selected"); raw != "" {
		code, err := country.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		selected = adapter.Position(code)
	}
	respondJSON(w, http.StatusOK, CountryListResponse{
		Language: adapter.Language().String(),
		Rows:     adapter.Rows(),
		Selected: selected,
	})
}

func (s *Server) handleGetCountry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := country.Parse(r.PathValue("code"))
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		lang := s.language(r)
		resp := CountryResponse{
			Code:  code,
			Label: s.formatter.Format(code, lang),
		}
		if code.IsAll() {
			resp.Name = resp.Label
		} else {
			resp.Flag = code.Flag()
			resp.Name = i18n.RegionName(lang, string(code))
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// handleDetect geolocates ?ip= or the caller and suggests a country and
// language. The language comes from ?lang= or Accept-Language when present,
// else from the located country.
func (s *Server) handleDetect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.locator == nil {
			respondError(w, http.StatusServiceUnavailable, "geolocation is not configured")
			return
		}

		ip := strings.TrimSpace(r.URL.Query().Get("ip"))
		if ip == "" {
			ip = clientIP(r)
		}
		addr := net.ParseIP(ip)
		if addr == nil {
			respondError(w, http.StatusBadRequest, "invalid ip address")
			return
		}
		ip = addr.String()

		raw, err := s.locator.Locate(r.Context(), ip)
		if err != nil {
			s.logger.Warn("geolocation failed", "ip", ip, "error", err)
			respondError(w, http.StatusNotFound, "could not locate address")
			return
		}
		code, err := country.Parse(raw)
		if err != nil {
			respondError(w, http.StatusNotFound, "could not locate address")
			return
		}

		// A language named by the request wins over the located country.
		lang, named := i18n.RequestTag(r)
		if !named {
			lang = i18n.DetectLanguage(r.Context(), "", ip, staticLocator(code)).Tag()
		}
		respondJSON(w, http.StatusOK, DetectResponse{
			IP:       ip,
			Country:  code,
			Label:    s.formatter.Format(code, lang),
			Language: lang.String(),
		})
	}
}

// staticLocator answers every lookup with one code so DetectLanguage does not
// geolocate twice.
type staticLocator country.Code

func (l staticLocator) Locate(_ context.Context, _ string) (string, error) {
	return string(l), nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
