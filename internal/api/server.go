// Package api provides the REST API over the country picker and the channel directory.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/RobinCoderZhao/countrykit/internal/channel"
	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/i18n"
	"github.com/RobinCoderZhao/countrykit/pkg/picker"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Options configures a Server.
type Options struct {
	// Codes backs GET /api/countries. Empty means every ISO code.
	Codes       []country.Code
	DefaultLang language.Tag
	JWTSecret   string
	// Locator resolves client addresses for GET /api/detect. May be nil.
	Locator i18n.GeoLocator
	// Strings localizes API messages. Defaults to the embedded catalog.
	Strings i18n.Strings
}

// Server holds the dependencies for the API.
type Server struct {
	formatter    *picker.Formatter
	channelStore *channel.Store
	codes        []country.Code
	defaultLang  language.Tag
	locator      i18n.GeoLocator
	strings      i18n.Strings
	jwtSecret    []byte
	logger       *slog.Logger
}

// NewServer creates a new API Server instance.
func NewServer(formatter *picker.Formatter, channels *channel.Store, opts Options) *Server {
	codes := opts.Codes
	if len(codes) == 0 {
		codes = country.Codes()
	}
	if opts.DefaultLang == language.Und {
		opts.DefaultLang = language.English
	}
	if opts.Strings == nil {
		opts.Strings = i18n.Default()
	}
	return &Server{
		formatter:    formatter,
		channelStore: channels,
		codes:        codes,
		defaultLang:  opts.DefaultLang,
		locator:      opts.Locator,
		strings:      opts.Strings,
		jwtSecret:    []byte(opts.JWTSecret),
		logger:       slog.Default(),
	}
}

// Routes returns the configured http.Handler (ServeMux) for the API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Countries (Public)
	mux.HandleFunc("GET /api/countries", s.handleListCountries())
	mux.HandleFunc("GET /api/countries/{code}", s.handleGetCountry())
	mux.HandleFunc("GET /api/detect", s.handleDetect())

	// Channels
	mux.HandleFunc("GET /api/channels", s.handleListChannels())
	mux.HandleFunc("GET /api/channels/countries", s.handleChannelCountries())
	mux.Handle("POST /api/channels", s.requireAuthHandler(http.HandlerFunc(s.handleAddChannel())))
	mux.Handle("DELETE /api/channels/{id}", s.requireAuthHandler(http.HandlerFunc(s.handleDeleteChannel())))

	return s.logRequests(mux)
}

// language returns the language a request asked for.
func (s *Server) language(r *http.Request) language.Tag {
	return i18n.ResolveRequestTag(r, s.defaultLang)
}

// RequestIDHeader carries the request ID; an incoming value is kept.
const RequestIDHeader = "X-Request-ID"

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("api request", "id", id, "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// --- Helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
