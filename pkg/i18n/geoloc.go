package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oschwald/geoip2-golang"
)

var (
	// ErrNotLocated is returned when a locator has no country for an address.
	ErrNotLocated = errors.New("country not found for address")
	// ErrInvalidAddress is returned for input that is not an IP address.
	ErrInvalidAddress = errors.New("invalid ip address")
)

// GeoLocator resolves an IP address to a country code.
type GeoLocator interface {
	Locate(ctx context.Context, ip string) (countryCode string, err error)
}

const (
	ipAPIBaseURL      = "http://ip-api.com"
	defaultMaxElapsed = 8 * time.Second
)

// IPAPILocator uses ip-api.com (free, no API key, 45 req/min).
// Transport errors, 429 and 5xx responses are retried with exponential backoff.
// The zero value is usable and queries ip-api.com with http.DefaultClient.
type IPAPILocator struct {
	BaseURL string
	// MaxElapsed bounds the time spent retrying one lookup.
	MaxElapsed time.Duration

	cache  sync.Map // canonical ip → countryCode
	client *http.Client
	logger *slog.Logger
}

// NewIPAPILocator creates a locator using ip-api.com.
func NewIPAPILocator() *IPAPILocator {
	return &IPAPILocator{
		BaseURL:    ipAPIBaseURL,
		MaxElapsed: defaultMaxElapsed,
		client:     &http.Client{Timeout: 5 * time.Second},
		logger:     slog.Default(),
	}
}

type ipAPIResponse struct {
	Status      string `json:"status"`
	CountryCode string `json:"countryCode"`
	Country     string `json:"country"`
}

func (l *IPAPILocator) Locate(ctx context.Context, ip string) (string, error) {
	addr := net.ParseIP(strings.TrimSpace(ip))
	if addr == nil {
		return "", fmt.Errorf("ip-api lookup for %q: %w", ip, ErrInvalidAddress)
	}
	key := addr.String()
	if cached, ok := l.cache.Load(key); ok {
		return cached.(string), nil
	}

	base := l.BaseURL
	if base == "" {
		base = ipAPIBaseURL
	}
	endpoint := fmt.Sprintf("%s/json/%s?fields=status,countryCode,country",
		strings.TrimSuffix(base, "/"), url.PathEscape(key))

	var code string
	op := func() error {
		c, err := l.fetch(ctx, endpoint, key)
		if err != nil {
			return err
		}
		code = c
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 200 * time.Millisecond
	expBackoff.MaxInterval = 2 * time.Second
	expBackoff.MaxElapsedTime = l.MaxElapsed
	if expBackoff.MaxElapsedTime <= 0 {
		expBackoff.MaxElapsedTime = defaultMaxElapsed
	}

	notify := func(err error, wait time.Duration) {
		if l.logger != nil {
			l.logger.Debug("ip-api retry", "ip", key, "wait", wait, "error", err)
		}
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(expBackoff, ctx), notify); err != nil {
		return "", err
	}

	l.cache.Store(key, code)
	return code, nil
}

// fetch performs one lookup. Errors that retrying cannot fix are permanent.
func (l *IPAPILocator) fetch(ctx context.Context, endpoint, ip string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}

	client := l.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ip-api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", fmt.Errorf("ip-api status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result ipAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", backoff.Permanent(fmt.Errorf("parse ip-api response: %w", err))
	}

	if result.Status != "success" || result.CountryCode == "" {
		return "", backoff.Permanent(fmt.Errorf("ip-api lookup for %s: %w", ip, ErrNotLocated))
	}
	return result.CountryCode, nil
}

// GeoIPLocator reads a local MaxMind GeoIP2/GeoLite2 country database.
type GeoIPLocator struct {
	reader *geoip2.Reader
}

// OpenGeoIPLocator opens the .mmdb file at path.
func OpenGeoIPLocator(path string) (*GeoIPLocator, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %s: %w", path, err)
	}
	return &GeoIPLocator{reader: reader}, nil
}

func (l *GeoIPLocator) Locate(_ context.Context, ip string) (string, error) {
	addr := net.ParseIP(strings.TrimSpace(ip))
	if addr == nil {
		return "", fmt.Errorf("geoip lookup for %q: %w", ip, ErrInvalidAddress)
	}
	record, err := l.reader.Country(addr)
	if err != nil {
		return "", fmt.Errorf("geoip lookup %s: %w", ip, err)
	}
	if record.Country.IsoCode == "" {
		return "", fmt.Errorf("geoip lookup %s: %w", ip, ErrNotLocated)
	}
	return record.Country.IsoCode, nil
}

// Close releases the database.
func (l *GeoIPLocator) Close() error {
	return l.reader.Close()
}

// ChainLocator tries each locator in order and returns the first hit.
type ChainLocator []GeoLocator

func (c ChainLocator) Locate(ctx context.Context, ip string) (string, error) {
	var errs []error
	for _, l := range c {
		code, err := l.Locate(ctx, ip)
		if err == nil {
			return code, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrNotLocated
	}
	return "", errors.Join(errs...)
}

// GetPublicIP fetches the machine's public IP address via api.ipify.org.
func GetPublicIP(ctx context.Context) string {
	client := &http.Client{Timeout: 3 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.ipify.org", nil)
	if err != nil {
		return ""
	}
	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return strings.TrimSpace(string(body))
}

// DetectLanguage determines the output language based on priority:
//  1. User-specified language (--lang flag)
//  2. IP geolocation → country → language mapping
//  3. Default: English
func DetectLanguage(ctx context.Context, userLang string, ip string, locator GeoLocator) Language {
	if userLang != "" {
		langs := ParseLanguages(userLang)
		return langs[0]
	}

	if ip != "" && locator != nil {
		country, err := locator.Locate(ctx, ip)
		if err == nil {
			if lang, ok := CountryToLanguage(country); ok {
				return lang
			}
		}
	}

	return DefaultLanguage
}
