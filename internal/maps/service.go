// Package maps resolves free-text place names to coordinates through a
// Nominatim-compatible search endpoint.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"location_picker/internal/geo"
	"location_picker/platform/apperr"
	"location_picker/platform/config"
	"location_picker/platform/logger"
	"location_picker/platform/metrics"
)

const (
	// MessageNotFound is shown when the geocoder answers with no match.
	MessageNotFound = "Location not found"
	// MessageFailure is shown when the lookup itself fails.
	MessageFailure = "Error searching for location"
)

const opLookup = "maps.lookup"

var (
	// ErrNotFound is returned when the result list is empty.
	ErrNotFound = apperr.NotFound(MessageNotFound)
	// ErrEmptyQuery is returned, without any request, for blank queries.
	ErrEmptyQuery = apperr.Validation("search query is empty")
)

// Searcher turns a query into the coordinate of its first match.
type Searcher interface {
	Lookup(ctx context.Context, query string) (geo.Coordinate, error)
}

// Service issues one GET per lookup. There is no retry and no client
// timeout; the caller's context is the only bound.
type Service struct {
	client    *http.Client
	baseURL   string
	userAgent string
	log       *logger.Logger
}

func NewService(cfg config.GeocoderConfig, log *logger.Logger) *Service {
	return NewServiceWithClient(cfg, &http.Client{}, log)
}

func NewServiceWithClient(cfg config.GeocoderConfig, client *http.Client, log *logger.Logger) *Service {
	return &Service{
		client:    client,
		baseURL:   strings.TrimRight(cfg.GetGeocoderURL(), "/"),
		userAgent: cfg.GetGeocoderUserAgent(),
		log:       log,
	}
}

// Lookup returns the first match for query, ErrNotFound for an empty result
// list, or an upstream error for transport, status and decoding failures.
func (s *Service) Lookup(ctx context.Context, query string) (geo.Coordinate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return geo.Coordinate{}, ErrEmptyQuery
	}

	started := time.Now()
	coord, err := s.lookup(ctx, query)
	switch {
	case err == nil:
		metrics.ObserveGeocode("found", started)
	case errors.Is(err, ErrNotFound):
		metrics.ObserveGeocode("not_found", started)
	default:
		metrics.ObserveGeocode("error", started)
		s.log.GeocodeFailed(query, err)
	}
	return coord, err
}

func (s *Service) lookup(ctx context.Context, query string) (geo.Coordinate, error) {
	params := url.Values{}
	params.Add("format", "json")
	params.Add("q", query)

	reqURL := fmt.Sprintf("%s/search?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return geo.Coordinate{}, apperr.Upstream(MessageFailure, err).WithOp(opLookup)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return geo.Coordinate{}, apperr.Upstream(MessageFailure, err).WithOp(opLookup)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, apperr.Upstream(MessageFailure, fmt.Errorf("upstream api error: %d", resp.StatusCode)).WithOp(opLookup)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Coordinate{}, apperr.Upstream(MessageFailure, fmt.Errorf("decode search payload: %w", err)).WithOp(opLookup)
	}

	if len(results) == 0 {
		return geo.Coordinate{}, ErrNotFound
	}

	// Only the first match is consulted.
	coord, err := geo.Parse(results[0].Lat, results[0].Lon)
	if err != nil {
		return geo.Coordinate{}, apperr.Upstream(MessageFailure, err).WithOp(opLookup)
	}
	return coord, nil
}

var _ Searcher = (*Service)(nil)
