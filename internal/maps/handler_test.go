package maps

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"location_picker/internal/geo"
	"location_picker/platform/apperr"
	"location_picker/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveLookup(t *testing.T, searcher Searcher, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/lookup", NewHandler(searcher).Lookup)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandlerLookup_Found(t *testing.T) {
	stub := &stubSearcher{coord: geo.Coordinate{Latitude: 48.8566, Longitude: 2.3522}}
	rec := serveLookup(t, stub, "/lookup?q=Paris")

	require.Equal(t, http.StatusOK, rec.Code)
	var body LookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Paris", body.Query)
	assert.Equal(t, "48.856600", body.Latitude)
	assert.Equal(t, "2.352200", body.Longitude)
}

func TestHandlerLookup_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{"missing query", "/lookup", nil, http.StatusBadRequest},
		{"not found", "/lookup?q=Atlantis", ErrNotFound, http.StatusNotFound},
		{"upstream", "/lookup?q=Paris", apperr.Upstream(MessageFailure, nil), http.StatusBadGateway},
		{"blank", "/lookup?q=%20%20", ErrEmptyQuery, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serveLookup(t, &stubSearcher{err: tc.err}, tc.target)
			assert.Equal(t, tc.status, rec.Code)

			var body httpkit.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}
