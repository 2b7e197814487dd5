package geocoder

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Config{Geocoder: config.Geocoder{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	}}
	return NewClient(cfg, zap.NewNop()), server
}

func payload(found int, kind, text, pos string) string {
	return fmt.Sprintf(`{
		"response": {"GeoObjectCollection": {
			"metaDataProperty": {"GeocoderResponseMetaData": {"found": "%d"}},
			"featureMember": [{"GeoObject": {
				"metaDataProperty": {"GeocoderMetaData": {"kind": %q, "precision": "exact", "text": %q}},
				"Point": {"pos": %q}
			}}]
		}}
	}`, found, kind, text, pos)
}

func TestGeocodeSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "Москва, Ленина 1", r.URL.Query().Get("geocode"))
		fmt.Fprint(w, payload(1, "house", "Россия, Москва, Ленина 1", "37.0 55.0"))
	})

	point, ok, err := client.Geocode(context.Background(), "Москва, Ленина 1")
	require.NoError(t, err)
	require.True(t, ok)
	// Upstream pos is "lon lat"; the client exposes (lat, lon).
	assert.Equal(t, 55.0, point.Lat)
	assert.Equal(t, 37.0, point.Lon)
}

func TestGeocodeZeroMatchesIsDefinitiveNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response": {"GeoObjectCollection": {
			"metaDataProperty": {"GeocoderResponseMetaData": {"found": "0"}},
			"featureMember": []
		}}}`)
	})

	_, ok, err := client.Geocode(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeocodeRejectsFuzzyKind(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload(1, "province", "Россия, Московская область", "37.0 55.0"))
	})

	_, ok, err := client.Geocode(context.Background(), "Московская область")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeocodeRejectsTextMismatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload(1, "house", "Россия, Тверь, Советская 5", "36.0 56.9"))
	})

	_, ok, err := client.Geocode(context.Background(), "Москва, Ленина 1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeocodeAcceptsCaseInsensitiveContainment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload(1, "street", "Russia, MOSCOW, LENINA 1", "37.0 55.0"))
	})

	_, ok, err := client.Geocode(context.Background(), "Moscow, Lenina 1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGeocodeRateLimitIsTransientError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, ok, err := client.Geocode(context.Background(), "Москва, Ленина 1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestGeocodeMalformedPositionIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload(1, "house", "Москва, Ленина 1", "garbage"))
	})

	_, ok, err := client.Geocode(context.Background(), "Москва, Ленина 1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeocodeWithoutAPIKeySkipsNetwork(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	client.apiKey = ""

	_, ok, err := client.Geocode(context.Background(), "Москва, Ленина 1")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, called)
}

func TestParsePos(t *testing.T) {
	point, err := parsePos("37.6173 55.7558")
	require.NoError(t, err)
	assert.Equal(t, 55.7558, point.Lat)
	assert.Equal(t, 37.6173, point.Lon)

	_, err = parsePos("37.6173")
	assert.Error(t, err)
	_, err = parsePos("a b")
	assert.Error(t, err)
}
