// Package geocoder talks to a Yandex-style forward geocoding HTTP API and
// normalizes its responses into coordinates.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/config"
	"github.com/Additional-Code/foodcart/internal/geo"
)

// Module provides the geocoder client to the Fx graph.
var Module = fx.Provide(NewClient)

// acceptedKinds are the only place classifications trusted to pin a delivery
// address. Broader matches (province, country) are rejected as too fuzzy.
var acceptedKinds = map[string]struct{}{
	"house":    {},
	"street":   {},
	"locality": {},
}

// Client resolves free-text addresses against the external geocoding service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient builds a Client from configuration. An empty API key yields a
// client that reports every address as not found without touching the
// network.
func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Geocoder.Timeout},
		baseURL:    cfg.Geocoder.BaseURL,
		apiKey:     cfg.Geocoder.APIKey,
		logger:     logger,
	}
}

// geocodeResponse mirrors the upstream payload; position is "lon lat".
type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			MetaDataProperty struct {
				GeocoderResponseMetaData struct {
					Found string `json:"found"`
				} `json:"GeocoderResponseMetaData"`
			} `json:"metaDataProperty"`
			FeatureMember []struct {
				GeoObject struct {
					MetaDataProperty struct {
						GeocoderMetaData struct {
							Kind      string `json:"kind"`
							Precision string `json:"precision"`
							Text      string `json:"text"`
						} `json:"GeocoderMetaData"`
					} `json:"metaDataProperty"`
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Geocode resolves an address to coordinates. ok=false with a nil error is a
// definitive "not found" (safe to cache); a non-nil error signals a transport
// or upstream problem and must not be cached as a negative.
func (c *Client) Geocode(ctx context.Context, address string) (geo.Point, bool, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return geo.Point{}, false, nil
	}
	if c.apiKey == "" {
		return geo.Point{}, false, fmt.Errorf("geocoder API key is not configured")
	}

	query := url.Values{}
	query.Set("apikey", c.apiKey)
	query.Set("geocode", address)
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, false, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return geo.Point{}, false, fmt.Errorf("decode geocode response: %w", err)
	}

	collection := decoded.Response.GeoObjectCollection
	found, _ := strconv.Atoi(collection.MetaDataProperty.GeocoderResponseMetaData.Found)
	if found <= 0 || len(collection.FeatureMember) == 0 {
		return geo.Point{}, false, nil
	}

	candidate := collection.FeatureMember[0].GeoObject
	meta := candidate.MetaDataProperty.GeocoderMetaData

	if _, ok := acceptedKinds[meta.Kind]; !ok {
		c.logger.Debug("geocode candidate rejected by kind",
			zap.String("address", address), zap.String("kind", meta.Kind))
		return geo.Point{}, false, nil
	}
	if !strings.Contains(strings.ToLower(meta.Text), strings.ToLower(address)) {
		c.logger.Debug("geocode candidate rejected by text mismatch",
			zap.String("address", address), zap.String("text", meta.Text))
		return geo.Point{}, false, nil
	}

	point, err := parsePos(candidate.Point.Pos)
	if err != nil {
		c.logger.Warn("geocode candidate has malformed position",
			zap.String("address", address), zap.String("pos", candidate.Point.Pos))
		return geo.Point{}, false, nil
	}

	return point, true, nil
}

// parsePos converts the upstream "longitude latitude" pair into a Point.
func parsePos(pos string) (geo.Point, error) {
	fields := strings.Fields(pos)
	if len(fields) != 2 {
		return geo.Point{}, fmt.Errorf("unexpected position %q", pos)
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return geo.Point{}, err
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}
