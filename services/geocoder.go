package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/foodcart-app/models"
)

const DefaultGeocoderURL = "https://geocode-maps.yandex.ru"

// Geocoder turns address text into coordinates. A nil result with a nil error
// means the provider found nothing.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// GeocoderHTTPError is returned when the provider rejects the request.
type GeocoderHTTPError struct {
	StatusCode int
	Address    string
}

func (e *GeocoderHTTPError) Error() string {
	return fmt.Sprintf("geocoder: status %d for %q", e.StatusCode, e.Address)
}

// YandexGeocoder talks to the Yandex HTTP geocoder API.
type YandexGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewYandexGeocoder(apiKey, baseURL string, timeout time.Duration) *YandexGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocoderURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &YandexGeocoder{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type yandexResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

func (g *YandexGeocoder) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	params := url.Values{}
	params.Set("geocode", address)
	params.Set("apikey", g.apiKey)
	params.Set("format", "json")

	reqURL := fmt.Sprintf("%s/1.x/?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geocoder: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GeocoderHTTPError{StatusCode: resp.StatusCode, Address: address}
	}

	var body yandexResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocoder: decode response: %w", err)
	}

	found := body.Response.GeoObjectCollection.FeatureMember
	if len(found) == 0 {
		return nil, nil
	}
	return parsePos(found[0].GeoObject.Point.Pos)
}

// parsePos reads Yandex's "lon lat" pair.
func parsePos(pos string) (*models.Coordinates, error) {
	fields := strings.Fields(pos)
	if len(fields) != 2 {
		return nil, fmt.Errorf("geocoder: malformed position %q", pos)
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder: longitude %q: %w", fields[0], err)
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder: latitude %q: %w", fields[1], err)
	}
	return &models.Coordinates{Lon: lon, Lat: lat}, nil
}
