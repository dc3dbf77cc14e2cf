// Package client provides the HTTP clients for the geolocation and weather
// upstreams used by the greeting endpoint.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"orghub_backend/platform/logger"
)

// Location is the subset of the geolocation response the greeting needs.
type Location struct {
	City string
	Lat  float64
	Lon  float64
}

// Client calls the geolocation and weather APIs.
type Client struct {
	httpClient    *http.Client
	geoBaseURL    string
	weatherURL    string
	weatherAPIKey string
	log           *logger.Logger
}

// New creates a new upstream client. geoBaseURL is suffixed with the raw IP,
// weatherURL receives lat/lon/appid/units query parameters.
func New(geoBaseURL, weatherURL, weatherAPIKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		geoBaseURL:    geoBaseURL,
		weatherURL:    weatherURL,
		weatherAPIKey: weatherAPIKey,
		log:           log,
	}
}

type geoResponse struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Locate resolves a client IP to a city and coordinates.
func (c *Client) Locate(ctx context.Context, ip string) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.geoBaseURL+url.PathEscape(ip), nil)
	if err != nil {
		return Location{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("geolocation request failed", "error", err, "ip", ip)
		return Location{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("geolocation upstream error", "status", resp.StatusCode, "ip", ip)
		return Location{}, fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	var geo geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		c.log.Error("geolocation decode failed", "error", err)
		return Location{}, fmt.Errorf("decode response: %w", err)
	}

	return Location{City: geo.City, Lat: geo.Lat, Lon: geo.Lon}, nil
}

type weatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// Temperature fetches the current temperature in degrees Celsius for the
// given coordinates.
func (c *Client) Temperature(ctx context.Context, lat, lon float64) (float64, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%g", lat))
	params.Set("lon", fmt.Sprintf("%g", lon))
	params.Set("appid", c.weatherAPIKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.weatherURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("weather request failed", "error", err)
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("weather upstream error", "status", resp.StatusCode)
		return 0, fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	var weather weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&weather); err != nil {
		c.log.Error("weather decode failed", "error", err)
		return 0, fmt.Errorf("decode response: %w", err)
	}

	return weather.Main.Temp, nil
}
