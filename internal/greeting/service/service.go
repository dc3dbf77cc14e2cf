// Package service implements the greeting lookup with upstream calls and a
// Redis cache keyed by client IP.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"orghub_backend/internal/greeting/client"
	"orghub_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "hello:"

// Greeting is the resolved greeting for a visitor.
type Greeting struct {
	ClientIP string
	City     string
	Message  string
}

// lookup is the cacheable part of a greeting: one geolocation plus one
// weather call per client IP.
type lookup struct {
	City        string   `json:"city"`
	Temperature *float64 `json:"temperature"`
}

// Service resolves greetings. The cache client may be nil, in which case
// every request goes to the upstreams.
type Service struct {
	client *client.Client
	cache  *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New creates a new greeting service.
func New(c *client.Client, cache *redis.Client, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{client: c, cache: cache, ttl: ttl, log: log}
}

// Greet builds the greeting for the given client IP and visitor name. Upstream
// failures degrade the result (city "Unknown", temperature "N/A") instead of
// failing the request.
func (s *Service) Greet(ctx context.Context, clientIP, visitorName string) Greeting {
	l := s.resolve(ctx, clientIP)

	temp := "N/A"
	if l.Temperature != nil {
		temp = strconv.FormatFloat(*l.Temperature, 'f', -1, 64)
	}

	return Greeting{
		ClientIP: clientIP,
		City:     l.City,
		Message:  fmt.Sprintf("Hello, %s!, the temperature is %s degrees Celcius in %s", visitorName, temp, l.City),
	}
}

func (s *Service) resolve(ctx context.Context, clientIP string) lookup {
	if cached, ok := s.fromCache(ctx, clientIP); ok {
		return cached
	}

	loc, err := s.client.Locate(ctx, clientIP)
	if err != nil {
		s.log.Warn("geolocation lookup degraded", "ip", clientIP, "error", err)
		return lookup{City: "Unknown"}
	}

	l := lookup{City: loc.City}
	if l.City == "" {
		l.City = "Unknown"
	}

	if loc.Lat != 0 || loc.Lon != 0 {
		if temp, err := s.client.Temperature(ctx, loc.Lat, loc.Lon); err != nil {
			s.log.Warn("weather lookup degraded", "ip", clientIP, "error", err)
		} else {
			l.Temperature = &temp
		}
	}

	s.toCache(ctx, clientIP, l)
	return l
}

func (s *Service) fromCache(ctx context.Context, clientIP string) (lookup, bool) {
	if s.cache == nil {
		return lookup{}, false
	}

	raw, err := s.cache.Get(ctx, cacheKeyPrefix+clientIP).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("greeting cache read failed", "error", err)
		}
		return lookup{}, false
	}

	var l lookup
	if err := json.Unmarshal(raw, &l); err != nil {
		s.log.Warn("greeting cache entry corrupt", "error", err)
		return lookup{}, false
	}
	return l, true
}

func (s *Service) toCache(ctx context.Context, clientIP string, l lookup) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(l)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+clientIP, raw, s.ttl).Err(); err != nil {
		s.log.Warn("greeting cache write failed", "error", err)
	}
}
