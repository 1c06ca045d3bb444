package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Matching.DefaultRadiusKm != 5 {
		t.Errorf("expected default radius 5, got %f", cfg.Matching.DefaultRadiusKm)
	}
	if cfg.Matching.ExactRadius {
		t.Error("expected degree-offset matching by default")
	}
	if !cfg.Booking.StrictTransitions || !cfg.Booking.RequireAvailableVehicle {
		t.Errorf("expected strict booking by default, got %+v", cfg.Booking)
	}
	if cfg.RabbitMQ.URL != "" {
		t.Errorf("expected events disabled by default, got %q", cfg.RabbitMQ.URL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MATCHING_DEFAULT_RADIUS_KM", "2.5")
	t.Setenv("MATCHING_EXACT_RADIUS", "true")
	t.Setenv("MATCHING_CACHE_TTL", "2s")
	t.Setenv("BOOKING_STRICT_TRANSITIONS", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_TTL", "15m")

	cfg := Load()

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Matching.DefaultRadiusKm != 2.5 {
		t.Errorf("expected radius 2.5, got %f", cfg.Matching.DefaultRadiusKm)
	}
	if !cfg.Matching.ExactRadius {
		t.Error("expected exact matching")
	}
	if cfg.Matching.CacheTTL != 2*time.Second {
		t.Errorf("expected 2s cache ttl, got %s", cfg.Matching.CacheTTL)
	}
	if cfg.Booking.StrictTransitions {
		t.Error("expected compat transitions")
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.Redis.DB)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Errorf("expected 15m token ttl, got %s", cfg.Auth.TokenTTL)
	}
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("MATCHING_EXACT_RADIUS", "maybe")
	t.Setenv("MATCHING_CACHE_TTL", "soon")

	cfg := Load()

	if cfg.Redis.DB != 0 {
		t.Errorf("expected fallback redis db 0, got %d", cfg.Redis.DB)
	}
	if cfg.Matching.ExactRadius {
		t.Error("expected fallback to false")
	}
	if cfg.Matching.CacheTTL != 5*time.Second {
		t.Errorf("expected fallback 5s, got %s", cfg.Matching.CacheTTL)
	}
}
