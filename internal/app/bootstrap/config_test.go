package bootstrap

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "studybuddy",
		ClubLifetime:      40 * time.Minute,
		InactiveThreshold: 3 * time.Minute,
		ExpiryInterval:    30 * time.Second,
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidateConfig_Rejections(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*AppConfig)
		want string
	}{
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "not-a-uri" }, "MongoDB URI"},
		{"zero lifetime", func(c *AppConfig) { c.ClubLifetime = 0 }, "club_lifetime"},
		{"zero threshold", func(c *AppConfig) { c.InactiveThreshold = 0 }, "inactive_threshold"},
		{"zero interval", func(c *AppConfig) { c.ExpiryInterval = 0 }, "expiry_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mut(&cfg)
			err := ValidateConfig(nil, cfg, zap.NewNop())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
