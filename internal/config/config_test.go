package config_test

import (
	"testing"

	"github.com/jraydirect/wagerloop-sub005/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	if cfg.Env != "local" {
		t.Errorf("env = %s, want local", cfg.Env)
	}
	if cfg.Server.Port != "8085" {
		t.Errorf("port = %s, want 8085", cfg.Server.Port)
	}
	if cfg.Engine.ClassifierConfidenceFloor != 0.4 {
		t.Errorf("classifier floor = %f, want 0.4", cfg.Engine.ClassifierConfidenceFloor)
	}
	if cfg.Engine.ClusterRadius != 100.0 {
		t.Errorf("cluster radius = %f, want 100", cfg.Engine.ClusterRadius)
	}
	if cfg.Engine.ReviewThreshold != 0.6 {
		t.Errorf("review threshold = %f, want 0.6", cfg.Engine.ReviewThreshold)
	}
	if cfg.Kafka.TopicSlipFinalized != "slips.finalized" {
		t.Errorf("topic = %s", cfg.Kafka.TopicSlipFinalized)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("CLUSTER_RADIUS_PX", "150.5")
	t.Setenv("REVIEW_THRESHOLD", "not-a-number")

	cfg := config.Load()

	if cfg.Env != "prod" {
		t.Errorf("env = %s, want prod", cfg.Env)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("port = %s, want 9999", cfg.Server.Port)
	}
	if cfg.Engine.ClusterRadius != 150.5 {
		t.Errorf("cluster radius = %f, want 150.5", cfg.Engine.ClusterRadius)
	}
	// Unparseable values fall back to the default
	if cfg.Engine.ReviewThreshold != 0.6 {
		t.Errorf("review threshold = %f, want default 0.6", cfg.Engine.ReviewThreshold)
	}
}
