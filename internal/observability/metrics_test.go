package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestEnabledReadsEnv(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "")
	if !Enabled() {
		t.Fatal("metrics must default to enabled")
	}
	t.Setenv("METRICS_ENABLED", "false")
	if Enabled() {
		t.Fatal("METRICS_ENABLED=false must disable metrics")
	}
	t.Setenv("METRICS_ENABLED", "on")
	if !Enabled() {
		t.Fatal("METRICS_ENABLED=on must enable metrics")
	}
}

func TestInitHonorsDisableFlag(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")
	if m := Init(prometheus.NewRegistry()); m != nil {
		t.Fatal("Init must not build collectors when metrics are disabled")
	}
	if Current() != nil {
		t.Fatal("Current must stay nil when metrics are disabled")
	}

	// Every observer has to be a safe no-op on the nil instance.
	Current().ObserveOutcome("enriched")
	Current().ObserveStage("build_base", time.Millisecond)
	Current().ObserveStageError("build_base", "empty_base")
	Current().ObserveLLMRequest("test-model", "ok", time.Millisecond, 10, 20)
	Current().ObserveCache(true)
}
