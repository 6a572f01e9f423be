package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Enabled || cfg.ListenAddr != "127.0.0.1:6060" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestStartDebugServerDisabled(t *testing.T) {
	if err := StartDebugServer(Config{Enabled: false}); err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}
}

// These exercise the recording helpers purely for panic-freedom: the
// underlying Prometheus collectors are package-level singletons, so the
// only thing worth asserting here is that calling them repeatedly with
// varied labels doesn't blow up.
func TestRecordHelpersDoNotPanic(t *testing.T) {
	RecordTurn(5 * time.Millisecond)
	RecordRunnerTimeout()
	RecordRunnerError("Timeout")
	RecordRunnerError("InternalError")
	SetActiveMatches(3)
	SetActiveMatches(0)
	RecordRequest("GET", "/health", 200, time.Millisecond)
	SetWSConnections(2)
}

func TestRecordTurnObservesTheHistogram(t *testing.T) {
	before := testutil.CollectAndCount(turnDuration)
	RecordTurn(10 * time.Millisecond)
	after := testutil.CollectAndCount(turnDuration)
	if after != before+1 {
		t.Fatalf("expected one new histogram observation, before=%d after=%d", before, after)
	}
}

func TestRecordRunnerErrorIncrementsItsLabel(t *testing.T) {
	before := testutil.ToFloat64(runnerErrors.WithLabelValues("DataError"))
	RecordRunnerError("DataError")
	after := testutil.ToFloat64(runnerErrors.WithLabelValues("DataError"))
	if after != before+1 {
		t.Fatalf("expected the DataError counter to increment by one, before=%v after=%v", before, after)
	}
}

func TestRecordRunnerTimeoutIncrementsTheCounter(t *testing.T) {
	before := testutil.ToFloat64(runnerTimeouts)
	RecordRunnerTimeout()
	after := testutil.ToFloat64(runnerTimeouts)
	if after != before+1 {
		t.Fatalf("expected the timeout counter to increment by one, before=%v after=%v", before, after)
	}
}
