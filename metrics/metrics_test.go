package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveDeviceOp(t *testing.T) {
	before := testutil.ToFloat64(deviceOps.WithLabelValues("router", "provision_fiber", "ok"))

	ObserveDeviceOp("router", "provision_fiber", "ok", 250*time.Millisecond)
	ObserveDeviceOp("router", "provision_fiber", "ok", 100*time.Millisecond)
	ObserveDeviceOp("vsol", "authorize_onu", "error", time.Second)

	if got := testutil.ToFloat64(deviceOps.WithLabelValues("router", "provision_fiber", "ok")); got != before+2 {
		t.Errorf("counter = %v, want %v", got, before+2)
	}
	if got := testutil.ToFloat64(deviceOps.WithLabelValues("vsol", "authorize_onu", "error")); got < 1 {
		t.Errorf("error counter = %v, want at least 1", got)
	}
	if got := testutil.CollectAndCount(deviceOpSeconds); got < 2 {
		t.Errorf("histogram series = %d, want at least 2", got)
	}
}
