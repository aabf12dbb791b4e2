package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	ok := TotalOperations.WithLabelValues("compress", "test-algo", "ok")
	failed := TotalOperations.WithLabelValues("compress", "test-algo", "error")
	before, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	Observe("compress", "test-algo", time.Now(), 10, 4, nil)
	Observe("compress", "test-algo", time.Now(), 10, 0, errors.New("boom"))

	if got := testutil.ToFloat64(ok) - before; got != 1 {
		t.Errorf("ok counter moved by %v, want 1", got)
	}
	if got := testutil.ToFloat64(failed) - beforeFailed; got != 1 {
		t.Errorf("error counter moved by %v, want 1", got)
	}
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)
	if _, err := reg.Gather(); err != nil {
		t.Fatal(err)
	}
}
