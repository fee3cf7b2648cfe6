package resilience

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[string]
	var counter atomic.Int32
	var shared atomic.Int32

	const workers = 20
	start := make(chan struct{})
	var wg conc.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Go(func() {
			<-start
			v, err, dup := g.Do("team-1:2026", func() (string, error) {
				counter.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil || v != "ok" {
				t.Errorf("singleflight call: v=%q err=%v", v, err)
			}
			if dup {
				shared.Add(1)
			}
		})
	}

	close(start)
	wg.Wait()

	if got := counter.Load(); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if got := shared.Load(); got != workers-1 {
		t.Fatalf("expected %d shared results, got %d", workers-1, got)
	}
}
