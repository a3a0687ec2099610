package engine

import (
	"math"
	"sync"
	"time"

	"github.com/go-rod/rod"
)

// Tab retirement thresholds.
const (
	retireErrScore = 3.0
	retireUses     = 50
	retireAge      = 50 * time.Minute
)

type tabHealth struct {
	errScore float64
	uses     int
	created  time.Time
}

// tabTracker scores pooled browser tabs. A success lowers a tab's error
// score by 0.5 (min 0), a failure raises it by 1. A tab is retired once
// its score reaches 3, after 50 uses, or after 50 minutes.
type tabTracker struct {
	mu   sync.Mutex
	tabs map[*rod.Page]*tabHealth
	now  func() time.Time
}

func newTabTracker() *tabTracker {
	return &tabTracker{
		tabs: make(map[*rod.Page]*tabHealth),
		now:  time.Now,
	}
}

// record scores one use of p and reports whether p should be retired.
// A retired tab is forgotten.
func (t *tabTracker) record(p *rod.Page, ok bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, exists := t.tabs[p]
	if !exists {
		h = &tabHealth{created: t.now()}
		t.tabs[p] = h
	}
	h.uses++
	if ok {
		h.errScore = math.Max(0, h.errScore-0.5)
	} else {
		h.errScore++
	}

	retire := h.errScore >= retireErrScore ||
		h.uses >= retireUses ||
		t.now().Sub(h.created) >= retireAge
	if retire {
		delete(t.tabs, p)
	}
	return retire
}

func (t *tabTracker) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tabs)
}
