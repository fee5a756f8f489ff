package testutil

import (
	"sync"

	"github.com/yungbote/workstation-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/workstation-backend/internal/domain/aggregates"
)

// HooksRecorder keeps every write outcome reported to it.
type HooksRecorder struct {
	mu       sync.Mutex
	outcomes []aggregates.WriteOutcome
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveWrite(o aggregates.WriteOutcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outcomes = append(h.outcomes, o)
}

// Outcomes returns a copy of the recorded outcomes in arrival order.
func (h *HooksRecorder) Outcomes() []aggregates.WriteOutcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]aggregates.WriteOutcome(nil), h.outcomes...)
}

// Count reports how many writes ended with code. An empty code counts
// successes.
func (h *HooksRecorder) Count(code domainagg.ErrorCode) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, o := range h.outcomes {
		if o.Code == code {
			n++
		}
	}
	return n
}

// Last returns the most recent outcome, if any.
func (h *HooksRecorder) Last() (aggregates.WriteOutcome, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.outcomes) == 0 {
		return aggregates.WriteOutcome{}, false
	}
	return h.outcomes[len(h.outcomes)-1], true
}
