package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/workstation-backend/internal/domain/contracts"
)

// RecordingPublisher captures published events in order.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []contracts.Event
}

var _ contracts.Publisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Publish(_ context.Context, e contracts.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, e)
}

func (p *RecordingPublisher) Kinds() []contracts.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]contracts.EventKind, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.Kind())
	}
	return out
}

// StaticRoles is a map-backed contracts.RoleDirectory. Unknown users are RoleOther.
type StaticRoles map[uuid.UUID]contracts.Role

var _ contracts.RoleDirectory = StaticRoles(nil)

func (r StaticRoles) RoleOf(_ context.Context, userID uuid.UUID) (contracts.Role, error) {
	if role, ok := r[userID]; ok {
		return role, nil
	}
	return contracts.RoleOther, nil
}
