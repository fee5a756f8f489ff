// Package roles resolves counterparty roles from a YAML directory file.
//
//	version: 1
//	users:
//	  - id: 7d0c...
//	    role: lessor
package roles

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/workstation-backend/internal/domain/contracts"
)

type yamlDirectory struct {
	Version int        `yaml:"version"`
	Users   []yamlUser `yaml:"users"`
}

type yamlUser struct {
	ID   string `yaml:"id"`
	Role string `yaml:"role"`
}

// Directory is a read-only contracts.RoleDirectory. Users it does not know
// hold RoleOther.
type Directory struct {
	mu    sync.RWMutex
	roles map[uuid.UUID]contracts.Role
}

var _ contracts.RoleDirectory = (*Directory)(nil)

func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("read role directory: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Directory, error) {
	var doc yamlDirectory
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse role directory: %w", err)
	}
	if doc.Version != 0 && doc.Version != 1 {
		return nil, fmt.Errorf("unsupported role directory version %d", doc.Version)
	}
	d := &Directory{roles: make(map[uuid.UUID]contracts.Role, len(doc.Users))}
	for i, u := range doc.Users {
		id, err := uuid.Parse(strings.TrimSpace(u.ID))
		if err != nil {
			return nil, fmt.Errorf("users[%d].id: %w", i, err)
		}
		role := contracts.ParseRole(u.Role)
		if role == contracts.RoleOther && !strings.EqualFold(strings.TrimSpace(u.Role), string(contracts.RoleOther)) {
			return nil, fmt.Errorf("users[%d].role: unknown role %q", i, u.Role)
		}
		if _, dup := d.roles[id]; dup {
			return nil, fmt.Errorf("users[%d].id: duplicate user %s", i, id)
		}
		d.roles[id] = role
	}
	return d, nil
}

func (d *Directory) RoleOf(_ context.Context, userID uuid.UUID) (contracts.Role, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if role, ok := d.roles[userID]; ok {
		return role, nil
	}
	return contracts.RoleOther, nil
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.roles)
}
