// Package memory provides a process-local principal directory. It backs the
// "memory" store driver used for demos and tests; contents are lost on exit.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pharmacy/storefront/internal/core/domain"
)

// Directory is a concurrency-safe map of principals keyed by exact email.
type Directory struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Principal
}

func NewDirectory() *Directory {
	return &Directory{byEmail: make(map[string]domain.Principal)}
}

func (d *Directory) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Save stores a copy of p under a fresh UUID.
func (d *Directory) Save(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byEmail[p.Email]; ok {
		return nil, domain.ErrEmailAlreadyInUse
	}

	stored := *p
	stored.ID = uuid.NewString()
	d.byEmail[p.Email] = stored
	return &stored, nil
}

// Count returns the number of stored principals.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byEmail)
}
