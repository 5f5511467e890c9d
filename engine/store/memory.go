// Package store provides in-memory implementations of the engine's store
// contracts, used in tests and development.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/employeecare/selfserve/engine"
)

// =============================================================================
// MEMORY REQUEST STORE - Whole-snapshot semantics
// =============================================================================

type MemoryRequests struct {
	mu       sync.RWMutex
	requests []engine.Request
}

func NewMemoryRequests() *MemoryRequests {
	return &MemoryRequests{}
}

func (m *MemoryRequests) LoadAll(_ context.Context) ([]engine.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]engine.Request, len(m.requests))
	copy(out, m.requests)
	return out, nil
}

func (m *MemoryRequests) SaveAll(_ context.Context, requests []engine.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = make([]engine.Request, len(requests))
	copy(m.requests, requests)
	return nil
}

// =============================================================================
// MEMORY PROFILE STORE
// =============================================================================

type MemoryProfiles struct {
	mu       sync.RWMutex
	profiles []engine.EmployeeProfile
}

func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{}
}

// FindByUsername matches case-insensitively, as the registry does.
func (m *MemoryProfiles) FindByUsername(_ context.Context, username string) (*engine.EmployeeProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.profiles {
		if strings.EqualFold(p.Username, username) {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryProfiles) Put(_ context.Context, profile engine.EmployeeProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.profiles {
		if strings.EqualFold(p.Username, profile.Username) {
			m.profiles[i] = profile
			return nil
		}
	}
	m.profiles = append(m.profiles, profile)
	return nil
}

func (m *MemoryProfiles) ListAll(_ context.Context) ([]engine.EmployeeProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]engine.EmployeeProfile, len(m.profiles))
	copy(out, m.profiles)
	return out, nil
}

// Verify compares username and password by exact match.
func (m *MemoryProfiles) Verify(_ context.Context, username, password string) (*engine.EmployeeProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.profiles {
		if p.Username == username && p.Password == password {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// Compile-time interface checks.
var (
	_ engine.RequestStore = (*MemoryRequests)(nil)
	_ engine.ProfileStore = (*MemoryProfiles)(nil)
)
