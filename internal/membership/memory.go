package membership

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/models"
)

type memberKey struct {
	tenant uuid.UUID
	user   uuid.UUID
}

// MemoryStore is a process-local Store used when no database is configured.
type MemoryStore struct {
	mu      sync.Mutex
	members map[memberKey]*models.Membership
	flags   map[uuid.UUID]models.AdminUserFlag

	// CountErr, when set, is returned by CountActiveAdmins.
	CountErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members: make(map[memberKey]*models.Membership),
		flags:   make(map[uuid.UUID]models.AdminUserFlag),
	}
}

// WithTenantLock holds the store mutex for the duration of fn, which is
// stricter than per-tenant but gives the same guarantee.
func (s *MemoryStore) WithTenantLock(ctx context.Context, tenantID uuid.UUID, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(memTx{s})
}

func (s *MemoryStore) Get(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(tenantID, userID)
}

func (s *MemoryStore) ListByStatus(ctx context.Context, tenantID uuid.UUID, status models.Status) ([]models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Membership
	for k, m := range s.members {
		if k.tenant == tenantID && m.Status == status {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, tenantID, userID uuid.UUID, role models.Role, status models.Status) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberKey{tenantID, userID}]
	if !ok {
		return nil, ErrNotFound
	}
	m.Role = role
	m.Status = status
	m.UpdatedAt = time.Now()
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) UpsertAdminFlag(ctx context.Context, flag models.AdminUserFlag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[flag.UserID] = flag
	return nil
}

func (s *MemoryStore) AdminFlagActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flags[userID]
	return ok && f.IsActive, nil
}

// Count returns the number of memberships stored for the tenant.
func (s *MemoryStore) Count(tenantID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.members {
		if k.tenant == tenantID {
			n++
		}
	}
	return n
}

func (s *MemoryStore) get(tenantID, userID uuid.UUID) (*models.Membership, error) {
	m, ok := s.members[memberKey{tenantID, userID}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

type memTx struct {
	s *MemoryStore
}

func (t memTx) Get(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error) {
	return t.s.get(tenantID, userID)
}

func (t memTx) CountActiveAdmins(ctx context.Context, tenantID uuid.UUID) (int, error) {
	if t.s.CountErr != nil {
		return 0, t.s.CountErr
	}
	n := 0
	for k, m := range t.s.members {
		if k.tenant == tenantID && m.Role == models.RoleAdmin && m.Status == models.StatusActive {
			n++
		}
	}
	return n, nil
}

func (t memTx) Insert(ctx context.Context, m *models.Membership) (*models.Membership, bool, error) {
	key := memberKey{m.TenantID, m.UserID}
	if existing, ok := t.s.members[key]; ok {
		cp := *existing
		return &cp, false, nil
	}

	now := time.Now()
	stored := *m
	stored.ID = uuid.New()
	stored.SMSNotificationsEnabled = true
	stored.CreatedAt = now
	stored.UpdatedAt = now
	t.s.members[key] = &stored

	cp := stored
	return &cp, true, nil
}
