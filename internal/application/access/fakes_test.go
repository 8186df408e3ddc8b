package access_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/event"
)

// ── repositorios en memoria ───────────────────────────────────────────────────

type memProfiles struct {
	byID map[string]*entity.Profile
}

func newMemProfiles() *memProfiles { return &memProfiles{byID: map[string]*entity.Profile{}} }

func (m *memProfiles) Create(_ context.Context, p *entity.Profile) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	return m.byID[id], nil
}

func (m *memProfiles) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
	for _, p := range m.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

type memPermissions struct {
	byUser map[string][]string
	reads  int
}

func newMemPermissions() *memPermissions { return &memPermissions{byUser: map[string][]string{}} }

func (m *memPermissions) ListByUser(_ context.Context, userID string) ([]string, error) {
	m.reads++
	return m.byUser[userID], nil
}

func (m *memPermissions) Grant(_ context.Context, userID string, ids ...string) error {
	m.byUser[userID] = append(m.byUser[userID], ids...)
	return nil
}

// memSubscriptions imita los procedimientos: Expire solo cambia filas active vencidas.
type memSubscriptions struct {
	now     func() time.Time
	rows    map[string]*entity.Subscription
	expires int
	gets    int
}

func newMemSubscriptions(now func() time.Time) *memSubscriptions {
	return &memSubscriptions{now: now, rows: map[string]*entity.Subscription{}}
}

func (m *memSubscriptions) Get(_ context.Context, userID string) (*entity.Subscription, error) {
	m.gets++
	row, ok := m.rows[userID]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (m *memSubscriptions) Expire(_ context.Context, userID string) error {
	m.expires++
	if row, ok := m.rows[userID]; ok && row.Status == entity.SubscriptionActive && !m.now().Before(row.ExpiresAt) {
		row.Status = entity.SubscriptionExpired
	}
	return nil
}

func (m *memSubscriptions) CreateOrUpdate(_ context.Context, userID, plan, orderID string, days int) (*entity.Subscription, error) {
	now := m.now()
	row, ok := m.rows[userID]
	base := now
	if ok && row.ExpiresAt.After(now) {
		base = row.ExpiresAt
	}
	if !ok || !row.IsActiveAt(now) {
		row = &entity.Subscription{ID: "sub-" + userID, UserID: userID, StartedAt: now}
		m.rows[userID] = row
	}
	row.Plan, row.Status, row.OrderID = plan, entity.SubscriptionActive, orderID
	row.ExpiresAt = base.AddDate(0, 0, days)
	cp := *row
	return &cp, nil
}

func (m *memSubscriptions) ExpireDue(_ context.Context) (int64, error) {
	var n int64
	for _, row := range m.rows {
		if row.Status == entity.SubscriptionActive && !m.now().Before(row.ExpiresAt) {
			row.Status = entity.SubscriptionExpired
			n++
		}
	}
	return n, nil
}

// ── caché y bus ───────────────────────────────────────────────────────────────

type memCache struct {
	perms map[string][]string
	subs  map[string]*entity.Subscription
}

func newMemCache() *memCache {
	return &memCache{perms: map[string][]string{}, subs: map[string]*entity.Subscription{}}
}

func (c *memCache) Permissions(_ context.Context, userID string) ([]string, bool) {
	p, ok := c.perms[userID]
	return p, ok
}

func (c *memCache) StorePermissions(_ context.Context, userID string, p []string) {
	c.perms[userID] = p
}

func (c *memCache) Subscription(_ context.Context, userID string) (*entity.Subscription, bool) {
	s, ok := c.subs[userID]
	return s, ok
}

func (c *memCache) StoreSubscription(_ context.Context, userID string, s *entity.Subscription) {
	c.subs[userID] = s
}

func (c *memCache) Invalidate(_ context.Context, userID string) {
	delete(c.perms, userID)
	delete(c.subs, userID)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

// clock reloj manipulable.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }
