package biz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"DonorLane/internal/data"
	pkglog "DonorLane/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuditLogRepo is a mock implementation of AuditLogRepo for testing.
type MockAuditLogRepo struct {
	mock.Mock
}

func (m *MockAuditLogRepo) List(ctx context.Context, filter *data.AuditLogFilter, offset, limit int) ([]*data.AuditLog, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	return args.Get(0).([]*data.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditLogRepo) Export(ctx context.Context, filter *data.AuditLogFilter) ([]*data.AuditLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*data.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepo) Get(ctx context.Context, id int64) (*data.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*data.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// recordingSink captures enqueued entries in memory.
type recordingSink struct {
	mu      sync.Mutex
	entries []*data.AuditLog
	reject  bool
}

func (s *recordingSink) Enqueue(_ context.Context, entry *data.AuditLog) bool {
	if s.reject {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return true
}

func (s *recordingSink) all() []*data.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*data.AuditLog(nil), s.entries...)
}

func newTestAuditTrail(repo AuditLogRepo) (*AuditTrailUsecase, *recordingSink) {
	sink := &recordingSink{}
	return NewAuditTrailUsecase(repo, sink, NewDefaultAuditCodec(), log.DefaultLogger), sink
}

func strPtr(s string) *string { return &s }

func TestAuditTrail_ListPaging(t *testing.T) {
	ctx := context.Background()

	t.Run("page two of updates", func(t *testing.T) {
		repo := new(MockAuditLogRepo)
		uc, _ := newTestAuditTrail(repo)

		filter := &data.AuditLogFilter{Action: data.AuditActionUpdate}
		repo.On("List", ctx, filter, 10, 10).Return([]*data.AuditLog{}, int64(15), nil)

		page, err := uc.List(ctx, AuditQuery{Page: 2, Limit: 10, Filter: *filter})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 10, page.Limit)
		assert.Equal(t, int64(15), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		repo.AssertExpectations(t)
	})

	t.Run("empty trail", func(t *testing.T) {
		repo := new(MockAuditLogRepo)
		uc, _ := newTestAuditTrail(repo)
		repo.On("List", ctx, &data.AuditLogFilter{}, 0, DefaultAuditPageSize).Return([]*data.AuditLog{}, int64(0), nil)

		page, err := uc.List(ctx, AuditQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
		assert.Equal(t, 1, page.TotalPages)
		assert.Empty(t, page.Items)
	})

	t.Run("out of range paging falls back", func(t *testing.T) {
		tests := []struct {
			page, limit         int
			wantPage, wantLimit int
		}{
			{0, 0, 1, 25},
			{-3, 500, 1, 25},
			{3, 201, 3, 25},
			{1, 200, 1, 200},
			{1, 1, 1, 1},
		}
		for _, tt := range tests {
			repo := new(MockAuditLogRepo)
			uc, _ := newTestAuditTrail(repo)
			repo.On("List", ctx, mock.Anything, (tt.wantPage-1)*tt.wantLimit, tt.wantLimit).
				Return([]*data.AuditLog{}, int64(0), nil)

			page, err := uc.List(ctx, AuditQuery{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantLimit, page.Limit)
			repo.AssertExpectations(t)
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockAuditLogRepo)
		uc, _ := newTestAuditTrail(repo)
		repo.On("List", ctx, mock.Anything, 0, 25).Return([]*data.AuditLog(nil), int64(0), errors.New("boom"))

		_, err := uc.List(ctx, AuditQuery{})
		assert.Error(t, err)
	})
}

func TestAuditTrail_DecodesPayloads(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAuditLogRepo)
	uc, _ := newTestAuditTrail(repo)

	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := []*data.AuditLog{
		{ID: 2, Action: data.AuditActionUpdate, EntityType: EntityEvent, CreatedAt: created, Changes: strPtr(`{"after":{"name":"Gala"}}`)},
		{ID: 1, Action: data.AuditActionCreate, EntityType: EntityEvent, CreatedAt: created, Changes: strPtr(`{broken`)},
	}
	repo.On("Export", ctx, &data.AuditLogFilter{EntityType: EntityEvent}).Return(rows, nil)

	items, err := uc.Export(ctx, data.AuditLogFilter{EntityType: EntityEvent})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Changes)
	assert.Equal(t, "Gala", items[0].Changes.After["name"])
	assert.Nil(t, items[1].Changes, "malformed payload decodes to nil")
	assert.Equal(t, created, items[1].CreatedAt)
}

func TestAuditTrail_FindOne(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAuditLogRepo)
	uc, _ := newTestAuditTrail(repo)

	repo.On("Get", ctx, int64(7)).Return(&data.AuditLog{ID: 7, Action: data.AuditActionDelete, EntityType: EntityDonor}, nil)
	repo.On("Get", ctx, int64(8)).Return(nil, fmt.Errorf("audit log not found: id=8: %w", data.ErrNotFound))

	entry, err := uc.FindOne(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, data.AuditActionDelete, entry.Action)
	assert.Nil(t, entry.Changes)

	_, err = uc.FindOne(ctx, 8)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuditTrail_LogUsesRequestContext(t *testing.T) {
	uc, sink := newTestAuditTrail(new(MockAuditLogRepo))

	actor := int64(42)
	ctx := pkglog.WithRequestContext(context.Background(), "req-1", &actor, "203.0.113.9")

	uc.Log(ctx, AuditRecord{
		Action:     data.AuditActionUpdate,
		EntityType: EntityDonor,
		EntityID:   idPtr(5),
		Before:     map[string]interface{}{"city": "Toronto"},
		After:      map[string]interface{}{"city": "Ottawa"},
		Metadata:   actorMetadata(ctx, nil),
	})

	entries := sink.all()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, data.AuditActionUpdate, entry.Action)
	assert.Equal(t, int64(5), *entry.EntityID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, int64(42), *entry.UserID)
	require.NotNil(t, entry.IPAddress)
	assert.Equal(t, "203.0.113.9", *entry.IPAddress)
	require.NotNil(t, entry.Changes)
	assert.JSONEq(t, `{
		"before": {"city": "Toronto"},
		"after": {"city": "Ottawa"},
		"diff": {"city": {"before": "Toronto", "after": "Ottawa"}},
		"metadata": {"actor": {"id": 42}}
	}`, *entry.Changes)
}

func TestAuditTrail_LogWithoutRequestContext(t *testing.T) {
	uc, sink := newTestAuditTrail(new(MockAuditLogRepo))

	uc.Log(context.Background(), AuditRecord{Action: data.AuditActionDelete, EntityType: EntityEvent})

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].UserID)
	assert.Nil(t, entries[0].IPAddress)
	assert.Nil(t, entries[0].Changes)

	// encoding failures still produce an entry, without payload
	uc.Log(context.Background(), AuditRecord{
		Action:     data.AuditActionCreate,
		EntityType: EntityEvent,
		After:      map[string]interface{}{"bad": func() {}},
	})
	entries = sink.all()
	require.Len(t, entries, 2)
	assert.Nil(t, entries[1].Changes)

	sink.reject = true
	assert.NotPanics(t, func() {
		uc.Log(context.Background(), AuditRecord{Action: data.AuditActionCreate, EntityType: EntityEvent})
	})
}
