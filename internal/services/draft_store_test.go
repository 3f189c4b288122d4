package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	appErrors "github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/productform"
	repository "github.com/chucuoi/flower-storefront/internal/repositories"
	service "github.com/chucuoi/flower-storefront/internal/services"
	svcMocks "github.com/chucuoi/flower-storefront/internal/services/mocks"
	"github.com/chucuoi/flower-storefront/internal/tasks"
	cldMocks "github.com/chucuoi/flower-storefront/pkg/cloudinary/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryDrafts is a DraftRepository with the versioned save of the Redis
// store. afterGet, when set, runs once after the next GetDraft returns so
// a test can slot another request between a load and its save.
type memoryDrafts struct {
	mu       sync.Mutex
	drafts   map[uuid.UUID]productform.Snapshot
	expiry   map[uuid.UUID]time.Time
	afterGet func()
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{
		drafts: make(map[uuid.UUID]productform.Snapshot),
		expiry: make(map[uuid.UUID]time.Time),
	}
}

func (m *memoryDrafts) SaveDraft(ctx context.Context, snap *productform.Snapshot, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.drafts[snap.ID]
	if exists != (snap.Version > 0) || stored.Version != snap.Version {
		return repository.ErrConflict
	}

	next := *snap
	next.Version++
	m.drafts[snap.ID] = next
	m.expiry[snap.ID] = expiresAt
	snap.Version = next.Version

	return nil
}

func (m *memoryDrafts) GetDraft(ctx context.Context, id uuid.UUID) (*productform.Snapshot, error) {
	m.mu.Lock()
	snap, ok := m.drafts[id]
	hook := m.afterGet
	m.afterGet = nil
	m.mu.Unlock()

	if hook != nil {
		defer hook()
	}

	if !ok {
		return nil, repository.ErrNotFound
	}

	return &snap, nil
}

func (m *memoryDrafts) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.drafts, id)
	delete(m.expiry, id)

	return nil
}

func (m *memoryDrafts) ExpiredDrafts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := []uuid.UUID{}
	for id, at := range m.expiry {
		if !at.After(now) && len(ids) < limit {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func (m *memoryDrafts) has(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.drafts[id]

	return ok
}

func setupInterleavedDraftTest(t *testing.T) (service.DraftService, *memoryDrafts, *draftDeps, *productform.Snapshot) {
	store := newMemoryDrafts()
	deps := &draftDeps{
		categories: svcMocks.NewCategoryService(t),
		products:   svcMocks.NewProductService(t),
		media:      cldMocks.NewClient(t),
		runner:     tasks.NewRunner(time.Second),
	}

	draftService := service.NewDraftService(store, deps.categories, deps.products, deps.media, deps.runner, draftTTL)

	stored := readyDraft(roseImage("a"), roseImage("b"), roseImage("c"))
	require.NoError(t, store.SaveDraft(context.Background(), stored, time.Now().Add(draftTTL)))

	return draftService, store, deps, stored
}

func TestDraftInterleaving(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure - Stale edit after submit cannot bring the draft back", func(t *testing.T) {
		// Arrange
		draftService, store, deps, stored := setupInterleavedDraftTest(t)
		created := &models.Product{ID: uuid.New(), Name: stored.Fields.Name}
		deps.products.On("CreateProduct", mock.Anything, mock.Anything).Return(created, nil).Once()

		var (
			product   *models.Product
			submitErr error
		)
		store.afterGet = func() {
			product, submitErr = draftService.SubmitDraft(ctx, stored.ID)
		}
		name := "Red Rose Bouquet Deluxe"

		// Act
		_, patchErr := draftService.PatchDraft(ctx, stored.ID, productform.Patch{Name: &name})
		deleted, sweepErr := draftService.SweepExpired(ctx, time.Now().Add(draftTTL+time.Hour))

		// Assert
		require.NoError(t, submitErr)
		assert.Equal(t, created, product)
		assertAppError(t, patchErr, appErrors.ErrCodeConflict, "Draft was changed by another request")
		assert.False(t, store.has(stored.ID))
		require.NoError(t, sweepErr)
		assert.Zero(t, deleted)
		deps.media.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Abandon during submit keeps the images", func(t *testing.T) {
		// Arrange
		draftService, store, deps, stored := setupInterleavedDraftTest(t)
		created := &models.Product{ID: uuid.New()}

		var abandonErr error
		deps.products.On("CreateProduct", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) {
				_, abandonErr = draftService.AbandonDraft(ctx, stored.ID, true)
			}).
			Return(created, nil).Once()

		// Act
		product, err := draftService.SubmitDraft(ctx, stored.ID)
		require.NoError(t, deps.runner.Shutdown(ctx))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, created, product)
		assert.ErrorIs(t, abandonErr, productform.ErrSubmitInProgress)
		assert.False(t, store.has(stored.ID))
		deps.media.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Submit that loaded before an abandon is refused", func(t *testing.T) {
		// Arrange
		draftService, store, deps, stored := setupInterleavedDraftTest(t)
		deps.media.On("DeleteImage", mock.Anything, mock.AnythingOfType("string")).Return(nil).Times(3)

		var abandoned int
		store.afterGet = func() {
			abandoned, _ = draftService.AbandonDraft(ctx, stored.ID, false)
		}

		// Act
		product, err := draftService.SubmitDraft(ctx, stored.ID)

		// Assert
		assert.Nil(t, product)
		assertAppError(t, err, appErrors.ErrCodeConflict, "Draft was changed by another request")
		assert.Equal(t, 3, abandoned)
		assert.False(t, store.has(stored.ID))
		deps.products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})
}
