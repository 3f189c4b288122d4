package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/metrics"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/productform"
	repository "github.com/chucuoi/flower-storefront/internal/repositories"
	"github.com/chucuoi/flower-storefront/internal/tasks"
	"github.com/google/uuid"
)

const sweepBatchSize = 100

// DraftService keeps admin "new product" forms on the server between
// requests. Saves are versioned: a request that loaded a draft another
// request has since saved or dropped fails with a conflict.
type DraftService interface {
	CreateDraft(ctx context.Context) (*productform.Snapshot, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*productform.Snapshot, error)
	PatchDraft(ctx context.Context, id uuid.UUID, patch productform.Patch) (*productform.Snapshot, error)
	AddImage(ctx context.Context, id uuid.UUID, img models.Image) (*productform.Snapshot, error)
	RemoveImage(ctx context.Context, id uuid.UUID, publicID string) (*productform.Snapshot, error)
	SubmitDraft(ctx context.Context, id uuid.UUID) (*models.Product, error)
	AbandonDraft(ctx context.Context, id uuid.UUID, detached bool) (int, error)
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

type draftService struct {
	drafts     repository.DraftRepository
	categories CategoryService
	products   productform.Submitter
	media      productform.Deleter
	runner     *tasks.Runner
	ttl        time.Duration
	now        func() time.Time
}

func NewDraftService(
	drafts repository.DraftRepository,
	categories CategoryService,
	products productform.Submitter,
	media productform.Deleter,
	runner *tasks.Runner,
	ttl time.Duration,
) DraftService {
	return &draftService{
		drafts:     drafts,
		categories: categories,
		products:   products,
		media:      media,
		runner:     runner,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *draftService) CreateDraft(ctx context.Context) (*productform.Snapshot, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	form := productform.New(categories)

	if err := s.save(ctx, form); err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx).Info("Product draft created", slog.String("draftId", form.ID().String()))

	snap := form.Snapshot()

	return &snap, nil
}

func (s *draftService) GetDraft(ctx context.Context, id uuid.UUID) (*productform.Snapshot, error) {
	form, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := form.Snapshot()

	return &snap, nil
}

func (s *draftService) PatchDraft(ctx context.Context, id uuid.UUID, patch productform.Patch) (*productform.Snapshot, error) {
	return s.mutate(ctx, id, func(form *productform.Form) error {
		return form.Apply(patch)
	})
}

func (s *draftService) AddImage(ctx context.Context, id uuid.UUID, img models.Image) (*productform.Snapshot, error) {
	return s.mutate(ctx, id, func(form *productform.Form) error {
		return form.AddImage(img)
	})
}

// RemoveImage stops tracking the image, saves the draft and then deletes
// the image at the media host. A host failure is reported but the image
// stays untracked.
func (s *draftService) RemoveImage(ctx context.Context, id uuid.UUID, publicID string) (*productform.Snapshot, error) {
	form, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := form.Untrack(publicID); err != nil {
		return nil, formError(err)
	}

	if err := s.save(ctx, form); err != nil {
		return nil, err
	}

	if err := s.media.DeleteImage(ctx, publicID); err != nil {
		return nil, errors.ThirdPartyError("Failed to delete image").
			WithDetail("The image was removed from the draft but the media host did not confirm the deletion").
			WithError(err)
	}

	snap := form.Snapshot()

	return &snap, nil
}

// SubmitDraft creates the product. The draft is saved as submitting first,
// so concurrent edits, abandons and sweeps leave it alone. A rejected draft
// is kept, failed, with its images so it can be fixed and resubmitted.
func (s *draftService) SubmitDraft(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("draftId", id.String()))

	form, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	req, err := form.BeginSubmit()
	if err != nil {
		return nil, formError(err)
	}

	if err := s.save(ctx, form); err != nil {
		return nil, err
	}

	product, createErr := s.products.CreateProduct(ctx, req)
	form.FinishSubmit(product, createErr)

	if createErr != nil {
		if err := s.save(ctx, form); err != nil {
			logger.Warn("Failed to save rejected draft", slog.String("error", err.Error()))
		}

		if _, ok := errors.IsAppError(createErr); ok {
			return nil, createErr
		}

		return nil, formError(createErr)
	}

	if err := s.drafts.DeleteDraft(ctx, id); err != nil {
		// the product exists; a submitted draft keeps its images when swept
		logger.Warn("Failed to delete submitted draft", slog.String("error", err.Error()))
		if err := s.save(ctx, form); err != nil {
			logger.Warn("Failed to save submitted draft", slog.String("error", err.Error()))
		}
	}

	logger.Info("Product draft submitted", slog.String("productId", product.ID.String()))

	return product, nil
}

// AbandonDraft deletes every image of an unsubmitted draft and drops it.
// The abandoned state is saved before any image is deleted, so a request
// that loaded the draft earlier cannot submit it afterwards. With detached
// set the deletions run after the response, best effort, and the returned
// count is the number dispatched.
func (s *draftService) AbandonDraft(ctx context.Context, id uuid.UUID, detached bool) (int, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("draftId", id.String()))

	form, err := s.load(ctx, id)
	if err != nil {
		return 0, err
	}

	images, err := form.Abandon()
	if err != nil {
		return 0, formError(err)
	}

	if err := s.save(ctx, form); err != nil {
		return 0, err
	}

	var count int

	if detached {
		count = len(productform.DeleteImagesDetached(ctx, s.runner, s.media, images))
	} else {
		deleted, err := productform.DeleteImages(ctx, s.media, images)
		if err != nil {
			logger.Warn("Some draft images could not be deleted", slog.String("error", err.Error()))
		}

		count = deleted
		metrics.RecordOrphanImagesDeleted("abandon", deleted)
	}

	if err := s.drafts.DeleteDraft(ctx, id); err != nil {
		return count, errors.DatabaseError("Failed to delete draft").WithError(err)
	}

	logger.Info("Product draft abandoned", slog.Int("images", count), slog.Bool("detached", detached))

	return count, nil
}

// SweepExpired tears down drafts whose expiry has passed and returns how
// many images it deleted.
func (s *draftService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	logger := middleware.LoggerFromContext(ctx)

	total := 0

	for {
		ids, err := s.drafts.ExpiredDrafts(ctx, now, sweepBatchSize)
		if err != nil {
			return total, err
		}

		for _, id := range ids {
			deleted, err := s.sweepOne(ctx, id)
			total += deleted

			if err != nil {
				metrics.RecordOrphanImagesDeleted("sweep", total)
				return total, err
			}
		}

		if len(ids) < sweepBatchSize {
			break
		}
	}

	metrics.RecordOrphanImagesDeleted("sweep", total)

	if total > 0 {
		logger.Info("Expired drafts swept", slog.Int("imagesDeleted", total))
	}

	return total, nil
}

// sweepOne claims an expired draft with a versioned save before deleting
// its images. A draft saved since it expired is left for a later sweep. A
// draft that is submitting or produced a product is dropped with its
// images kept.
func (s *draftService) sweepOne(ctx context.Context, id uuid.UUID) (int, error) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("draftId", id.String()))

	snap, err := s.drafts.GetDraft(ctx, id)
	if err != nil && !stdErrors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	deleted := 0

	if snap != nil {
		deleted, err = s.sweepImages(ctx, snap)
		switch {
		case errors.HasCode(err, errors.ErrCodeConflict):
			logger.Debug("Draft changed while sweeping, left for later")
			return 0, nil
		case errors.HasCode(err, errors.ErrCodeDatabaseError):
			return 0, err
		case err != nil:
			logger.Warn("Sweeper could not delete every draft image", slog.String("error", err.Error()))
		}
	}

	if err := s.drafts.DeleteDraft(ctx, id); err != nil {
		return deleted, fmt.Errorf("failed to drop swept draft %s: %w", id, err)
	}

	return deleted, nil
}

func (s *draftService) sweepImages(ctx context.Context, snap *productform.Snapshot) (int, error) {
	if snap.State == productform.StateSubmitting || snap.ProductID != nil {
		middleware.LoggerFromContext(ctx).Warn("Sweeper kept the images of a submitted draft", slog.String("draftId", snap.ID.String()))
		return 0, nil
	}

	form := productform.Restore(*snap)

	images, err := form.Abandon()
	if err != nil {
		return 0, err
	}

	if err := s.save(ctx, form); err != nil {
		return 0, err
	}

	return productform.DeleteImages(ctx, s.media, images)
}

func (s *draftService) load(ctx context.Context, id uuid.UUID) (*productform.Form, error) {
	snap, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Draft not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load draft").WithError(err)
	}

	return productform.Restore(*snap), nil
}

// save refreshes the draft expiry, so the TTL counts from the last edit.
func (s *draftService) save(ctx context.Context, form *productform.Form) error {
	snap := form.Snapshot()

	err := s.drafts.SaveDraft(ctx, &snap, s.now().Add(s.ttl))
	if stdErrors.Is(err, repository.ErrConflict) {
		return errors.ConflictError("Draft was changed by another request").
			WithDetail("Reload the draft and try again").
			WithError(err)
	}
	if err != nil {
		return errors.DatabaseError("Failed to save draft").WithError(err)
	}

	form.SetVersion(snap.Version)

	return nil
}

func (s *draftService) mutate(ctx context.Context, id uuid.UUID, fn func(*productform.Form) error) (*productform.Snapshot, error) {
	form, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(form); err != nil {
		return nil, formError(err)
	}

	if err := s.save(ctx, form); err != nil {
		return nil, err
	}

	snap := form.Snapshot()

	return &snap, nil
}

func formError(err error) error {
	var fieldErr *productform.FieldError
	if stdErrors.As(err, &fieldErr) {
		return errors.ValidationError("Validation failed").
			WithDetail(fieldErr.Message).
			WithDetails(fieldErr.Field)
	}

	switch {
	case stdErrors.Is(err, productform.ErrNoImages):
		return errors.BadRequestError("At least one image is required").WithError(err)
	case stdErrors.Is(err, productform.ErrUnknownImage):
		return errors.NotFoundError("Image not found in draft").WithError(err)
	case stdErrors.Is(err, productform.ErrInvalidImage):
		return errors.BadRequestError("Invalid image").WithDetail(err.Error()).WithError(err)
	case stdErrors.Is(err, productform.ErrFormClosed),
		stdErrors.Is(err, productform.ErrSubmitInProgress),
		stdErrors.Is(err, productform.ErrUploadInProgress):
		return errors.BadRequestError("Draft is not editable").WithDetail(err.Error()).WithError(err)
	default:
		return errors.InternalError("Draft operation failed").WithError(err)
	}
}
