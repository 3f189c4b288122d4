// Package productform implements the admin "new product" form: field
// validation, slug derivation, tracking of images uploaded to the media
// host, and deletion of those images when the form is abandoned.
//
// A Form owns its images until it is submitted. Teardown always reads the
// form's current state under its lock, so cleanup sees images added after
// the form was created.
package productform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	appErrors "github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/pricing"
	"github.com/chucuoi/flower-storefront/internal/tasks"
	"github.com/google/uuid"
)

type State string

const (
	StateEditing    State = "editing"
	StateUploading  State = "uploading"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateFailed     State = "failed"
	StateAbandoned  State = "abandoned"
)

const DefaultStock = 100

var (
	ErrNoImages         = errors.New("at least one image is required")
	ErrFormClosed       = errors.New("form is no longer editable")
	ErrSubmitInProgress = errors.New("submission in progress")
	ErrUploadInProgress = errors.New("wait for uploads to finish")
	ErrUnknownImage     = errors.New("image is not tracked by this form")
	ErrInvalidImage     = errors.New("image needs a url and a public id")
)

// Deleter removes an uploaded image from the media host.
type Deleter interface {
	DeleteImage(ctx context.Context, publicID string) error
}

// Submitter persists the finished product.
type Submitter interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
}

type Form struct {
	mu sync.Mutex

	id        uuid.UUID
	version   int64
	state     State
	fields    Fields
	images    []models.Image
	uploads   int
	productID *uuid.UUID
	lastError string
}

// New starts an empty form. The first category is preselected and the SKU
// is generated from its name.
func New(categories []*models.Category) *Form {
	f := &Form{
		id:    uuid.New(),
		state: StateEditing,
		fields: Fields{
			Stock:    strconv.Itoa(DefaultStock),
			IsActive: true,
		},
	}

	if len(categories) > 0 && categories[0] != nil {
		f.fields.Category = categories[0].ID.String()
		f.fields.SKU = GenerateSKU(categories[0].Name)
	}

	return f
}

func (f *Form) ID() uuid.UUID {
	return f.id
}

// Version is the stored revision the form was restored from, zero for a
// form that was never saved.
func (f *Form) Version() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.version
}

// SetVersion records the revision the store assigned on save.
func (f *Form) SetVersion(v int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.version = v
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()

	fields := f.fields
	fields.Tags = append([]string(nil), f.fields.Tags...)

	return fields
}

// Images returns the tracked images in upload order; the first one is the
// thumbnail candidate.
func (f *Form) Images() []models.Image {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]models.Image(nil), f.images...)
}

// LastError is the server message of the most recent failed submission.
func (f *Form) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastError
}

func (f *Form) ProductID() *uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.productID
}

// editable must be called with the lock held.
func (f *Form) editable() error {
	switch f.state {
	case StateSubmitting:
		return ErrSubmitInProgress
	case StateSubmitted, StateAbandoned:
		return ErrFormClosed
	}

	return nil
}

// Apply updates the changed fields. A non-empty name overwrites the slug.
func (f *Form) Apply(p Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return err
	}

	p.apply(&f.fields)

	if f.state == StateFailed {
		f.state = StateEditing
	}

	return nil
}

// Validate returns a *FieldError for the first invalid field, or nil.
func (f *Form) Validate() error {
	f.mu.Lock()
	fields := f.fields
	f.mu.Unlock()

	return validateFields(&fields)
}

func (f *Form) BeginUpload() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return err
	}

	f.uploads++
	f.state = StateUploading

	return nil
}

// CompleteUpload records a finished upload. If the form was closed while
// the upload ran, the image is not tracked and the caller must delete it.
func (f *Form) CompleteUpload(img models.Image) error {
	if img.URL == "" || img.PublicID == "" {
		f.FailUpload()
		return ErrInvalidImage
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishUpload()

	if err := f.editable(); err != nil {
		return err
	}

	f.images = append(f.images, img)

	return nil
}

func (f *Form) FailUpload() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishUpload()
}

func (f *Form) finishUpload() {
	if f.uploads > 0 {
		f.uploads--
	}

	if f.uploads == 0 && f.state == StateUploading {
		f.state = StateEditing
	}
}

// AddImage tracks an image uploaded outside a BeginUpload/CompleteUpload
// pair.
func (f *Form) AddImage(img models.Image) error {
	if err := f.BeginUpload(); err != nil {
		return err
	}

	return f.CompleteUpload(img)
}

// Untrack stops tracking an image without touching the media host. The
// caller owns the deletion.
func (f *Form) Untrack(publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return err
	}

	i := f.indexOf(publicID)
	if i < 0 {
		return ErrUnknownImage
	}

	f.images = append(f.images[:i], f.images[i+1:]...)

	return nil
}

// RemoveImage stops tracking the image and then deletes it at the media
// host. The deletion error is returned; the image stays untracked.
func (f *Form) RemoveImage(ctx context.Context, deleter Deleter, publicID string) error {
	if err := f.Untrack(publicID); err != nil {
		return err
	}

	if err := deleter.DeleteImage(ctx, publicID); err != nil {
		return fmt.Errorf("delete image %s: %w", publicID, err)
	}

	return nil
}

func (f *Form) indexOf(publicID string) int {
	for i, img := range f.images {
		if img.PublicID == publicID {
			return i
		}
	}

	return -1
}

// Submit validates the form and creates the product. After a rejection
// the form is failed but keeps its images, so it can be fixed and
// submitted again.
func (f *Form) Submit(ctx context.Context, submitter Submitter) (*models.Product, error) {
	req, err := f.BeginSubmit()
	if err != nil {
		return nil, err
	}

	product, err := submitter.CreateProduct(ctx, req)
	f.FinishSubmit(product, err)

	if err != nil {
		return nil, err
	}

	return product, nil
}

// BeginSubmit validates the form, moves it to submitting and returns the
// create request. Until FinishSubmit the form rejects edits and teardown.
func (f *Form) BeginSubmit() (*models.CreateProductRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		return nil, err
	}
	if f.state == StateUploading {
		return nil, ErrUploadInProgress
	}
	if len(f.images) == 0 {
		return nil, ErrNoImages
	}
	if err := validateFields(&f.fields); err != nil {
		return nil, err
	}

	f.state = StateSubmitting

	return buildRequest(f.fields, f.images), nil
}

// FinishSubmit records the outcome of the create call started by
// BeginSubmit.
func (f *Form) FinishSubmit(product *models.Product, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSubmitting {
		return
	}

	if err != nil {
		f.state = StateFailed
		f.lastError = serverMessage(err)

		return
	}

	f.state = StateSubmitted
	f.lastError = ""
	if product != nil {
		id := product.ID
		f.productID = &id
	}
}

func serverMessage(err error) string {
	if appErr, ok := appErrors.IsAppError(err); ok && appErr.Detail != "" {
		return appErr.Detail
	}

	return err.Error()
}

// buildRequest assumes the fields passed validation.
func buildRequest(fields Fields, images []models.Image) *models.CreateProductRequest {
	base, _ := strconv.ParseFloat(fields.BasePrice, 64)
	stock, _ := strconv.Atoi(fields.Stock)

	var sale *float64
	if fields.SalePrice != "" {
		v, _ := strconv.ParseFloat(fields.SalePrice, 64)
		sale = &v
	}

	current := pricing.Normalize(base, sale).CurrentPrice

	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
	}

	isActive, isFeatured := fields.IsActive, fields.IsFeatured

	return &models.CreateProductRequest{
		Name:             fields.Name,
		Slug:             fields.Slug,
		Description:      fields.Description,
		ShortDescription: fields.ShortDescription,
		BasePrice:        &base,
		CurrentPrice:     &current,
		SalePrice:        sale,
		SKU:              fields.SKU,
		Stock:            &stock,
		Images:           urls,
		Thumbnail:        urls[0],
		Category:         fields.Category,
		Tags:             append([]string(nil), fields.Tags...),
		MetaTitle:        fields.MetaTitle,
		MetaDescription:  fields.MetaDescription,
		IsActive:         &isActive,
		IsFeatured:       &isFeatured,
	}
}

// Abandon moves an unsubmitted form to abandoned and hands over its
// images; the caller deletes them. A form that produced a product, or is
// already abandoned, yields nothing.
func (f *Form) Abandon() ([]models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.state == StateSubmitting:
		return nil, ErrSubmitInProgress
	case f.state == StateSubmitted, f.state == StateAbandoned, f.productID != nil:
		return nil, nil
	}

	images := f.images
	f.images = nil
	f.state = StateAbandoned

	return images, nil
}

// Teardown deletes every image of an unsubmitted form and closes it. It
// returns how many images were deleted. Calling it again is a no-op.
func (f *Form) Teardown(ctx context.Context, deleter Deleter) (int, error) {
	images, err := f.Abandon()
	if err != nil {
		return 0, err
	}

	return DeleteImages(ctx, deleter, images)
}

// TeardownDetached is the tab-closing variant of Teardown: each deletion
// runs as a detached task and the caller does not wait. Delivery is best
// effort.
func (f *Form) TeardownDetached(ctx context.Context, runner *tasks.Runner, deleter Deleter) ([]*tasks.Ticket, error) {
	images, err := f.Abandon()
	if err != nil {
		return nil, err
	}

	return DeleteImagesDetached(ctx, runner, deleter, images), nil
}

// DeleteImages deletes each image at the media host and returns how many
// deletions succeeded.
func DeleteImages(ctx context.Context, deleter Deleter, images []models.Image) (int, error) {
	var (
		deleted int
		errs    []error
	)

	for _, img := range images {
		if err := deleter.DeleteImage(ctx, img.PublicID); err != nil {
			errs = append(errs, fmt.Errorf("delete image %s: %w", img.PublicID, err))
			continue
		}
		deleted++
	}

	return deleted, errors.Join(errs...)
}

func DeleteImagesDetached(ctx context.Context, runner *tasks.Runner, deleter Deleter, images []models.Image) []*tasks.Ticket {
	tickets := make([]*tasks.Ticket, 0, len(images))
	for _, img := range images {
		publicID := img.PublicID
		tickets = append(tickets, runner.Go(ctx, "productform.delete_image", func(taskCtx context.Context) error {
			return deleter.DeleteImage(taskCtx, publicID)
		}))
	}

	return tickets
}
