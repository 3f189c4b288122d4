package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/productform"
	service "github.com/chucuoi/flower-storefront/internal/services"
	"github.com/chucuoi/flower-storefront/internal/utils"
	"github.com/chucuoi/flower-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// AbandonResult reports how many tracked images an abandoned draft deleted.
type AbandonResult struct {
	ImagesDeleted int `json:"imagesDeleted"`
}

type DraftHandler struct {
	draftService service.DraftService
	validator    *validator.Validate
}

func NewDraftHandler(draftService service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService, validator: utils.NewValidator()}
}

// CreateDraft godoc
//
//	@Summary		Start a new product draft
//	@Description	Opens a server-held new-product form. Uploaded images are tracked until the draft is submitted or abandoned.
//	@Tags			Product drafts
//	@Produce		json
//	@Success		201	{object}	response.APIResponse{data=productform.Snapshot}
//	@Failure		401	{object}	response.APIResponse	"Authentication required"
//	@Failure		403	{object}	response.APIResponse	"Admin access required"
//	@Failure		500	{object}	response.APIResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/admin/product-drafts [post]
func (h *DraftHandler) CreateDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		snap, err := h.draftService.CreateDraft(r.Context())
		if err != nil {
			logger.Error("Failed to create draft", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Draft created", slog.String("draftId", snap.ID.String()))
		response.Success(w, http.StatusCreated, snap)
	}
}

// GetDraft godoc
//
//	@Summary		Get a product draft
//	@Tags			Product drafts
//	@Produce		json
//	@Param			id	path		string	true	"Draft ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse{data=productform.Snapshot}
//	@Failure		404	{object}	response.APIResponse	"Draft not found"
//	@Security		BearerAuth
//	@Router			/admin/product-drafts/{id} [get]
func (h *DraftHandler) GetDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		snap, err := h.draftService.GetDraft(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

// PatchDraft godoc
//
//	@Summary		Edit draft fields
//	@Description	Only the fields present are changed. A new name re-derives the slug unless a slug is sent too.
//	@Tags			Product drafts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Draft ID (UUID)"	Format(uuid)
//	@Param			fields	body		productform.Patch	true	"Changed fields"
//	@Success		200		{object}	response.APIResponse{data=productform.Snapshot}
//	@Failure		400		{object}	response.APIResponse	"Draft is not editable"
//	@Failure		404		{object}	response.APIResponse	"Draft not found"
//	@Failure		409		{object}	response.APIResponse	"Draft changed by another request"
//	@Security		BearerAuth
//	@Router			/admin/product-drafts/{id} [patch]
func (h *DraftHandler) PatchDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var patch productform.Patch
		if !utils.ParseAndValidate(r, w, &patch, h.validator) {
			logger.Warn("Invalid draft patch")
			return
		}

		snap, err := h.draftService.PatchDraft(r.Context(), id, patch)
		if err != nil {
			logger.Warn("Failed to patch draft", slog.String("draftId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

// AddDraftImage godoc
//
//	@Summary		Track an uploaded image
//	@Description	Registers an image the browser uploaded to the media host. The first image becomes the thumbnail.
//	@Tags			Product drafts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Draft ID (UUID)"	Format(uuid)
//	@Param			image	body		models.Image	true	"Uploaded image"
//	@Success		200		{object}	response.APIResponse{data=productform.Snapshot}
//	@Failure		400		{object}	response.APIResponse	"Invalid image or draft not editable"
//	@Failure		404		{object}	response.APIResponse	"Draft not found"
//	@Failure		409		{object}	response.APIResponse	"Draft changed by another request"
//	@Security		BearerAuth
//	@Router			/admin/product-drafts/{id}/images [post]
func (h *DraftHandler) AddDraftImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var img models.Image
		if !utils.ParseAndValidate(r, w, &img, h.validator) {
			logger.Warn("Invalid draft image")
			return
		}

		snap, err := h.draftService.AddImage(r.Context(), id, img)
		if err != nil {
			logger.Warn("Failed to add draft image", slog.String("draftId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

// RemoveDraftImage godoc
//
//	@Summary		Remove a tracked image
//	@Description	Deletes the image at the media host, then drops it from the draft.
//	@Tags			Product drafts
//	@Produce		json
//	@Param			id			path		string	true	"Draft ID (UUID)"	Format(uuid)
//	@Param			publicId	query		string	true	"Media host public id"
//	@Success		200			{object}	response.APIResponse{data=productform.Snapshot}
//	@Failure		400			{object}	response.APIResponse	"publicId is required"
//	@Failure		404			{object}	response.APIResponse	"Draft or image not found"
//	@Failure		409			{object}	response.APIResponse	"Draft changed by another request"
//	@Failure		500			{object}	response.APIResponse	"Media host failure"
//	@Security		BearerAuth
//	@Router			/admin/product-drafts/{id}/images [delete]
func (h *DraftHandler) RemoveDraftImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		publicID := strings.TrimSpace(r.URL.Query().Get("publicId"))
		if publicID == "" {
			response.Error(w, errors.BadRequestError("publicId is required"))
			return
		}

		snap, err := h.draftService.RemoveImage(r.Context(), id, publicID)
		if err != nil {
			logger.Warn("Failed to remove draft image",
				slog.String("draftId", id.String()),
				slog.String("publicId", publicID),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, snap)
	}
}

// SubmitDraft godoc
//
//	@Summary		Submit a product draft
//	@Description	Creates the product. On rejection the draft is kept with its images so it can be fixed and resubmitted.
//	@Tags			Product drafts
//	@Produce		json
//	@Param			id	path		string	true	"Draft ID (UUID)"	Format(uuid)
//	@Success		201	{object}	response.APIResponse{data=models.Product}
//	@Failure		400	{object}	response.APIResponse	"Validation error, no images or duplicate SKU"
//	@Failure		404	{object}	response.APIResponse	"Draft not found"
//	@Failure		409	{object}	response.APIResponse	"Draft changed by another request"
//	@Security		BearerAuth
//	@Router			/admin/product-drafts/{id}/submit [post]
func (h *DraftHandler) SubmitDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.draftService.SubmitDraft(r.Context(), id)
		if err != nil {
			logger.Warn("Draft submission rejected", slog.String("draftId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Draft submitted", slog.String("draftId", id.String()), slog.String("productId", product.ID.String()))
		response.SuccessWithMessage(w, http.StatusCreated, product, "Product created successfully")
	}
}

// AbandonDraft godoc
//
//	@Summary		Abandon a product draft
//	@Description	Deletes every image the draft still tracks unless it was submitted. With delivery=beacon the deletions are detached and 202 is returned.
//	@Tags			Product drafts
//	@Produce		json
//	@Param			id			path		string	true	"Draft ID (UUID)"	Format(uuid)
//	@Param			delivery	query		string	false	"Set to beacon for unload-time delivery"	Enums(beacon)
//	@Success		200			{object}	response.APIResponse{data=AbandonResult}
//	@Success		202			{object}	response.APIResponse{data=AbandonResult}
//	@Failure		400			{object}	response.APIResponse	"Draft is not editable"
//	@Failure		404			{object}	response.APIResponse	"Draft not found"
//	@Failure		409			{object}	response.APIResponse	"Draft changed by another request"
//	@Security		BearerAuth
//	@Router			/admin/product-drafts/{id} [delete]
func (h *DraftHandler) AbandonDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		detached := isBeacon(r)

		n, err := h.draftService.AbandonDraft(r.Context(), id, detached)
		if err != nil {
			logger.Warn("Failed to abandon draft", slog.String("draftId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		status := http.StatusOK
		if detached {
			status = http.StatusAccepted
		}

		logger.Info("Draft abandoned", slog.String("draftId", id.String()), slog.Int("images", n), slog.Bool("detached", detached))
		response.Success(w, status, AbandonResult{ImagesDeleted: n})
	}
}
