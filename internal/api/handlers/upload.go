package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/models"
	service "github.com/chucuoi/flower-storefront/internal/services"
	"github.com/chucuoi/flower-storefront/internal/utils"
	"github.com/chucuoi/flower-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// deliveryBeacon marks requests sent from a page unload handler. Nobody
// reads the response, so the work is detached and 202 returned at once.
const deliveryBeacon = "beacon"

type UploadHandler struct {
	mediaService service.MediaService
	validator    *validator.Validate
}

func NewUploadHandler(mediaService service.MediaService) *UploadHandler {
	return &UploadHandler{mediaService: mediaService, validator: utils.NewValidator()}
}

func isBeacon(r *http.Request) bool {
	return r.URL.Query().Get("delivery") == deliveryBeacon
}

// DeleteImage godoc
//
//	@Summary		Delete an uploaded image
//	@Description	Forwards a destroy call to the media host. With delivery=beacon the call is detached and 202 is returned without waiting.
//	@Tags			Uploads
//	@Accept			json
//	@Produce		json
//	@Param			request		body		models.DeleteImageRequest	true	"Image to delete"
//	@Param			delivery	query		string						false	"Set to beacon for unload-time delivery"	Enums(beacon)
//	@Success		200			{object}	response.APIResponse{data=models.DestroyResult}
//	@Success		202			{object}	response.APIResponse	"Deletion dispatched"
//	@Failure		400			{object}	response.APIResponse	"publicId is required"
//	@Failure		401			{object}	response.APIResponse	"Authentication required"
//	@Failure		403			{object}	response.APIResponse	"Admin access required"
//	@Failure		429			{object}	response.APIResponse	"Too many requests"
//	@Failure		500			{object}	response.APIResponse	"Media host failure"
//	@Security		BearerAuth
//	@Router			/upload/delete [post]
func (h *UploadHandler) DeleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.DeleteImageRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid delete image input")
			return
		}

		if isBeacon(r) {
			ticket, err := h.mediaService.DestroyImageDetached(r.Context(), req.PublicID)
			if err != nil {
				response.Error(w, err)
				return
			}

			logger.Info("Image deletion dispatched", slog.String("publicId", req.PublicID), slog.String("task", ticket.Name()))
			response.SuccessWithMessage(w, http.StatusAccepted, nil, "Image deletion dispatched")
			return
		}

		result, err := h.mediaService.DestroyImage(r.Context(), req.PublicID)
		if err != nil {
			logger.Error("Failed to delete image", slog.String("publicId", req.PublicID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}

// SignUpload godoc
//
//	@Summary		Sign a direct upload
//	@Description	Returns the parameters a browser needs to upload straight to the media host.
//	@Tags			Uploads
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=models.UploadSignature}
//	@Failure		401	{object}	response.APIResponse	"Authentication required"
//	@Failure		403	{object}	response.APIResponse	"Admin access required"
//	@Failure		500	{object}	response.APIResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/upload/signature [post]
func (h *UploadHandler) SignUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		signature, err := h.mediaService.SignUpload(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, signature)
	}
}
