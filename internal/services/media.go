package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/metrics"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/tasks"
	"github.com/chucuoi/flower-storefront/pkg/cloudinary"
)

// MediaService fronts the media host for the upload endpoints.
type MediaService interface {
	DestroyImage(ctx context.Context, publicID string) (*models.DestroyResult, error)
	// DestroyImageDetached is the unload-time path: the deletion runs
	// after the response and its outcome is only logged.
	DestroyImageDetached(ctx context.Context, publicID string) (*tasks.Ticket, error)
	SignUpload(ctx context.Context) (*models.UploadSignature, error)
}

type mediaService struct {
	client cloudinary.Client
	runner *tasks.Runner
	folder string
}

func NewMediaService(client cloudinary.Client, runner *tasks.Runner, folder string) MediaService {
	return &mediaService{client: client, runner: runner, folder: folder}
}

func (s *mediaService) DestroyImage(ctx context.Context, publicID string) (*models.DestroyResult, error) {
	logger := middleware.LoggerFromContext(ctx)

	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return nil, errors.BadRequestError("publicId is required")
	}

	result, err := s.client.Destroy(ctx, publicID)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to delete image").
			WithDetail("The media host could not delete the image, please retry").
			WithError(err)
	}

	if result.Result == cloudinary.ResultOK {
		metrics.RecordOrphanImagesDeleted("manual", 1)
	}

	logger.Info("Image destroyed", slog.String("publicId", publicID), slog.String("result", result.Result))

	return result, nil
}

func (s *mediaService) DestroyImageDetached(ctx context.Context, publicID string) (*tasks.Ticket, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return nil, errors.BadRequestError("publicId is required")
	}

	return s.runner.Go(ctx, "media.delete_image", func(taskCtx context.Context) error {
		if err := s.client.DeleteImage(taskCtx, publicID); err != nil {
			return err
		}

		metrics.RecordOrphanImagesDeleted("beacon", 1)

		return nil
	}), nil
}

func (s *mediaService) SignUpload(ctx context.Context) (*models.UploadSignature, error) {
	signature, err := s.client.SignUpload(s.folder)
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to sign upload", slog.String("error", err.Error()))
		return nil, errors.InternalError("Failed to sign upload").WithError(err)
	}

	return signature, nil
}
