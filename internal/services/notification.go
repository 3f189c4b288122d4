package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/pricing"
	"github.com/chucuoi/flower-storefront/pkg/sendgrid"
)

// NotificationService sends operator emails.
type NotificationService interface {
	SendLowStockAlert(ctx context.Context, product *models.Product) error
}

type notificationService struct {
	emailService sendgrid.EmailService
	alertEmail   string
	adminURL     string
}

// NewNotificationService sends alerts to alertEmail. An empty address
// disables alerts.
func NewNotificationService(emailService sendgrid.EmailService, alertEmail, adminURL string) NotificationService {
	return &notificationService{emailService: emailService, alertEmail: alertEmail, adminURL: adminURL}
}

func (n *notificationService) SendLowStockAlert(ctx context.Context, product *models.Product) error {
	logger := middleware.LoggerFromContext(ctx)

	if n.alertEmail == "" {
		logger.Debug("Low stock alert skipped, no alert address configured", slog.String("productId", product.ID.String()))
		return nil
	}

	msg := &sendgrid.Message{
		To:      n.alertEmail,
		Subject: fmt.Sprintf("Low stock: %s", product.Name),
		Content: fmt.Sprintf(
			"%s (SKU %s) is down to %d in stock, threshold %d.\nCurrent price: %s\n%s/admin/products/%s",
			product.Name, product.SKU, product.Stock, product.LowStockThreshold,
			pricing.Format(product.CurrentPrice), n.adminURL, product.ID,
		),
	}

	if err := n.emailService.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send low stock alert: %w", err)
	}

	logger.Info("Low stock alert sent", slog.String("productId", product.ID.String()), slog.Int("stock", product.Stock))

	return nil
}
