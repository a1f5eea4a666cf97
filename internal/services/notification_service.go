// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/config"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

const (
	NotificationItemLiked      = "item_liked"
	NotificationReportResolved = "report_resolved"
	NotificationTicketReply    = "ticket_reply"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Notify stores an in-app notification for userID.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, data map[string]interface{}) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, utils.NewInternalError("failed to create notification", err)
	}

	return notification, nil
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "notification")
	}

	var notifications []models.Notification
	if err := utils.ApplyPagination(query.Order("created_at DESC, id DESC"), params).
		Find(&notifications).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "notification")
	}

	return notifications, total, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return utils.WrapDBError(result.Error, "notification")
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFoundError("notification")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	if result.Error != nil {
		return 0, utils.WrapDBError(result.Error, "notification")
	}
	return result.RowsAffected, nil
}

// Domain notifications
func (s *NotificationService) NotifyItemLiked(ctx context.Context, item *models.Item, liker *models.User) error {
	if item.AuthorID == nil || liker == nil || *item.AuthorID == liker.ID {
		return nil
	}

	_, err := s.Notify(ctx, *item.AuthorID, NotificationItemLiked,
		"New like",
		fmt.Sprintf("%s liked \"%s\"", liker.Username, item.Title),
		map[string]interface{}{"item_id": item.ID.String(), "user_id": liker.ID.String()},
	)
	return err
}

func (s *NotificationService) NotifyReportResolved(ctx context.Context, report *models.Report) error {
	_, err := s.Notify(ctx, report.ReporterID, NotificationReportResolved,
		"Report "+string(report.Status),
		fmt.Sprintf("Your report has been %s.", report.Status),
		map[string]interface{}{"report_id": report.ID.String(), "item_id": report.ItemID.String()},
	)
	return err
}

// Authentication emails
func (s *NotificationService) SendVerificationEmail(user *models.User, token string) error {
	tmpl := s.getEmailTemplate("verify_email")

	data := map[string]interface{}{
		"Username":        user.Username,
		"VerificationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, token),
		"Token":           token,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	cfg := s.config.Email
	if cfg.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email not configured, skipping delivery")
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", cfg.FromEmail, cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	logrus.WithField("to", to).Info("Email sent")
	return nil
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"verify_email": {
			Subject: "Confirm your ModHub account",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Confirm your email address to finish creating your account:</p>
	<a href="{{.VerificationURL}}">Verify Email</a>
	<p>Or use this code: <b>{{.Token}}</b></p>
	<p>Unconfirmed accounts are removed after 24 hours.</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
