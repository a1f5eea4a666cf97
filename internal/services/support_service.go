// internal/services/support_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/database"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

type SupportService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CreateTicketRequest struct {
	Subject  string `json:"subject" validate:"required,min=3,max=255"`
	Body     string `json:"body" validate:"required"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low normal high"`
}

type TicketMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

type CreateReportRequest struct {
	ItemID      uuid.UUID `json:"item_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required,max=100"`
	Description string    `json:"description,omitempty"`
}

type CreateSuggestionRequest struct {
	GameID *uuid.UUID `json:"game_id,omitempty"`
	Title  string     `json:"title" validate:"required,min=3,max=255"`
	Body   string     `json:"body" validate:"required"`
}

func NewSupportService(db *gorm.DB, notificationService *NotificationService) *SupportService {
	return &SupportService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Tickets
func (s *SupportService) CreateTicket(ctx context.Context, actor *Actor, req *CreateTicketRequest) (*models.Ticket, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	ticket := &models.Ticket{
		UserID:   actor.ID,
		Subject:  req.Subject,
		Status:   models.TicketStatusOpen,
		Priority: priority,
		Messages: []models.TicketMessage{{AuthorID: actor.ID, Body: req.Body}},
	}

	if err := s.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, utils.WrapDBError(err, "ticket")
	}

	return ticket, nil
}

func (s *SupportService) ListTickets(ctx context.Context, actor *Actor, params utils.PaginationParams) ([]models.Ticket, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Ticket{}).Where("user_id = ?", actor.ID)
	return listTickets(query, params)
}

func listTickets(query *gorm.DB, params utils.PaginationParams) ([]models.Ticket, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "ticket")
	}

	tickets := []models.Ticket{}
	if err := utils.ApplyPagination(query.Order("created_at DESC, id DESC"), params).
		Find(&tickets).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "ticket")
	}

	return tickets, total, nil
}

// GetTicket is visible to its owner and admins.
func (s *SupportService) GetTicket(ctx context.Context, actor *Actor, ticketID uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&ticket, "id = ?", ticketID).Error; err != nil {
		return nil, utils.WrapDBError(err, "ticket")
	}

	if ticket.UserID != actor.ID && !actor.IsAdmin() {
		return nil, utils.NewNotFoundError("ticket")
	}

	return &ticket, nil
}

func (s *SupportService) AddMessage(ctx context.Context, actor *Actor, ticketID uuid.UUID, req *TicketMessageRequest) (*models.TicketMessage, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	ticket, err := s.GetTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, utils.NewValidationError("ticket is closed", nil)
	}

	message := &models.TicketMessage{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Body:     req.Body,
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		// Touch the ticket so queues sort by activity.
		return tx.Model(ticket).UpdateColumn("updated_at", message.CreatedAt).Error
	})
	if err != nil {
		return nil, utils.WrapDBError(err, "ticket")
	}

	if ticket.UserID != actor.ID && s.notificationService != nil {
		bestEffort("notify ticket reply", func() error {
			_, err := s.notificationService.Notify(ctx, ticket.UserID, NotificationTicketReply,
				"Support replied",
				fmt.Sprintf("There is a new reply on \"%s\"", ticket.Subject),
				map[string]interface{}{"ticket_id": ticket.ID.String()},
			)
			return err
		})
	}

	return message, nil
}

// Reports
func (s *SupportService) CreateReport(ctx context.Context, actor *Actor, req *CreateReportRequest) (*models.Report, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	var item models.Item
	if err := s.db.WithContext(ctx).Select("id").First(&item, "id = ?", req.ItemID).Error; err != nil {
		return nil, utils.WrapDBError(err, "item")
	}

	report := &models.Report{
		ReporterID:  actor.ID,
		ItemID:      item.ID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.ReportStatusPending,
	}

	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, utils.WrapDBError(err, "report")
	}

	return report, nil
}

// Suggestions may be anonymous.
func (s *SupportService) CreateSuggestion(ctx context.Context, actor *Actor, req *CreateSuggestionRequest) (*models.Suggestion, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	if req.GameID != nil {
		var game models.Game
		if err := s.db.WithContext(ctx).Select("id").First(&game, "id = ?", *req.GameID).Error; err != nil {
			return nil, utils.WrapDBError(err, "game")
		}
	}

	suggestion := &models.Suggestion{
		GameID: req.GameID,
		Title:  req.Title,
		Body:   req.Body,
		Status: models.SuggestionStatusNew,
	}
	if actor != nil {
		suggestion.UserID = &actor.ID
	}

	if err := s.db.WithContext(ctx).Create(suggestion).Error; err != nil {
		return nil, utils.WrapDBError(err, "suggestion")
	}

	return suggestion, nil
}
