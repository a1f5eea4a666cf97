// internal/services/admin_service.go
package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/database"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdminDashboardStats struct {
	TotalUsers        int64            `json:"total_users"`
	ActiveUsers       int64            `json:"active_users"`
	NewUsersThisMonth int64            `json:"new_users_this_month"`
	UnverifiedUsers   int64            `json:"unverified_users"`
	ItemsByStatus     map[string]int64 `json:"items_by_status"`
	TotalDownloads    int64            `json:"total_downloads"`
	PendingReports    int64            `json:"pending_reports"`
	OpenTickets       int64            `json:"open_tickets"`
	NewSuggestions    int64            `json:"new_suggestions"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Status string
	Role   string
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required"`
	Reason string            `json:"reason,omitempty"`
}

type ResolveReportRequest struct {
	Status     models.ReportStatus `json:"status" validate:"required,oneof=resolved dismissed"`
	AdminNotes string              `json:"admin_notes,omitempty"`

	// HideItem moves the reported item to hidden in the same transaction.
	HideItem bool `json:"hide_item,omitempty"`
}

type UpdateTicketStatusRequest struct {
	Status models.TicketStatus `json:"status" validate:"required"`
}

type CreateGameRequest struct {
	Slug        string `json:"slug" validate:"required,slug,max=100"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	CoverURL    string `json:"cover_url,omitempty" validate:"omitempty,url"`
}

type CreateSectionRequest struct {
	Slug         string                 `json:"slug" validate:"required,slug,max=100"`
	Name         string                 `json:"name" validate:"required,max=255"`
	UIConfig     map[string]interface{} `json:"ui_config,omitempty"`
	FilterConfig []models.FilterField   `json:"filter_config,omitempty"`
}

type UpdateSectionRequest struct {
	Name         *string                `json:"name,omitempty" validate:"omitempty,max=255"`
	UIConfig     map[string]interface{} `json:"ui_config,omitempty"`
	FilterConfig *[]models.FilterField  `json:"filter_config,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *AdminService) GetDashboardStats(ctx context.Context) (*AdminDashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &AdminDashboardStats{ItemsByStatus: map[string]int64{}}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// User statistics
	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.User{}), &stats.TotalUsers},
		{db.Model(&models.User{}).Where("status = ?", models.UserStatusActive), &stats.ActiveUsers},
		{db.Model(&models.User{}).Where("created_at >= ?", monthStart), &stats.NewUsersThisMonth},
		{db.Model(&models.User{}).Where("email_verified_at IS NULL"), &stats.UnverifiedUsers},
		{db.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending), &stats.PendingReports},
		{db.Model(&models.Ticket{}).Where("status = ?", models.TicketStatusOpen), &stats.OpenTickets},
		{db.Model(&models.Suggestion{}).Where("status = ?", models.SuggestionStatusNew), &stats.NewSuggestions},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, utils.WrapDBError(err, "stats")
		}
	}

	// Item statistics
	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.Item{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, utils.WrapDBError(err, "stats")
	}
	for _, r := range rows {
		stats.ItemsByStatus[r.Status] = r.Count
	}

	if err := db.Model(&models.File{}).Select("COALESCE(SUM(download_count), 0)").
		Scan(&stats.TotalDownloads).Error; err != nil {
		return nil, utils.WrapDBError(err, "stats")
	}

	return stats, nil
}

func (s *AdminService) GetUsers(ctx context.Context, filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})

	// Apply filters
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		searchTerm := "%" + strings.ToLower(q) + "%"
		query = query.Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ?)", searchTerm, searchTerm)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "user")
	}

	sorts := map[string]string{
		"newest":   "created_at DESC, id DESC",
		"oldest":   "created_at ASC, id ASC",
		"username": "username ASC, id ASC",
	}
	query = utils.ApplySort(query, filter.Sort, sorts, "newest")

	users := []models.User{}
	if err := utils.ApplyPagination(query, filter.PaginationParams).Find(&users).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "user")
	}

	return users, total, nil
}

func (s *AdminService) UpdateUserStatus(ctx context.Context, adminID, userID uuid.UUID, req *UpdateUserStatusRequest) (*models.User, error) {
	if !req.Status.Valid() {
		return nil, utils.NewValidationError("invalid user status", map[string]interface{}{"status": req.Status})
	}
	if adminID == userID {
		return nil, utils.NewForbiddenError("cannot change your own status")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, utils.WrapDBError(err, "user")
	}

	oldStatus := user.Status
	if err := s.db.WithContext(ctx).Model(&user).Update("status", req.Status).Error; err != nil {
		return nil, utils.WrapDBError(err, "user")
	}
	user.Status = req.Status

	s.createAuditLog(ctx, adminID, "UPDATE_USER_STATUS", "user", &userID, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": req.Status,
		"reason":     req.Reason,
	})

	return &user, nil
}

// Reports
func (s *AdminService) GetReports(ctx context.Context, status string, params utils.PaginationParams) ([]models.Report, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "report")
	}

	reports := []models.Report{}
	if err := utils.ApplyPagination(query.Order("created_at DESC, id DESC"), params).
		Preload("Item").
		Find(&reports).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "report")
	}

	return reports, total, nil
}

// ResolveReport closes a report and notifies the reporter.
func (s *AdminService) ResolveReport(ctx context.Context, adminID, reportID uuid.UUID, req *ResolveReportRequest) (*models.Report, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	var report models.Report
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			return err
		}

		now := time.Now()
		report.Status = req.Status
		report.AdminNotes = req.AdminNotes
		report.ResolvedBy = &adminID
		report.ResolvedAt = &now
		if err := tx.Model(&report).Updates(map[string]interface{}{
			"status":      report.Status,
			"admin_notes": report.AdminNotes,
			"resolved_by": adminID,
			"resolved_at": now,
		}).Error; err != nil {
			return err
		}

		if req.HideItem {
			return tx.Model(&models.Item{}).Where("id = ?", report.ItemID).
				Update("status", models.ItemStatusHidden).Error
		}
		return nil
	})
	if err != nil {
		return nil, utils.WrapDBError(err, "report")
	}

	s.createAuditLog(ctx, adminID, "RESOLVE_REPORT", "report", &report.ID, map[string]interface{}{
		"status":    report.Status,
		"hide_item": req.HideItem,
	})

	if s.notificationService != nil {
		bestEffort("notify report resolved", func() error {
			return s.notificationService.NotifyReportResolved(ctx, &report)
		})
	}

	return &report, nil
}

// Tickets
func (s *AdminService) GetTickets(ctx context.Context, status string, params utils.PaginationParams) ([]models.Ticket, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Ticket{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return listTickets(query, params)
}

func (s *AdminService) UpdateTicketStatus(ctx context.Context, ticketID uuid.UUID, status models.TicketStatus) (*models.Ticket, error) {
	if !status.Valid() {
		return nil, utils.NewValidationError("invalid ticket status", map[string]interface{}{"status": status})
	}

	var ticket models.Ticket
	if err := s.db.WithContext(ctx).First(&ticket, "id = ?", ticketID).Error; err != nil {
		return nil, utils.WrapDBError(err, "ticket")
	}

	if err := s.db.WithContext(ctx).Model(&ticket).Update("status", status).Error; err != nil {
		return nil, utils.WrapDBError(err, "ticket")
	}
	ticket.Status = status

	return &ticket, nil
}

func (s *AdminService) GetSuggestions(ctx context.Context, status string, params utils.PaginationParams) ([]models.Suggestion, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Suggestion{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "suggestion")
	}

	suggestions := []models.Suggestion{}
	if err := utils.ApplyPagination(query.Order("created_at DESC, id DESC"), params).
		Find(&suggestions).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "suggestion")
	}

	return suggestions, total, nil
}

// Taxonomy
func (s *AdminService) CreateGame(ctx context.Context, req *CreateGameRequest) (*models.Game, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	game := &models.Game{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
	}
	if err := s.db.WithContext(ctx).Create(game).Error; err != nil {
		return nil, utils.WrapDBError(err, "game")
	}

	return game, nil
}

func (s *AdminService) CreateSection(ctx context.Context, gameSlug string, req *CreateSectionRequest) (*models.Section, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	var game models.Game
	if err := s.db.WithContext(ctx).Where("slug = ?", gameSlug).First(&game).Error; err != nil {
		return nil, utils.WrapDBError(err, "game")
	}

	section := &models.Section{
		GameID:       game.ID,
		Slug:         req.Slug,
		Name:         req.Name,
		UIConfig:     datatypes.JSONMap(req.UIConfig),
		FilterConfig: datatypes.JSONSlice[models.FilterField](req.FilterConfig),
	}
	if err := s.db.WithContext(ctx).Create(section).Error; err != nil {
		return nil, utils.WrapDBError(err, "section")
	}

	return section, nil
}

func (s *AdminService) UpdateSection(ctx context.Context, sectionID uuid.UUID, req *UpdateSectionRequest) (*models.Section, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.UIConfig != nil {
		updates["ui_config"] = datatypes.JSONMap(req.UIConfig)
	}
	if req.FilterConfig != nil {
		updates["filter_config"] = datatypes.JSONSlice[models.FilterField](*req.FilterConfig)
	}
	if len(updates) == 0 {
		return nil, utils.NewValidationError("no fields to update", nil)
	}

	var section models.Section
	if err := s.db.WithContext(ctx).First(&section, "id = ?", sectionID).Error; err != nil {
		return nil, utils.WrapDBError(err, "section")
	}
	if err := s.db.WithContext(ctx).Model(&section).Updates(updates).Error; err != nil {
		return nil, utils.WrapDBError(err, "section")
	}
	if err := s.db.WithContext(ctx).First(&section, "id = ?", sectionID).Error; err != nil {
		return nil, utils.WrapDBError(err, "section")
	}

	return &section, nil
}

func (s *AdminService) createAuditLog(ctx context.Context, userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, payload map[string]interface{}) {
	bestEffort("audit "+action, func() error {
		return s.db.WithContext(ctx).Create(&models.AuditLog{
			UserID:       &userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Payload:      payload,
		}).Error
	})
}
