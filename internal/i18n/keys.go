// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthVerifySuccess      = "auth.verify_success"

	// Access
	KeyAccessDenied      = "access.denied"
	KeyAdminAccessDenied = "admin.access_denied"
	KeyNotOwner          = "access.not_owner"

	// Catalog
	KeyGameNotFound    = "game.not_found"
	KeySectionNotFound = "section.not_found"
	KeyItemNotFound    = "item.not_found"
	KeyItemCreated     = "item.created"
	KeyItemUpdated     = "item.updated"
	KeyItemDeleted     = "item.deleted"
	KeyItemSlugTaken   = "item.slug_taken"

	// Files
	KeyFileNotFound      = "file.not_found"
	KeyImageNotFound     = "image.not_found"
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileRequired      = "file.required"
	KeyFileTooLarge      = "file.too_large"

	// Users
	KeyUserNotFound       = "user.not_found"
	KeyUserProfileUpdated = "user.profile_updated"

	// Support
	KeyNotificationNotFound = "notification.not_found"
	KeyTicketNotFound       = "ticket.not_found"
	KeyReportNotFound       = "report.not_found"
	KeyReportSubmitted      = "report.submitted"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Generic
	KeyResourceNotFound = "resource.not_found"
	KeyRateLimited      = "rate.limited"
)
