// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Username              string                    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email                 string                    `json:"email,omitempty" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash          string                    `json:"-" gorm:"size:255;not null"`
	Role                  UserRole                  `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	Status                UserStatus                `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	DisplayName           string                    `json:"display_name" gorm:"size:100"`
	AvatarURL             string                    `json:"avatar_url" gorm:"size:512"`
	Bio                   string                    `json:"bio" gorm:"type:text"`
	Links                 datatypes.JSONSlice[Link] `json:"links"`
	EmailVerifiedAt       *time.Time                `json:"email_verified_at"`
	VerificationToken     string                    `json:"-" gorm:"size:64;index"`
	VerificationExpiresAt *time.Time                `json:"-"`
	LastLoginAt           *time.Time                `json:"last_login_at,omitempty"`
}

// PublicUser is the author block embedded in catalog responses.
type PublicUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:          u.ID.String(),
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
