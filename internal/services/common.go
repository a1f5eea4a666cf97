// internal/services/common.go
package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

// Actor is the authenticated caller as seen by the services.
type Actor struct {
	ID   uuid.UUID
	Role models.UserRole
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.UserRoleAdmin
}

// ActorFromClaims builds an Actor from the values the auth middleware puts
// on the request context. A nil Actor means an anonymous caller.
func ActorFromClaims(userID, role string) *Actor {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}
	return &Actor{ID: id, Role: models.UserRole(role)}
}

// bestEffort runs a side effect whose failure must not fail the request.
func bestEffort(op string, fn func() error) {
	if err := fn(); err != nil {
		logrus.WithError(err).WithField("op", op).Warn("Best-effort operation failed")
	}
}

func validationFailed(err error) error {
	return utils.NewValidationError("validation failed", utils.GetValidationErrors(err))
}
