package services

import (
	"fmt"

	"codeask/internal/models"
)

// requireActor gates every mutating operation: guests are unauthenticated,
// banned users may read but not mutate. Every service consults this one
// function instead of re-deriving the check per call site.
func requireActor(actor *models.User) error {
	if actor == nil || actor.Role == models.RoleGuest {
		return ErrUnauthenticated
	}
	if actor.IsBanned {
		return fmt.Errorf("%w: account is banned", ErrForbidden)
	}
	return nil
}

// canModerate reports whether the actor may edit or delete content owned by
// authorID: the author themselves, or an admin. Acceptance deliberately does
// NOT use this — accepting an answer is the asker's judgment and admins get no
// override there.
func canModerate(actor *models.User, authorID uint) bool {
	if actor == nil {
		return false
	}
	return actor.ID == authorID || actor.IsAdmin()
}
