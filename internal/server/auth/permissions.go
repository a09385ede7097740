package auth

import "github.com/fmbakop/cotisio/internal/server/models"

// CanUpdateEmployer implements the separation-of-duties rule: only admins,
// supervisors and validation agents may update an employer, and never the
// agent who created the record.
func CanUpdateEmployer(actor models.Actor, creatorID int64) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleSupervisor, models.RoleValidationAgent:
		return actor.ID != creatorID
	}
	return false
}
