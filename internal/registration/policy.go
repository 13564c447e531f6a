package registration

import (
	"fmt"

	"github.com/fastfixai/tenantsite/internal/models"
)

// MaxAutoAdmins is how many regular registrants are promoted without approval.
const MaxAutoAdmins = 2

// Decision is the outcome of the role-bootstrap policy for a new member.
type Decision struct {
	Role        models.Role
	Status      models.Status
	AutoPromote bool
	Message     string
}

// Decide applies the bootstrap policy: the system owner always becomes an
// active owner, the first MaxAutoAdmins registrants become active admins and
// everyone else waits for approval as a member.
func Decide(isSystemOwner bool, activeAdmins int) Decision {
	switch {
	case isSystemOwner:
		return Decision{
			Role: models.RoleOwner, Status: models.StatusActive, AutoPromote: true,
			Message: "Welcome, System Owner! You have full access to this business.",
		}
	case activeAdmins < MaxAutoAdmins:
		return Decision{
			Role: models.RoleAdmin, Status: models.StatusActive, AutoPromote: true,
			Message: "Welcome! You have been automatically assigned as an admin.",
		}
	default:
		return Decision{
			Role: models.RoleMember, Status: models.StatusPending,
			Message: "Your account has been created and is pending admin approval.",
		}
	}
}

func welcomeBack(role models.Role) string {
	return fmt.Sprintf("Welcome back! You are logged in as %s.", role)
}
