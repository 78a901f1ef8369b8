package auth

import "errors"

// Self-action guard errors, mapped to 400 responses by the users handlers.
var (
	ErrSelfDemote     = errors.New("you cannot change your own role")
	ErrSelfDeactivate = errors.New("you cannot deactivate your own account")
	ErrSelfDelete     = errors.New("you cannot delete your own account")
)

// CheckSelfUpdate rejects updates through which an account would lock itself
// out: demoting its own role away from super_admin or setting its own status
// away from active. Fields left nil are not part of the proposed update.
func CheckSelfUpdate(callerID, targetID string, role, status *string) error {
	if callerID != targetID {
		return nil
	}
	if role != nil && *role != RoleSuperAdmin {
		return ErrSelfDemote
	}
	if status != nil && *status != StatusActive {
		return ErrSelfDeactivate
	}
	return nil
}

// CheckSelfDelete rejects an account deleting its own record, regardless of role.
func CheckSelfDelete(callerID, targetID string) error {
	if callerID == targetID {
		return ErrSelfDelete
	}
	return nil
}
