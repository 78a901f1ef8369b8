package auth

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestCheckSelfUpdate(t *testing.T) {
	tests := []struct {
		name     string
		caller   string
		target   string
		role     *string
		status   *string
		wantErr  error
	}{
		{"other account demote allowed", "a", "b", strPtr(RoleEditor), nil, nil},
		{"other account deactivate allowed", "a", "b", nil, strPtr(StatusInactive), nil},
		{"self demote rejected", "a", "a", strPtr(RoleAdmin), nil, ErrSelfDemote},
		{"self demote to editor rejected", "a", "a", strPtr(RoleEditor), nil, ErrSelfDemote},
		{"self keep super_admin allowed", "a", "a", strPtr(RoleSuperAdmin), nil, nil},
		{"self deactivate rejected", "a", "a", nil, strPtr(StatusInactive), ErrSelfDeactivate},
		{"self suspend rejected", "a", "a", nil, strPtr(StatusSuspended), ErrSelfDeactivate},
		{"self keep active allowed", "a", "a", nil, strPtr(StatusActive), nil},
		{"self profile-only update allowed", "a", "a", nil, nil, nil},
		{"self demote and deactivate reports demote first", "a", "a", strPtr(RoleEditor), strPtr(StatusInactive), ErrSelfDemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSelfUpdate(tt.caller, tt.target, tt.role, tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckSelfDelete(t *testing.T) {
	if err := CheckSelfDelete("a", "a"); !errors.Is(err, ErrSelfDelete) {
		t.Errorf("self delete: got %v, want ErrSelfDelete", err)
	}
	if err := CheckSelfDelete("a", "b"); err != nil {
		t.Errorf("deleting another account: got %v, want nil", err)
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleSuperAdmin, RoleAdmin, RoleEditor} {
		if !ValidRole(r) {
			t.Errorf("expected %q to be valid", r)
		}
	}
	for _, r := range []string{"", "root", "member", "SUPER_ADMIN"} {
		if ValidRole(r) {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusActive, StatusInactive, StatusSuspended} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidStatus("deleted") {
		t.Error("expected \"deleted\" to be invalid")
	}
}
