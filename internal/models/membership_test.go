package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"owner", "admin", "member"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), r)
	}

	_, err := ParseRole("superuser")
	require.Error(t, err)
	_, err = ParseRole("")
	require.Error(t, err)
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleOwner.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleMember.IsAdmin())
}

func TestMembershipJSONRejectsUnknownValues(t *testing.T) {
	var m Membership
	err := json.Unmarshal([]byte(`{"role":"admin","status":"active"}`), &m)
	require.NoError(t, err)
	assert.True(t, m.IsActiveAdmin())

	err = json.Unmarshal([]byte(`{"role":"root","status":"active"}`), &m)
	require.Error(t, err)

	err = json.Unmarshal([]byte(`{"role":"member","status":"banned"}`), &m)
	require.Error(t, err)
}

func TestIsActiveAdmin(t *testing.T) {
	var nilMember *Membership
	assert.False(t, nilMember.IsActiveAdmin())
	assert.False(t, (&Membership{Role: RoleAdmin, Status: StatusPending}).IsActiveAdmin())
	assert.False(t, (&Membership{Role: RoleMember, Status: StatusActive}).IsActiveAdmin())
	assert.True(t, (&Membership{Role: RoleOwner, Status: StatusActive}).IsActiveAdmin())
}
