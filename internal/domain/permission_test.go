package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func acct(id string, roles ...Role) *Account {
	return &Account{ID: id, IsActive: true, Roles: NewRoleSet(roles...)}
}

func TestCanModify(t *testing.T) {
	user := acct("u1", RoleUser)
	user2 := acct("u2", RoleUser)
	admin := acct("a1", RoleUser, RoleAdmin)
	admin2 := acct("a2", RoleUser, RoleAdmin)
	super := acct("s1", RoleSuperadmin)
	super2 := acct("s2", RoleUser, RoleSuperadmin)

	tests := []struct {
		name          string
		actor, target *Account
		want          bool
	}{
		{"user on self", user, user, true},
		{"user on user", user, user2, false},
		{"user on admin", user, admin, false},
		{"admin on user", admin, user, true},
		{"admin on admin", admin, admin2, false},
		{"admin on superadmin", admin, super, false},
		{"superadmin on user", super, user, true},
		{"superadmin on admin", super, admin, true},
		{"superadmin on superadmin", super, super2, true},
		{"nil actor", nil, user, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.actor, tt.target))
		})
	}
}

func TestCheckDelete(t *testing.T) {
	user := acct("u1", RoleUser)
	user2 := acct("u2", RoleUser)
	admin := acct("a1", RoleUser, RoleAdmin)
	admin2 := acct("a2", RoleUser, RoleAdmin)
	super := acct("s1", RoleUser, RoleSuperadmin)

	assert.ErrorIs(t, CheckDelete(user, user2), ErrForbidden)
	assert.NoError(t, CheckDelete(admin, user))
	assert.ErrorIs(t, CheckDelete(admin, admin2), ErrForbidden)
	assert.ErrorIs(t, CheckDelete(admin, super), ErrForbidden)
	assert.NoError(t, CheckDelete(super, admin))
	assert.ErrorIs(t, CheckDelete(super, super), ErrSuperadminProtected)
	assert.NoError(t, CheckDelete(user, user), "non-superadmin may delete self")
	assert.NoError(t, CheckDelete(admin, admin))
}
