package domain

// CheckPrivilegeChange 只有 SUPERADMIN 能授予/撤销 ADMIN，且不能对自己操作
func CheckPrivilegeChange(actor *Account, targetID string) error {
	if actor == nil || !actor.Roles.Has(RoleSuperadmin) {
		return ErrForbidden
	}
	if actor.ID == targetID {
		return ErrSelfPrivilegeChange
	}
	return nil
}

// PromoteToAdmin 返回新角色集合；SUPERADMIN 成员关系不变
func PromoteToAdmin(target *Account) (RoleSet, error) {
	if target.Roles.HasAny(RoleAdmin, RoleSuperadmin) {
		return nil, ErrAlreadyPrivileged
	}
	return target.Roles.Add(RoleUser, RoleAdmin), nil
}

func RevokeAdmin(target *Account) (RoleSet, error) {
	if !target.Roles.Has(RoleAdmin) {
		return nil, ErrNotAdmin
	}
	return target.Roles.Remove(RoleAdmin).Add(RoleUser), nil
}
