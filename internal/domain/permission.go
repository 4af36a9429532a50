package domain

// CanModify 判断 actor 能否修改/删除 target。
// 自己总是可以；普通用户不能动别人；ADMIN 不能动 ADMIN/SUPERADMIN；SUPERADMIN 不受限。
func CanModify(actor, target *Account) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.ID == target.ID {
		return true
	}
	if !actor.Roles.HasAny(RoleAdmin, RoleSuperadmin) {
		return false
	}
	if actor.Roles.Has(RoleSuperadmin) {
		return true
	}
	return !target.Roles.HasAny(RoleAdmin, RoleSuperadmin)
}

// CheckDelete 删除专用闸门：superadmin 不允许删除自己
func CheckDelete(actor, target *Account) error {
	if actor != nil && target != nil && actor.ID == target.ID {
		if target.Roles.Has(RoleSuperadmin) {
			return ErrSuperadminProtected
		}
		return nil
	}
	if !CanModify(actor, target) {
		return ErrForbidden
	}
	return nil
}
