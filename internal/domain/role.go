package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Role 能力等级（封闭枚举）
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperadmin Role = "SUPERADMIN"
)

// 固定顺序：序列化/比较时使用
var roleOrder = map[Role]int{
	RoleUser:       0,
	RoleAdmin:      1,
	RoleSuperadmin: 2,
}

func (r Role) IsValid() bool {
	_, ok := roleOrder[r]
	return ok
}

func (r Role) String() string { return string(r) }

// ParseRole 大小写不敏感
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// RoleSet 角色集合；零值可用（空集）。
// Add/Remove 不修改接收者，返回新集合。
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// ParseRoleSet 解析 "USER,ADMIN" 形式
func ParseRoleSet(s string) (RoleSet, error) {
	out := RoleSet{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, err := ParseRole(part)
		if err != nil {
			return nil, err
		}
		out[r] = struct{}{}
	}
	return out, nil
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

func (s RoleSet) Union(o RoleSet) RoleSet {
	out := make(RoleSet, len(s)+len(o))
	for r := range s {
		out[r] = struct{}{}
	}
	for r := range o {
		out[r] = struct{}{}
	}
	return out
}

func (s RoleSet) Difference(o RoleSet) RoleSet {
	out := make(RoleSet, len(s))
	for r := range s {
		if !o.Has(r) {
			out[r] = struct{}{}
		}
	}
	return out
}

func (s RoleSet) Add(roles ...Role) RoleSet    { return s.Union(NewRoleSet(roles...)) }
func (s RoleSet) Remove(roles ...Role) RoleSet { return s.Difference(NewRoleSet(roles...)) }

func (s RoleSet) Equal(o RoleSet) bool {
	if len(s) != len(o) {
		return false
	}
	for r := range s {
		if !o.Has(r) {
			return false
		}
	}
	return true
}

// Slice 按 USER, ADMIN, SUPERADMIN 排序
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return roleOrder[out[i]] < roleOrder[out[j]] })
	return out
}

func (s RoleSet) String() string {
	parts := make([]string, 0, len(s))
	for _, r := range s.Slice() {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *RoleSet) UnmarshalJSON(b []byte) error {
	var raw []string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := RoleSet{}
	for _, v := range raw {
		r, err := ParseRole(v)
		if err != nil {
			return err
		}
		out[r] = struct{}{}
	}
	*s = out
	return nil
}

// Value 落库为逗号分隔文本，跨 postgres/mysql/sqlite 通用
func (s RoleSet) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s *RoleSet) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = RoleSet{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("roles: unsupported scan type %T", src)
	}
	parsed, err := ParseRoleSet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
