package utils

import "github.com/google/uuid"

// NewID 账户主键（UUID v4 字符串）
func NewID() string { return uuid.NewString() }

// IsID 校验路径参数是否为合法 UUID
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
