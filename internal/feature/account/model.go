package account

import (
	"time"

	"account-service/internal/domain"
)

type AccountModel struct {
	ID           string         `gorm:"primaryKey;type:varchar(36)"`
	Name         string         `gorm:"size:64;not null"`
	Surname      string         `gorm:"size:64;not null"`
	Email        string         `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `gorm:"size:100;not null"`
	IsActive     bool           `gorm:"index;not null;default:true"`
	Roles        domain.RoleSet `gorm:"type:varchar(64);not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AccountModel) TableName() string { return "accounts" }

func (m *AccountModel) ToDomain() *domain.Account {
	return &domain.Account{
		ID:           m.ID,
		Name:         m.Name,
		Surname:      m.Surname,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		Roles:        m.Roles,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
