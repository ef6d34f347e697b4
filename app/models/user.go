package models

import "gorm.io/gorm"

// User is a registered shopper. Emails are stored lower-cased and trimmed,
// and the unique index enforces one account per address.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Address      string `gorm:"type:text" json:"address"`

	Orders []Order `gorm:"foreignKey:UserID" json:"-"`
}
