package models

import (
	"time"
)

// User is created on first successful login callback. The ID is the
// identity provider's subject claim, not something we generate.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Username  string    `gorm:"size:100;not null" json:"username"`
	Email     string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	ImageFile string    `gorm:"size:255;not null;default:'default.jpg'" json:"image_file"`
	Roles     []Role    `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// HasRole reports whether the user holds the named role. Roles must be
// preloaded; the LoadUser middleware always does.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
