package models

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex" json:"name"`
}
