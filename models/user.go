package models

import (
	"time"
)

// Role IDs as seeded in the roles table.
const (
	RoleResearcher = 1
	RoleReviewer   = 2
	RoleAdmin      = 3
)

type User struct {
	UserID     int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname  string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname  string     `gorm:"column:user_lname" json:"user_lname"`
	Email      string     `gorm:"column:email;unique" json:"email"`
	Password   string     `gorm:"column:password" json:"-"`
	RoleID     int        `gorm:"column:role_id" json:"role_id"`
	FacultyID  *int       `gorm:"column:faculty_id" json:"faculty_id,omitempty"`
	DeptID     *int       `gorm:"column:department_id" json:"department_id,omitempty"`
	Prefix     *string    `gorm:"column:prefix" json:"prefix,omitempty"`
	Tel        *string    `gorm:"column:tel" json:"tel,omitempty"`
	IsActive   bool       `gorm:"column:is_active;default:true" json:"is_active"`
	LastLogin  *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role       Role        `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Faculty    *Faculty    `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Department *Department `gorm:"foreignKey:DeptID" json:"department,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// FullName joins the user's name parts for display and email salutations.
func (u *User) FullName() string {
	name := u.UserFname + " " + u.UserLname
	if u.Prefix != nil && *u.Prefix != "" {
		name = *u.Prefix + " " + name
	}
	return name
}
