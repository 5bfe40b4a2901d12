package models

import "time"

type Faculty struct {
	FacultyID   int        `gorm:"primaryKey;column:faculty_id" json:"faculty_id"`
	FacultyName string     `gorm:"column:faculty_name" json:"faculty_name"`
	Code        string     `gorm:"column:code" json:"code"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type Department struct {
	DepartmentID   int        `gorm:"primaryKey;column:department_id" json:"department_id"`
	DepartmentName string     `gorm:"column:department_name" json:"department_name"`
	FacultyID      int        `gorm:"column:faculty_id" json:"faculty_id"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Faculty Faculty `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
}

// TableName overrides
func (Faculty) TableName() string {
	return "faculties"
}

func (Department) TableName() string {
	return "departments"
}
