package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is an account. MustChangePassword forces a password rotation before
// any document endpoint can be used.
type User struct {
	gorm.Model
	Username           string     `gorm:"uniqueIndex;size:64"`
	PasswordHash       string     `gorm:"size:255"`
	MustChangePassword bool       `gorm:"default:false"`
	Documents          []Document `gorm:"constraint:OnDelete:CASCADE"`
}

// Document is one resume or cover letter owned by a user. Content holds the
// structured payload as JSONB; its shape depends on Type and is validated by
// the document package on every write. gorm.Model's DeletedAt provides soft
// deletion: deleted rows stay recoverable until the purge job removes them.
type Document struct {
	gorm.Model
	Title        string         `gorm:"size:255"`
	Type         string         `gorm:"size:32;index"`
	Status       string         `gorm:"size:32"`
	TemplateKey  string         `gorm:"size:64"`
	Content      datatypes.JSON `gorm:"type:jsonb"`
	UserID       uint           `gorm:"index"`
	User         User           `gorm:"constraint:OnDelete:CASCADE"`
	PdfObjectKey string         `gorm:"size:512"`
}
