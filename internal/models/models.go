package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleWriter Role = "Writer"
	RoleEditor Role = "Editor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWriter, RoleEditor:
		return true
	}
	return false
}

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
	StatusDisabled  Status = "Disabled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusDisabled:
		return true
	}
	return false
}

type User struct {
	UUID         uuid.UUID `json:"uuid" db:"uuid"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type Post struct {
	UUID      uuid.UUID `json:"uuid" db:"uuid"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	Status    Status    `json:"status" db:"status"`
	Raw       string    `json:"raw" db:"raw"`
	HTML      string    `json:"html" db:"html"`
	CreatedBy uuid.UUID `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Tags      []Tag     `json:"tags" db:"-"`
}

type Tag struct {
	UUID      uuid.UUID `json:"uuid" db:"uuid"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type PostTag struct {
	UUID     uuid.UUID `db:"uuid"`
	PostUUID uuid.UUID `db:"post_uuid"`
	TagUUID  uuid.UUID `db:"tag_uuid"`
}

// Upload is a stored object. StorageKey addresses the blob and is never
// derived from Filename.
type Upload struct {
	UUID        uuid.UUID `json:"uuid" db:"uuid"`
	Filename    string    `json:"filename" db:"filename"`
	ContentType string    `json:"contentType" db:"content_type"`
	StorageKey  string    `json:"-" db:"storage_key"`
	CreatedBy   uuid.UUID `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
