// Package models contains the persistent data structures of the
// user-management service.
package models

import "time"

// Role is the authorization label attached to a user. The set of roles is
// fixed and seeded by migrations.
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// User is an account record. PasswordHash holds a bcrypt hash, never the
// plain password. ImageS3Path points at the avatar object in the S3 bucket
// and may be empty.
type User struct {
	ID           string    `json:"user_id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phone_number"`
	Email        string    `json:"email"`
	ImageS3Path  string    `json:"image_s3_path"`
	IsBlocked    bool      `json:"is_blocked"`
	RoleName     Role      `json:"role"`
	GroupID      int64     `json:"group_id"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}
