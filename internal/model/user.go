package model

import "time"

// User represents a login account as stored in the `users` table. Users exist
// for authentication and authorization only; the optional PersonID links the
// account to a person record (doctor, staff member or patient). The json tags
// are omitted because these structs are used internally by the repository and
// auth layers; handlers define their own response types.
//
// Fields:
//  ID               – opaque UUID primary key of the user.
//  Email            – unique, lowercased email address used as the login name.
//  PasswordHash     – bcrypt hash of the password; never the plaintext.
//  IsActive         – whether the account may be used.
//  IsSuperuser      – grants access to administrative endpoints.
//  PersonID         – optional reference into the people table.
//  RefreshTokenHash – bcrypt hash of the single outstanding refresh token,
//                     nil when the user has no live session (logged out or
//                     revoked). Written only by the token manager and the
//                     registration/seed path.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               string     // users.id (CHAR(36) UUID)
	Email            string     // users.email
	PasswordHash     string     // users.password_hash
	IsActive         bool       // users.is_active
	IsSuperuser      bool       // users.is_superuser
	PersonID         *uint64    // users.person_id (nullable)
	RefreshTokenHash *string    // users.refresh_token_hash (nullable)
	CreatedAt        time.Time  // users.created_at
	UpdatedAt        time.Time  // users.updated_at
}
