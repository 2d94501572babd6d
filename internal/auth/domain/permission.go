package domain

import "time"

// Permission is a named capability in the catalog. Entries are immutable
// once registered and are never deleted.
type Permission struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Grant associates a permission with a user, distinct from the
// administrator role bypass.
type Grant struct {
	UserID       string
	PermissionID string
	GrantedBy    string
	GrantedAt    time.Time
}
