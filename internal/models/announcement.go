package models

import (
	"strings"
	"time"
)

// Announcement is a notice addressed to one or more roles.
type Announcement struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	TargetRoles string    `db:"target_roles" json:"target_roles"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AnnouncementDetail nests the author summary.
type AnnouncementDetail struct {
	Announcement
	Author UserSummary `db:"author" json:"author"`
}

// TargetsRole reports whether role appears as a whole token in TargetRoles.
func (a *Announcement) TargetsRole(role Role) bool {
	for _, token := range strings.Split(a.TargetRoles, ",") {
		if Role(strings.TrimSpace(token)) == role {
			return true
		}
	}
	return false
}

// JoinRoles renders roles as the comma-delimited target list stored on announcements.
func JoinRoles(roles []Role) string {
	seen := make(map[Role]struct{}, len(roles))
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}

// AnnouncementFilter filters announcement listings.
type AnnouncementFilter struct {
	ListQuery
	TargetRole *Role
}
