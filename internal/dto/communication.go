package dto

// AnnouncementRequest publishes an announcement to a set of roles.
type AnnouncementRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Content     string   `json:"content" validate:"required"`
	TargetRoles []string `json:"target_roles" validate:"required,min=1,dive,oneof=admin teacher parent student staff"`
}

// UpdateAnnouncementRequest modifies an announcement.
type UpdateAnnouncementRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Content     *string  `json:"content" validate:"omitempty,min=1"`
	TargetRoles []string `json:"target_roles" validate:"omitempty,min=1,dive,oneof=admin teacher parent student staff"`
}

// MessageRequest sends a message from the caller.
type MessageRequest struct {
	ReceiverID string `json:"receiver" validate:"required,uuid"`
	Content    string `json:"content" validate:"required"`
}

// UpdateMessageRequest edits the content or toggles the read flag.
type UpdateMessageRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1"`
	Read    *bool   `json:"read"`
}

// ParentFeedbackRequest submits feedback. Admins must name the parent profile;
// parents always submit as themselves.
type ParentFeedbackRequest struct {
	ParentID string `json:"parent" validate:"omitempty,uuid"`
	Content  string `json:"content" validate:"required"`
}

// UpdateParentFeedbackRequest edits feedback.
type UpdateParentFeedbackRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1"`
}
