package dto

// SchoolSettingsRequest updates the settings singleton.
type SchoolSettingsRequest struct {
	SchoolName   *string `json:"school_name" validate:"omitempty,min=1,max=255"`
	Motto        *string `json:"motto" validate:"omitempty,max=255"`
	Logo         *string `json:"logo" validate:"omitempty,max=500"`
	AcademicYear *int    `json:"academic_year" validate:"omitempty,gte=1900,lte=9999"`
	CurrentTerm  *string `json:"current_term" validate:"omitempty,max=50"`
}
