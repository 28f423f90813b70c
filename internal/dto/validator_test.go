package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorReportsJSONNames(t *testing.T) {
	v := NewValidator()
	marks := 120.0

	err := v.Struct(GradeRequest{StudentID: "not-a-uuid", Marks: &marks})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, "uuid", fields["student"])
	assert.Equal(t, "lte", fields["marks"])
	assert.Equal(t, "required", fields["subject"])
}

func TestValidatorPartialUpdatesSkipAbsentFields(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Struct(UpdateGradeRequest{}))

	zero := 0.0
	assert.NoError(t, v.Struct(UpdateGradeRequest{Marks: &zero}))

	bad := "25:00"
	assert.Error(t, v.Struct(UpdateTimetableRequest{StartTime: &bad}))
}

func TestAnnouncementTargetRolesMustBeKnown(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Struct(AnnouncementRequest{Title: "t", Content: "c", TargetRoles: []string{"student", "parent"}}))
	assert.Error(t, v.Struct(AnnouncementRequest{Title: "t", Content: "c", TargetRoles: []string{"teststudent"}}))
	assert.Error(t, v.Struct(AnnouncementRequest{Title: "t", Content: "c"}))
}
