package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

func principal(role models.Role) *models.Principal {
	return &models.Principal{UserID: "user-" + string(role), Role: role}
}

func admitted(r models.Resource, a models.Action, method string) []models.Role {
	var roles []models.Role
	for _, role := range models.Roles {
		if Allowed(principal(role), r, a, method) {
			roles = append(roles, role)
		}
	}
	return roles
}

func TestCreateRulesMatchCreatorRoles(t *testing.T) {
	cases := map[models.Resource][]models.Role{
		models.ResourceSubjects:          {models.RoleAdmin},
		models.ResourceClasses:           {models.RoleAdmin},
		models.ResourceExams:             {models.RoleAdmin},
		models.ResourceTimetables:        {models.RoleAdmin},
		models.ResourceLibraryItems:      {models.RoleAdmin},
		models.ResourceReportCards:       {models.RoleAdmin},
		models.ResourceSettings:          {models.RoleAdmin},
		models.ResourceGrades:            {models.RoleTeacher},
		models.ResourceAttendance:        {models.RoleTeacher},
		models.ResourceHomework:          {models.RoleTeacher},
		models.ResourceFees:              {models.RoleAdmin, models.RoleStaff},
		models.ResourceLibraryBorrowings: {models.RoleAdmin, models.RoleStaff},
		models.ResourceAnnouncements:     {models.RoleAdmin, models.RoleTeacher},
		models.ResourceLeaveApplications: {models.RoleStudent, models.RoleStaff},
		models.ResourceParentFeedback:    {models.RoleParent},
	}
	for resource, want := range cases {
		assert.Equal(t, want, admitted(resource, models.ActionCreate, http.MethodPost), resource)
	}
}

func TestAdminOnlyResources(t *testing.T) {
	for _, r := range []models.Resource{models.ResourceUsers, models.ResourceParents, models.ResourceAuditLogs} {
		assert.Equal(t, []models.Role{models.RoleAdmin}, admitted(r, models.ActionList, http.MethodGet), r)
	}
}

func TestAuditLogsHaveNoWriteRule(t *testing.T) {
	super := &models.Principal{UserID: "root", Role: models.RoleAdmin, Superuser: true}
	assert.False(t, Allowed(super, models.ResourceAuditLogs, models.ActionCreate, http.MethodPost))
	assert.False(t, Allowed(super, models.ResourceAuditLogs, models.ActionDelete, http.MethodDelete))
}

func TestPayAdmitsPayingRoles(t *testing.T) {
	assert.Equal(t,
		[]models.Role{models.RoleAdmin, models.RoleParent, models.RoleStudent, models.RoleStaff},
		admitted(models.ResourceFees, models.ActionPay, http.MethodPost))
}

func TestUnknownPairDenies(t *testing.T) {
	assert.False(t, Allowed(principal(models.RoleAdmin), models.ResourceMessages, models.ActionPay, http.MethodPost))
	assert.False(t, Allowed(nil, models.ResourceSubjects, models.ActionList, http.MethodGet))
}

func TestReadOnlyOr(t *testing.T) {
	pred := ReadOnlyOr(IsAdmin)
	assert.True(t, pred(principal(models.RoleStudent), http.MethodGet))
	assert.True(t, pred(principal(models.RoleStudent), http.MethodHead))
	assert.False(t, pred(principal(models.RoleStudent), http.MethodPut))
	assert.True(t, pred(principal(models.RoleAdmin), http.MethodPut))
	assert.False(t, pred(&models.Principal{}, http.MethodGet))
}

func TestAnyCombinesPredicates(t *testing.T) {
	pred := Any(IsParent, IsStudent)
	assert.True(t, pred(principal(models.RoleParent), http.MethodPost))
	assert.True(t, pred(principal(models.RoleStudent), http.MethodPost))
	assert.False(t, pred(principal(models.RoleTeacher), http.MethodPost))
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, models.ActionList, ActionFor(http.MethodGet, false))
	assert.Equal(t, models.ActionRetrieve, ActionFor(http.MethodGet, true))
	assert.Equal(t, models.ActionCreate, ActionFor(http.MethodPost, false))
	assert.Equal(t, models.ActionUpdate, ActionFor(http.MethodPatch, true))
	assert.Equal(t, models.ActionUpdate, ActionFor(http.MethodPut, true))
	assert.Equal(t, models.ActionDelete, ActionFor(http.MethodDelete, true))
}
