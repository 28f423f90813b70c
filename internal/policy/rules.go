package policy

import (
	"net/http"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

type key struct {
	resource models.Resource
	action   models.Action
}

// The create rule of every resource with a role-restricted creator admits
// exactly that role set.
var rules = map[key]Predicate{}

func init() {
	readAny := ReadOnlyOr(IsAdmin)

	crud(models.ResourceUsers, IsAdmin, IsAdmin, IsAdmin)
	crud(models.ResourceParents, IsAdmin, IsAdmin, IsAdmin)
	crud(models.ResourceAuditLogs, IsAdmin, deny, deny)

	set(models.ResourceSettings, models.ActionList, readAny)
	set(models.ResourceSettings, models.ActionRetrieve, readAny)
	set(models.ResourceSettings, models.ActionCreate, IsAdmin)
	set(models.ResourceSettings, models.ActionUpdate, IsAdmin)

	for _, r := range []models.Resource{
		models.ResourceSubjects,
		models.ResourceClasses,
		models.ResourceStudents,
		models.ResourceExams,
		models.ResourceTimetables,
		models.ResourceLibraryItems,
		models.ResourceReportCards,
	} {
		crud(r, Authenticated, IsAdmin, IsAdmin)
	}

	crud(models.ResourceGrades, Authenticated, IsTeacher, IsAdminOrTeacher)
	crud(models.ResourceAttendance, Authenticated, IsTeacher, IsAdminOrTeacher)
	crud(models.ResourceHomework, Authenticated, IsTeacher, IsAdminOrTeacher)

	crud(models.ResourceFees, Authenticated, IsAdminOrStaff, IsAdminOrStaff)
	set(models.ResourceFees, models.ActionPay, AnyRole(models.RoleAdmin, models.RoleStaff, models.RoleParent, models.RoleStudent))
	set(models.ResourceFees, models.ActionExport, IsAdminOrStaff)

	crud(models.ResourceAnnouncements, Authenticated, IsAdminOrTeacher, IsAdminOrTeacher)
	crud(models.ResourceMessages, Authenticated, Authenticated, Authenticated)
	crud(models.ResourceLibraryBorrowings, Authenticated, IsAdminOrStaff, IsAdminOrStaff)
	crud(models.ResourceLeaveApplications, Authenticated, IsStudentOrStaff, Authenticated)
	crud(models.ResourceParentFeedback, Authenticated, IsParent, AnyRole(models.RoleAdmin, models.RoleParent))
}

// crud registers read, create and update/delete predicates for a resource.
func crud(r models.Resource, read, create, write Predicate) {
	set(r, models.ActionList, read)
	set(r, models.ActionRetrieve, read)
	set(r, models.ActionCreate, create)
	set(r, models.ActionUpdate, write)
	set(r, models.ActionDelete, write)
}

func set(r models.Resource, a models.Action, pred Predicate) {
	rules[key{resource: r, action: a}] = pred
}

func deny(*models.Principal, string) bool { return false }

// Rule returns the predicate registered for the pair. Unknown pairs deny.
func Rule(r models.Resource, a models.Action) Predicate {
	if pred, ok := rules[key{resource: r, action: a}]; ok {
		return pred
	}
	return deny
}

// Allowed evaluates the rule for (resource, action) against the caller.
func Allowed(p *models.Principal, r models.Resource, a models.Action, method string) bool {
	if p == nil {
		return false
	}
	return Rule(r, a)(p, method)
}

// ActionFor maps an HTTP method on a collection or item route to an action.
func ActionFor(method string, item bool) models.Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		if item {
			return models.ActionRetrieve
		}
		return models.ActionList
	case http.MethodPost:
		return models.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return models.ActionUpdate
	case http.MethodDelete:
		return models.ActionDelete
	}
	return ""
}
