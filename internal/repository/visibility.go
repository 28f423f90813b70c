package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

// scopeFunc renders a visibility predicate for a table alias. The returned
// SQL may reference {uid} and {role}, which are bound to the caller.
type scopeFunc func(t string) string

const (
	taughtClasses    = `SELECT ct.class_id FROM class_teachers ct WHERE ct.teacher_id = {uid}`
	taughtStudents   = `SELECT vs.id FROM students vs JOIN class_teachers ct ON ct.class_id = vs.class_id WHERE ct.teacher_id = {uid}`
	ownStudent       = `SELECT vs.id FROM students vs WHERE vs.user_id = {uid}`
	ownClass         = `SELECT vs.class_id FROM students vs WHERE vs.user_id = {uid}`
	childStudents    = `SELECT sp.student_id FROM student_parents sp WHERE sp.parent_id = {uid}`
	childClasses     = `SELECT vs.class_id FROM students vs JOIN student_parents sp ON sp.student_id = vs.id WHERE sp.parent_id = {uid}`
	ownParentProfile = `SELECT pa.id FROM parents pa WHERE pa.user_id = {uid}`
)

func everyone(string) string { return "TRUE" }

func column(col, subquery string) scopeFunc {
	return func(t string) string {
		return fmt.Sprintf("%s.%s IN (%s)", t, col, subquery)
	}
}

func equalsCaller(col string) scopeFunc {
	return func(t string) string {
		return fmt.Sprintf("%s.%s = {uid}", t, col)
	}
}

func either(a, b scopeFunc) scopeFunc {
	return func(t string) string {
		return fmt.Sprintf("(%s OR %s)", a(t), b(t))
	}
}

func targetsCallerRole(t string) string {
	return fmt.Sprintf("(',' || replace(%s.target_roles, ' ', '') || ',') LIKE ('%%,' || {role} || ',%%')", t)
}

// visibilityRules holds one canonical rule per (resource, role). Admins see
// everything unless an admin entry narrows it; any other missing entry is the
// empty set.
var visibilityRules = map[models.Resource]map[models.Role]scopeFunc{
	models.ResourceUsers: {
		models.RoleAdmin: func(t string) string { return "NOT " + t + ".is_superuser" },
	},
	models.ResourceSubjects:     allRoles(),
	models.ResourceExams:        allRoles(),
	models.ResourceLibraryItems: allRoles(),
	models.ResourceClasses: {
		models.RoleTeacher: column("id", taughtClasses),
		models.RoleStudent: column("id", ownClass),
		models.RoleParent:  column("id", childClasses),
		models.RoleStaff:   everyone,
	},
	models.ResourceStudents: {
		models.RoleTeacher: column("id", taughtStudents),
		models.RoleStudent: equalsCaller("user_id"),
		models.RoleParent:  column("id", childStudents),
		models.RoleStaff:   everyone,
	},
	models.ResourceGrades: {
		models.RoleTeacher: either(column("student_id", taughtStudents), equalsCaller("created_by")),
		models.RoleStudent: column("student_id", ownStudent),
		models.RoleParent:  column("student_id", childStudents),
	},
	models.ResourceAttendance: {
		models.RoleTeacher: either(column("class_id", taughtClasses), equalsCaller("created_by")),
		models.RoleStudent: column("student_id", ownStudent),
		models.RoleParent:  column("student_id", childStudents),
	},
	models.ResourceFees: {
		models.RoleStaff:   equalsCaller("created_by"),
		models.RoleStudent: column("student_id", ownStudent),
		models.RoleParent:  column("student_id", childStudents),
	},
	models.ResourceAnnouncements: {
		models.RoleTeacher: either(targetsCallerRole, equalsCaller("created_by")),
		models.RoleStudent: targetsCallerRole,
		models.RoleParent:  targetsCallerRole,
		models.RoleStaff:   targetsCallerRole,
	},
	models.ResourceMessages: forRoles(func(t string) string {
		return fmt.Sprintf("(%[1]s.sender_id = {uid} OR %[1]s.receiver_id = {uid})", t)
	}, models.RoleTeacher, models.RoleStudent, models.RoleParent, models.RoleStaff),
	models.ResourceTimetables: {
		models.RoleTeacher: column("class_id", taughtClasses),
		models.RoleStudent: column("class_id", ownClass),
		models.RoleParent:  column("class_id", childClasses),
	},
	models.ResourceHomework: {
		models.RoleTeacher: either(column("class_id", taughtClasses), equalsCaller("created_by")),
		models.RoleStudent: column("class_id", ownClass),
		models.RoleParent:  column("class_id", childClasses),
	},
	models.ResourceLibraryBorrowings: {
		models.RoleStaff:   equalsCaller("created_by"),
		models.RoleStudent: column("student_id", ownStudent),
		models.RoleParent:  column("student_id", childStudents),
	},
	models.ResourceLeaveApplications: forRoles(equalsCaller("user_id"),
		models.RoleTeacher, models.RoleStudent, models.RoleParent, models.RoleStaff),
	models.ResourceReportCards: {
		models.RoleStudent: column("student_id", ownStudent),
		models.RoleParent:  column("student_id", childStudents),
	},
	models.ResourceParentFeedback: {
		models.RoleParent: column("parent_id", ownParentProfile),
	},
}

func allRoles() map[models.Role]scopeFunc {
	return forRoles(everyone, models.RoleTeacher, models.RoleStudent, models.RoleParent, models.RoleStaff)
}

func forRoles(fn scopeFunc, roles ...models.Role) map[models.Role]scopeFunc {
	out := make(map[models.Role]scopeFunc, len(roles))
	for _, r := range roles {
		out[r] = fn
	}
	return out
}

// visibilityScope returns the SQL predicate limiting resource rows to the
// caller, with placeholders numbered after offset existing arguments. An
// empty clause means no restriction.
func visibilityScope(resource models.Resource, p *models.Principal, alias string, offset int) (string, []interface{}) {
	if p == nil || p.UserID == "" {
		return "FALSE", nil
	}
	if p.Superuser {
		return "", nil
	}
	fn, ok := visibilityRules[resource][p.Role]
	if !ok {
		if p.Role == models.RoleAdmin {
			return "", nil
		}
		return "FALSE", nil
	}
	clause := fn(alias)
	if clause == "TRUE" {
		return "", nil
	}

	var args []interface{}
	bind := func(token string, value interface{}) {
		if !strings.Contains(clause, token) {
			return
		}
		args = append(args, value)
		clause = strings.ReplaceAll(clause, token, fmt.Sprintf("$%d", offset+len(args)))
	}
	bind("{uid}", p.UserID)
	bind("{role}", string(p.Role))
	return clause, args
}
