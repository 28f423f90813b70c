package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

func caller(role models.Role) *models.Principal {
	return &models.Principal{UserID: "u-" + string(role), Role: role}
}

func TestVisibilityScopeAdminAndSuperuser(t *testing.T) {
	clause, args := visibilityScope(models.ResourceGrades, caller(models.RoleAdmin), "g", 0)
	assert.Empty(t, clause)
	assert.Empty(t, args)

	clause, _ = visibilityScope(models.ResourceUsers, caller(models.RoleAdmin), "u", 0)
	assert.Equal(t, "NOT u.is_superuser", clause)

	super := &models.Principal{UserID: "root", Role: models.RoleAdmin, Superuser: true}
	clause, _ = visibilityScope(models.ResourceUsers, super, "u", 0)
	assert.Empty(t, clause)
}

func TestVisibilityScopeMissingEntryIsEmptySet(t *testing.T) {
	clause, args := visibilityScope(models.ResourceGrades, caller(models.RoleStaff), "g", 0)
	assert.Equal(t, "FALSE", clause)
	assert.Empty(t, args)

	clause, _ = visibilityScope(models.ResourceAuditLogs, caller(models.RoleTeacher), "al", 0)
	assert.Equal(t, "FALSE", clause)

	clause, _ = visibilityScope(models.ResourceFees, nil, "f", 0)
	assert.Equal(t, "FALSE", clause)
}

func TestVisibilityScopeBindsCallerAfterOffset(t *testing.T) {
	clause, args := visibilityScope(models.ResourceGrades, caller(models.RoleParent), "g", 2)
	assert.Equal(t, "g.student_id IN (SELECT sp.student_id FROM student_parents sp WHERE sp.parent_id = $3)", clause)
	assert.Equal(t, []interface{}{"u-parent"}, args)

	clause, args = visibilityScope(models.ResourceGrades, caller(models.RoleTeacher), "g", 0)
	assert.Contains(t, clause, "ct.teacher_id = $1")
	assert.Contains(t, clause, "g.created_by = $1")
	assert.Len(t, args, 1)
}

func TestVisibilityScopeEveryoneAddsNothing(t *testing.T) {
	clause, args := visibilityScope(models.ResourceSubjects, caller(models.RoleStudent), "sub", 0)
	assert.Empty(t, clause)
	assert.Empty(t, args)

	clause, _ = visibilityScope(models.ResourceClasses, caller(models.RoleStaff), "c", 0)
	assert.Empty(t, clause)
}

func TestVisibilityScopeAnnouncementsUseRoleTokens(t *testing.T) {
	clause, args := visibilityScope(models.ResourceAnnouncements, caller(models.RoleStudent), "an", 0)
	assert.Equal(t, "(',' || replace(an.target_roles, ' ', '') || ',') LIKE ('%,' || $1 || ',%')", clause)
	assert.Equal(t, []interface{}{"student"}, args)

	clause, args = visibilityScope(models.ResourceAnnouncements, caller(models.RoleTeacher), "an", 0)
	assert.Contains(t, clause, "LIKE ('%,' || $2 || ',%')")
	assert.Contains(t, clause, "an.created_by = $1")
	assert.Equal(t, []interface{}{"u-teacher", "teacher"}, args)
}

func TestFilterSetComposesVisibility(t *testing.T) {
	var f filterSet
	f.add("g.exam_id = $%d", "exam-1")
	f.visible(models.ResourceGrades, caller(models.RoleStudent), "g")
	f.search("alg", "sub.name", "sub.code")

	assert.Equal(t,
		" WHERE g.exam_id = $1 AND g.student_id IN (SELECT vs.id FROM students vs WHERE vs.user_id = $2) AND (LOWER(sub.name) LIKE $3 OR LOWER(sub.code) LIKE $3)",
		f.where())
	assert.Equal(t, []interface{}{"exam-1", "u-student", "%alg%"}, f.args)
}

func TestPageWindowAndOrder(t *testing.T) {
	limit, offset := pageWindow(3, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	limit, offset = pageWindow(0, 500)
	assert.Equal(t, models.DefaultPageSize, limit)
	assert.Equal(t, 0, offset)

	limit, offset = pageWindow(math.MaxInt, models.MaxPageSize)
	assert.Equal(t, models.MaxPageSize, limit)
	assert.Equal(t, (models.MaxPage-1)*models.MaxPageSize, offset)
	assert.Positive(t, offset)

	allowed := map[string]string{"name": "sub.name"}
	assert.Equal(t, "ORDER BY sub.name ASC", orderBy(models.ListQuery{SortBy: "name", SortOrder: "asc"}, allowed, "sub.created_at"))
	assert.Equal(t, "ORDER BY sub.created_at DESC", orderBy(models.ListQuery{SortBy: "password; drop"}, allowed, "sub.created_at"))
}
