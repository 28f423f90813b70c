package policy

import (
	"net/http"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

// Predicate decides whether a principal may perform a request with the given method.
type Predicate func(p *models.Principal, method string) bool

// Role admits callers holding exactly the given role. Superusers are always admitted.
func Role(role models.Role) Predicate {
	return func(p *models.Principal, _ string) bool {
		return p.Is(role)
	}
}

// AnyRole admits callers holding any of the given roles.
func AnyRole(roles ...models.Role) Predicate {
	return func(p *models.Principal, _ string) bool {
		for _, role := range roles {
			if p.Is(role) {
				return true
			}
		}
		return false
	}
}

// Authenticated admits every authenticated caller.
func Authenticated(p *models.Principal, _ string) bool {
	return p != nil && p.UserID != ""
}

// ReadOnlyOr lets safe methods through for any authenticated caller and
// defers other methods to next.
func ReadOnlyOr(next Predicate) Predicate {
	return func(p *models.Principal, method string) bool {
		if !Authenticated(p, method) {
			return false
		}
		if isSafe(method) {
			return true
		}
		return next(p, method)
	}
}

// Any admits the caller when at least one predicate does.
func Any(preds ...Predicate) Predicate {
	return func(p *models.Principal, method string) bool {
		for _, pred := range preds {
			if pred(p, method) {
				return true
			}
		}
		return false
	}
}

var (
	IsAdmin   = Role(models.RoleAdmin)
	IsTeacher = Role(models.RoleTeacher)
	IsParent  = Role(models.RoleParent)
	IsStudent = Role(models.RoleStudent)
	IsStaff   = Role(models.RoleStaff)

	IsAdminOrTeacher = AnyRole(models.RoleAdmin, models.RoleTeacher)
	IsAdminOrStaff   = AnyRole(models.RoleAdmin, models.RoleStaff)
	IsStudentOrStaff = AnyRole(models.RoleStudent, models.RoleStaff)
)

func isSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
