package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/policy"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
	"github.com/noah-isme/elite-academy-api/pkg/response"
)

// Authorize checks the policy rule for resource before the handler runs.
// An empty action is derived from the method and whether the route
// addresses a single item.
func Authorize(resource models.Resource, action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		a := action
		if a == "" {
			a = policy.ActionFor(c.Request.Method, c.Param("id") != "")
		}
		if !policy.Allowed(p, resource, a, c.Request.Method) {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "You do not have permission to perform this action."))
			return
		}
		c.Next()
	}
}
