package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/platewise/platewise-api/internal/service"
	"github.com/platewise/platewise-api/internal/util"
)

// AttachUserToContext attaches a user to the context.
func AttachUserToContext(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := util.GetUserIDFromContext(c)
		if err != nil {
			c.Set("user", nil)
			c.Next()
			return
		}

		user, err := userService.GetUserByID(userID)
		if err != nil {
			c.Set("user", nil)
		} else {
			c.Set("user", user)
		}
		c.Next()
	}
}
