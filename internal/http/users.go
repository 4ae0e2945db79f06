package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UsersController serves the list of watchlist owners.
type UsersController struct {
	users UserLister
}

func NewUsersController(users UserLister) *UsersController {
	return &UsersController{users: users}
}

// ListUsers handles GET /api/users
func (uc *UsersController) ListUsers(c *gin.Context) {
	users, err := uc.users.ListUsers(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}
