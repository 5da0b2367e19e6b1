package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetledger/internal/auth"
	"fleetledger/internal/domain"
	"fleetledger/internal/store"
)

type AuthHandler struct {
	users *store.UserStore
}

func NewAuthHandler(users *store.UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// dummyPasswordHash is compared against on an unknown-email login so the
// unknown-email, wrong-password, and inactive-account outcomes all run the
// same Argon2 comparison and take indistinguishable time.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=3,p=2$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Login validates an operator's credentials and issues a JWT carrying
// userId/email/roles — the only per-request claims Authenticate needs, so
// the middleware chain never re-queries the database to authorize a route.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	user, lookupErr := h.users.ByEmail(ctx, req.Email)

	passwordHash := dummyPasswordHash
	if lookupErr == nil {
		passwordHash = user.PasswordHash
	}
	ok, err := auth.ComparePassword(req.Password, passwordHash)
	if err != nil {
		RespondError(c, err)
		return
	}
	if lookupErr != nil || !ok || user.Status != "ACTIVE" {
		RespondError(c, domain.NewError(domain.CodeUnauthenticated, "invalid email or password"))
		return
	}

	token, err := auth.IssueToken(user.ID, user.Email, user.Roles)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{
		"accessToken": token,
		"userId":      user.ID,
		"email":       user.Email,
		"roles":       user.Roles,
	})
}
