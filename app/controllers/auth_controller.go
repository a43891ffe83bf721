package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/env"
	"github.com/monowartv/iptv-backend/internal/pkg/response"
	"github.com/monowartv/iptv-backend/internal/pkg/security"
	"github.com/monowartv/iptv-backend/internal/pkg/usercontext"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	// Identifier is either the account email or the subscriber id.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func authSecret() []byte {
	return []byte(env.GetEnv("JWT_SECRET", ""))
}

// HandleRegister creates a new account, assigns the next subscriber id and
// provisions the default free subscription.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()

	if _, err := repos.User.GetByEmail(req.Email); err == nil {
		return response.Fail(c, fiber.StatusConflict, "Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.Fail(c, fiber.StatusInternalServerError, "Registration failed")
	}

	sid, err := repos.User.NextSID()
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Registration failed")
	}

	user, err := models.CreateUser(sid, req.Name, req.Email, req.Password)
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid registration data: "+err.Error())
	}
	user.Phone = req.Phone

	if err := repos.User.Create(user); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Registration failed")
	}
	// every account starts on the free tier
	if _, err := repos.Subscription.GetOrCreateFree(user.ID); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Registration failed")
	}

	token, err := security.IssueAuthToken(authSecret(), user.ID, user.Role)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Registration failed")
	}

	return response.OK(c, fiber.StatusCreated, "Registration successful", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// completeLogin checks the password, stamps the login and issues a token.
// The answer for an unknown account and a wrong password is identical.
func completeLogin(c *fiber.Ctx, user *models.User, lookupErr error, password string) error {
	repos := repository.GetGlobalRepositories()

	if lookupErr != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if !user.CheckPassword(password) {
		return response.Fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if !user.IsActive() {
		return response.Fail(c, fiber.StatusForbidden, "Account is not active")
	}

	user.TouchLastLogin()
	if err := repos.User.Update(user); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Login failed")
	}

	token, err := security.IssueAuthToken(authSecret(), user.ID, user.Role)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Login failed")
	}

	return response.OK(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleLogin authenticates by email or subscriber id.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Identifier == "" || req.Password == "" {
		return response.Fail(c, fiber.StatusBadRequest, "Identifier and password are required")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByEmail(req.Identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = repos.User.GetBySID(req.Identifier)
	}
	return completeLogin(c, user, err, req.Password)
}

// HandleEmailLogin authenticates strictly by email.
func HandleEmailLogin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return response.Fail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	user, err := repository.GetGlobalRepositories().User.GetByEmail(req.Email)
	return completeLogin(c, user, err, req.Password)
}

// HandleSIDLogin authenticates strictly by subscriber id.
func HandleSIDLogin(c *fiber.Ctx) error {
	var req struct {
		SID      string `json:"sid"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.SID == "" || req.Password == "" {
		return response.Fail(c, fiber.StatusBadRequest, "SID and password are required")
	}

	user, err := repository.GetGlobalRepositories().User.GetBySID(req.SID)
	return completeLogin(c, user, err, req.Password)
}

// HandleProfile returns the authenticated user with their current subscription.
func HandleProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		return response.Fail(c, fiber.StatusNotFound, "User not found")
	}
	sub, err := repos.Subscription.GetOrCreateFree(user.ID)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load subscription")
	}

	return response.OK(c, fiber.StatusOK, "Profile loaded", fiber.Map{
		"user":         user,
		"subscription": sub,
	})
}

// HandleUpdateProfile updates the mutable profile fields.
func HandleUpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Name   string `json:"name"`
		Phone  string `json:"phone"`
		Avatar string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(usercontext.GetUserID(c))
	if err != nil {
		return response.Fail(c, fiber.StatusNotFound, "User not found")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if err := user.Validate(); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid profile data: "+err.Error())
	}
	if err := repos.User.Update(user); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	return response.OK(c, fiber.StatusOK, "Profile updated", user)
}

// HandleChangePassword verifies the current password and sets a new one.
func HandleChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(req.NewPassword) < 6 {
		return response.Fail(c, fiber.StatusBadRequest, "New password must be at least 6 characters")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(usercontext.GetUserID(c))
	if err != nil {
		return response.Fail(c, fiber.StatusNotFound, "User not found")
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return response.Fail(c, fiber.StatusUnauthorized, "Current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to change password")
	}
	if err := repos.User.Update(user); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to change password")
	}

	return response.OK(c, fiber.StatusOK, "Password changed", nil)
}

// HandleCheckSID reports whether a subscriber id is taken.
func HandleCheckSID(c *fiber.Ctx) error {
	sid := c.Params("sid")
	exists, err := repository.GetGlobalRepositories().User.SIDExists(sid)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Lookup failed")
	}
	return response.OK(c, fiber.StatusOK, "SID checked", fiber.Map{
		"sid":    sid,
		"exists": exists,
	})
}

// HandleLogout acknowledges a logout. Bearer tokens are stateless; clients
// drop the token.
func HandleLogout(c *fiber.Ctx) error {
	return response.OK(c, fiber.StatusOK, "Logout successful", nil)
}
