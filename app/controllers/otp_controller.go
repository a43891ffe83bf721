package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/mail"
	"github.com/monowartv/iptv-backend/internal/pkg/response"
)

// HandleSendOtp issues a one-time code to the given email.
func HandleSendOtp(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return response.Fail(c, fiber.StatusBadRequest, "Email is required")
	}

	otp, err := models.NewOtp(req.Email)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to generate code")
	}
	if err := repository.GetGlobalRepositories().Otp.Create(otp); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to generate code")
	}
	if err := mail.SendOtpMail(req.Email, otp.Code); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to send code")
	}

	return response.OK(c, fiber.StatusOK, "Verification code sent", fiber.Map{
		"email":      req.Email,
		"expires_at": otp.ExpiresAt,
	})
}

// HandleVerifyOtp consumes a one-time code.
func HandleVerifyOtp(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Code == "" {
		return response.Fail(c, fiber.StatusBadRequest, "Email and code are required")
	}

	repos := repository.GetGlobalRepositories()
	otp, err := repos.Otp.GetLatestByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusBadRequest, "Invalid or expired code")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Verification failed")
	}
	if !otp.IsRedeemable() || otp.Code != req.Code {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid or expired code")
	}

	otp.Consumed = true
	if err := repos.Otp.Update(otp); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Verification failed")
	}

	return response.OK(c, fiber.StatusOK, "Code verified", fiber.Map{
		"email":    req.Email,
		"verified": true,
	})
}

// HandleResendOtp invalidates nothing and simply issues a fresh code; only
// the newest code per email is ever checked.
func HandleResendOtp(c *fiber.Ctx) error {
	return HandleSendOtp(c)
}
