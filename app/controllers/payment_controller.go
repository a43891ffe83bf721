package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/billing"
	"github.com/monowartv/iptv-backend/internal/pkg/env"
	"github.com/monowartv/iptv-backend/internal/pkg/response"
	"github.com/monowartv/iptv-backend/internal/pkg/security"
	"github.com/monowartv/iptv-backend/internal/pkg/usercontext"
)

// HandleCreatePayment opens a pending payment for a plan purchase.
func HandleCreatePayment(c *fiber.Ctx) error {
	var req struct {
		PlanID     string `json:"plan_id"`
		Method     string `json:"payment_method"`
		CouponCode string `json:"coupon_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	payment, err := billing.GetService().CreatePendingPayment(usercontext.GetUserID(c), req.PlanID, req.Method, req.CouponCode)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPlan) {
			return response.Fail(c, fiber.StatusBadRequest, "Unknown plan")
		}
		return response.Fail(c, fiber.StatusBadRequest, "Failed to create payment: "+err.Error())
	}

	return response.OK(c, fiber.StatusCreated, "Payment created", fiber.Map{
		"payment":    payment,
		"net_amount": payment.NetAmount(),
	})
}

// HandlePaymentHistory lists the viewer's payments.
func HandlePaymentHistory(c *fiber.Ctx) error {
	page, perPage, offset := parsePagination(c)
	filter := repository.PaymentFilter{
		UserID: usercontext.GetUserID(c),
		Status: c.Query("status"),
	}

	repos := repository.GetGlobalRepositories()
	payments, err := repos.Payment.List(filter, offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load payments")
	}
	total, err := repos.Payment.CountFiltered(filter)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load payments")
	}

	return response.OKPaginated(c, fiber.StatusOK, "Payments loaded", payments,
		response.NewPagination(page, perPage, total))
}

// HandleGetPayment returns one payment. Users only see their own.
func HandleGetPayment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid payment id")
	}

	payment, err := repository.GetGlobalRepositories().Payment.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Payment not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load payment")
	}

	userCtx := usercontext.GetUserContext(c)
	if payment.UserID != userCtx.UserID && !userCtx.IsAdmin {
		// do not reveal whether the payment exists
		return response.Fail(c, fiber.StatusNotFound, "Payment not found")
	}

	return response.OK(c, fiber.StatusOK, "Payment loaded", payment)
}

// HandlePaymentStatus looks a payment up by its transaction reference.
func HandlePaymentStatus(c *fiber.Ctx) error {
	txnID := c.Params("txn_id")
	if txnID == "" {
		return response.Fail(c, fiber.StatusBadRequest, "Transaction id is required")
	}

	payment, err := repository.GetGlobalRepositories().Payment.GetByTransactionID(txnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Payment not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load payment")
	}

	userCtx := usercontext.GetUserContext(c)
	if payment.UserID != userCtx.UserID && !userCtx.IsAdmin {
		return response.Fail(c, fiber.StatusNotFound, "Payment not found")
	}

	return response.OK(c, fiber.StatusOK, "Payment status loaded", fiber.Map{
		"transaction_id": payment.TransactionID,
		"status":         payment.Status,
		"amount":         payment.Amount,
		"paid_at":        payment.PaidAt,
	})
}

// HandlePaymentWebhook settles payments from the gateway callback. The body
// must carry a valid signature; requests without one are dropped.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	secret := []byte(env.GetEnv("PAYMENT_WEBHOOK_SECRET", ""))
	signature := c.Get("X-Webhook-Signature")
	if !security.VerifyWebhookSignature(secret, c.Body(), signature) {
		return response.Fail(c, fiber.StatusUnauthorized, "Invalid webhook signature")
	}

	var req struct {
		TransactionID        string `json:"transaction_id"`
		Status               string `json:"status"`
		GatewayTransactionID string `json:"gateway_transaction_id"`
		GatewayResponse      string `json:"gateway_response"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	payment, err := repos.Payment.GetByTransactionID(req.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Payment not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load payment")
	}

	switch req.Status {
	case "success", models.PAYMENT_STATUS_COMPLETED:
		sub, err := billing.GetService().SettlePayment(payment, req.GatewayTransactionID, req.GatewayResponse)
		if err != nil {
			if errors.Is(err, billing.ErrAlreadySettled) {
				// webhooks retry; settling twice is not an error
				return response.OK(c, fiber.StatusOK, "Payment already settled", payment)
			}
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to settle payment")
		}
		return response.OK(c, fiber.StatusOK, "Payment settled", fiber.Map{
			"payment":      payment,
			"subscription": sub,
		})
	case "failed", models.PAYMENT_STATUS_CANCELLED:
		if payment.Status != models.PAYMENT_STATUS_PENDING {
			return response.OK(c, fiber.StatusOK, "Payment already settled", payment)
		}
		payment.Status = models.PAYMENT_STATUS_FAILED
		payment.GatewayResponse = req.GatewayResponse
		if err := repos.Payment.Update(payment); err != nil {
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to update payment")
		}
		return response.OK(c, fiber.StatusOK, "Payment marked failed", payment)
	default:
		return response.Fail(c, fiber.StatusBadRequest, "Unknown payment status")
	}
}

// HandleAdminListPayments lists all payments with filters.
func HandleAdminListPayments(c *fiber.Ctx) error {
	page, perPage, offset := parsePagination(c)
	filter := repository.PaymentFilter{Status: c.Query("status")}
	if v, err := parseQueryUint(c, "user_id"); err == nil {
		filter.UserID = v
	}

	repos := repository.GetGlobalRepositories()
	payments, err := repos.Payment.List(filter, offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load payments")
	}
	total, err := repos.Payment.CountFiltered(filter)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load payments")
	}

	return response.OKPaginated(c, fiber.StatusOK, "Payments loaded", payments,
		response.NewPagination(page, perPage, total))
}

// HandleAdminUpdatePaymentStatus applies a manual status change, enforcing
// the allowed transitions.
func HandleAdminUpdatePaymentStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid payment id")
	}

	var req struct {
		Status       string `json:"status"`
		RefundReason string `json:"refund_reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	payment, err := repos.Payment.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Payment not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load payment")
	}

	if !payment.ValidStatusTransition(req.Status) {
		return response.Fail(c, fiber.StatusConflict, "Invalid status transition")
	}

	if req.Status == models.PAYMENT_STATUS_REFUNDED {
		payment.RefundReason = req.RefundReason
		payment.Status = models.PAYMENT_STATUS_REFUNDED
		now := time.Now()
		payment.RefundedAt = &now
	} else {
		payment.Status = req.Status
	}
	if err := repos.Payment.Update(payment); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update payment")
	}

	return response.OK(c, fiber.StatusOK, "Payment updated", payment)
}
