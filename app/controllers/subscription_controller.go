package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/billing"
	"github.com/monowartv/iptv-backend/internal/pkg/response"
	"github.com/monowartv/iptv-backend/internal/pkg/usercontext"
)

// HandleListPlans returns the purchasable plan catalog.
func HandleListPlans(c *fiber.Ctx) error {
	return response.OK(c, fiber.StatusOK, "Plans loaded", models.Plans())
}

// HandleMySubscription returns the viewer's current subscription,
// provisioning the free tier when none exists.
func HandleMySubscription(c *fiber.Ctx) error {
	sub, err := repository.GetGlobalRepositories().Subscription.GetOrCreateFree(usercontext.GetUserID(c))
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load subscription")
	}
	return response.OK(c, fiber.StatusOK, "Subscription loaded", fiber.Map{
		"subscription":   sub,
		"days_remaining": sub.DaysRemaining(),
	})
}

// HandleSubscribe opens a pending payment for a plan. The subscription is
// credited when the payment settles.
func HandleSubscribe(c *fiber.Ctx) error {
	var req struct {
		PlanID     string `json:"plan_id"`
		Method     string `json:"payment_method"`
		CouponCode string `json:"coupon_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Method == "" {
		req.Method = models.PAYMENT_METHOD_BKASH
	}

	payment, err := billing.GetService().CreatePendingPayment(usercontext.GetUserID(c), req.PlanID, req.Method, req.CouponCode)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPlan) {
			return response.Fail(c, fiber.StatusBadRequest, "Unknown plan")
		}
		return response.Fail(c, fiber.StatusBadRequest, "Failed to create payment: "+err.Error())
	}

	return response.OK(c, fiber.StatusCreated, "Payment created, complete it to activate the plan", fiber.Map{
		"payment":    payment,
		"net_amount": payment.NetAmount(),
	})
}

// HandleActivateSubscription settles a pending payment owned by the viewer
// and credits the purchased plan. Used by clients that complete the gateway
// flow themselves instead of waiting for the webhook.
func HandleActivateSubscription(c *fiber.Ctx) error {
	var req struct {
		TransactionID        string `json:"transaction_id"`
		GatewayTransactionID string `json:"gateway_transaction_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.TransactionID == "" {
		return response.Fail(c, fiber.StatusBadRequest, "transaction_id is required")
	}

	repos := repository.GetGlobalRepositories()
	payment, err := repos.Payment.GetByTransactionID(req.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Payment not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Activation failed")
	}
	if payment.UserID != usercontext.GetUserID(c) {
		return response.Fail(c, fiber.StatusNotFound, "Payment not found")
	}

	sub, err := billing.GetService().SettlePayment(payment, req.GatewayTransactionID, "client activation")
	if err != nil {
		if errors.Is(err, billing.ErrAlreadySettled) {
			return response.Fail(c, fiber.StatusConflict, "Payment already settled")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Activation failed")
	}

	return response.OK(c, fiber.StatusOK, "Subscription activated", fiber.Map{
		"payment":      payment,
		"subscription": sub,
	})
}

// HandleRenewSubscription opens a payment that extends the viewer's current
// paid tier.
func HandleRenewSubscription(c *fiber.Ctx) error {
	var req struct {
		PlanID     string `json:"plan_id"`
		Method     string `json:"payment_method"`
		CouponCode string `json:"coupon_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Method == "" {
		req.Method = models.PAYMENT_METHOD_BKASH
	}

	userID := usercontext.GetUserID(c)
	if req.PlanID == "" {
		// default to the cheapest plan of the current tier
		sub, err := repository.GetGlobalRepositories().Subscription.GetCurrentByUser(userID)
		if err != nil || sub.Tier == models.TIER_FREE {
			return response.Fail(c, fiber.StatusBadRequest, "No paid subscription to renew; provide a plan_id")
		}
		for _, p := range models.Plans() {
			if p.Tier == sub.Tier {
				req.PlanID = p.ID
				break
			}
		}
	}

	payment, err := billing.GetService().CreatePendingPayment(userID, req.PlanID, req.Method, req.CouponCode)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPlan) {
			return response.Fail(c, fiber.StatusBadRequest, "Unknown plan")
		}
		return response.Fail(c, fiber.StatusBadRequest, "Failed to create payment: "+err.Error())
	}

	return response.OK(c, fiber.StatusCreated, "Renewal payment created", fiber.Map{
		"payment":    payment,
		"net_amount": payment.NetAmount(),
	})
}

// HandleCancelSubscription cancels the viewer's current subscription. The
// account falls back to the free tier.
func HandleCancelSubscription(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	sub, err := repos.Subscription.GetCurrentByUser(usercontext.GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "No active subscription")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load subscription")
	}
	if sub.Tier == models.TIER_FREE {
		return response.Fail(c, fiber.StatusBadRequest, "Free subscription cannot be cancelled")
	}

	sub.Cancel()
	if err := repos.Subscription.Update(sub); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to cancel subscription")
	}
	// make sure the account still resolves to an entitlement
	if _, err := repos.Subscription.GetOrCreateFree(usercontext.GetUserID(c)); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to cancel subscription")
	}

	return response.OK(c, fiber.StatusOK, "Subscription cancelled", sub)
}

// HandleSubscriptionHistory lists the viewer's past subscription rows.
func HandleSubscriptionHistory(c *fiber.Ctx) error {
	page, perPage, offset := parsePagination(c)
	userID := usercontext.GetUserID(c)

	repos := repository.GetGlobalRepositories()
	subs, err := repos.Subscription.ListByUser(userID, offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load history")
	}
	total, err := repos.Subscription.CountByUser(userID)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load history")
	}

	return response.OKPaginated(c, fiber.StatusOK, "History loaded", subs,
		response.NewPagination(page, perPage, total))
}

// HandleSubmitManualPayment records an offline mobile-money payment claim
// for admin review.
func HandleSubmitManualPayment(c *fiber.Ctx) error {
	var req struct {
		PlanID       string `json:"plan_id"`
		Method       string `json:"payment_method"`
		SenderNumber string `json:"sender_number"`
		Reference    string `json:"transaction_reference"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	plan, ok := models.FindPlan(req.PlanID)
	if !ok {
		return response.Fail(c, fiber.StatusBadRequest, "Unknown plan")
	}

	mp := &models.ManualPayment{
		UserID:       usercontext.GetUserID(c),
		PlanID:       plan.ID,
		Method:       req.Method,
		SenderNumber: req.SenderNumber,
		Reference:    req.Reference,
		Amount:       plan.Price,
		Status:       models.MANUAL_PAYMENT_PENDING,
	}
	if err := mp.Validate(); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid payment data: "+err.Error())
	}
	if err := repository.GetGlobalRepositories().Payment.CreateManual(mp); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to submit payment")
	}

	return response.OK(c, fiber.StatusCreated, "Payment submitted for review", mp)
}

// HandleAdminListSubscriptions lists subscriptions with status/tier filters.
func HandleAdminListSubscriptions(c *fiber.Ctx) error {
	page, perPage, offset := parsePagination(c)
	filter := repository.SubscriptionFilter{
		Status: c.Query("status"),
		Tier:   c.Query("tier"),
	}

	repos := repository.GetGlobalRepositories()
	subs, err := repos.Subscription.List(filter, offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load subscriptions")
	}
	total, err := repos.Subscription.CountFiltered(filter)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load subscriptions")
	}

	return response.OKPaginated(c, fiber.StatusOK, "Subscriptions loaded", subs,
		response.NewPagination(page, perPage, total))
}

// HandleAdminSubscriptionStats returns counts per status.
func HandleAdminSubscriptionStats(c *fiber.Ctx) error {
	counts, err := repository.GetGlobalRepositories().Subscription.CountByStatus()
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load statistics")
	}
	return response.OK(c, fiber.StatusOK, "Statistics loaded", counts)
}

// HandleAdminUpdateSubscription lets an admin adjust a subscription row.
func HandleAdminUpdateSubscription(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid subscription id")
	}

	var req struct {
		Status     string `json:"status"`
		ExtendDays int    `json:"extend_days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	sub, err := repos.Subscription.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Subscription not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load subscription")
	}

	if req.ExtendDays > 0 {
		sub.Extend(req.ExtendDays)
	}
	if req.Status != "" {
		sub.Status = req.Status
	}
	if err := sub.Validate(); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid subscription data: "+err.Error())
	}
	if err := repos.Subscription.Update(sub); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update subscription")
	}

	return response.OK(c, fiber.StatusOK, "Subscription updated", sub)
}

// HandleAdminGetSubscription returns one subscription row.
func HandleAdminGetSubscription(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid subscription id")
	}
	sub, err := repository.GetGlobalRepositories().Subscription.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Subscription not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load subscription")
	}
	return response.OK(c, fiber.StatusOK, "Subscription loaded", fiber.Map{
		"subscription":   sub,
		"days_remaining": sub.DaysRemaining(),
	})
}

// HandleAdminDeleteSubscription removes a subscription row.
func HandleAdminDeleteSubscription(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid subscription id")
	}
	repos := repository.GetGlobalRepositories()
	if _, err := repos.Subscription.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Subscription not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load subscription")
	}
	if err := repos.Subscription.Delete(id); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to delete subscription")
	}
	return response.OK(c, fiber.StatusOK, "Subscription deleted", nil)
}

// HandleAdminListManualPayments lists offline payment claims.
func HandleAdminListManualPayments(c *fiber.Ctx) error {
	page, perPage, offset := parsePagination(c)
	status := c.Query("status")

	repos := repository.GetGlobalRepositories()
	entries, err := repos.Payment.ListManual(status, offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load manual payments")
	}
	total, err := repos.Payment.CountManual(status)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load manual payments")
	}

	return response.OKPaginated(c, fiber.StatusOK, "Manual payments loaded", entries,
		response.NewPagination(page, perPage, total))
}

// HandleAdminReviewManualPayment approves or rejects an offline payment
// claim. Approval credits the referenced plan.
func HandleAdminReviewManualPayment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid payment id")
	}

	var req struct {
		Action string `json:"action"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	mp, err := repos.Payment.GetManualByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Manual payment not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load manual payment")
	}

	reviewerID := usercontext.GetUserID(c)
	switch req.Action {
	case "approve":
		sub, err := billing.GetService().ApproveManualPayment(mp, reviewerID)
		if err != nil {
			if errors.Is(err, billing.ErrAlreadyReviewed) {
				return response.Fail(c, fiber.StatusConflict, "Payment already reviewed")
			}
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to approve payment")
		}
		return response.OK(c, fiber.StatusOK, "Payment approved", fiber.Map{
			"manual_payment": mp,
			"subscription":   sub,
		})
	case "reject":
		if err := billing.GetService().RejectManualPayment(mp, reviewerID, req.Note); err != nil {
			if errors.Is(err, billing.ErrAlreadyReviewed) {
				return response.Fail(c, fiber.StatusConflict, "Payment already reviewed")
			}
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to reject payment")
		}
		return response.OK(c, fiber.StatusOK, "Payment rejected", mp)
	default:
		return response.Fail(c, fiber.StatusBadRequest, "Action must be approve or reject")
	}
}
