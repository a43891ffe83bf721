package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/monowartv/iptv-backend/app/controllers"
	"github.com/monowartv/iptv-backend/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 300}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "IPTV API",
		})
	})

	v1 := api.Group("/v1")

	// user
	user := v1.Group("/user")
	user.Post("/register", controllers.HandleRegister)
	user.Post("/login", controllers.HandleLogin)
	user.Post("/email-login", controllers.HandleEmailLogin)
	user.Post("/sid-login", controllers.HandleSIDLogin)
	user.Get("/check-sid/:sid", controllers.HandleCheckSID)
	user.Get("/profile", middleware.RequireAuth, controllers.HandleProfile)
	user.Put("/profile", middleware.RequireAuth, controllers.HandleUpdateProfile)
	user.Put("/change-password", middleware.RequireAuth, controllers.HandleChangePassword)
	user.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)
	user.Get("/watch-history", middleware.RequireAuth, controllers.HandleMyWatchHistory)
	user.Delete("/watch-history", middleware.RequireAuth, controllers.HandleClearWatchHistory)

	userAdmin := user.Group("/admin", middleware.RequireAuth, middleware.RequireAdmin)
	userAdmin.Get("/", controllers.HandleAdminListUsers)
	userAdmin.Get("/:id", controllers.HandleAdminGetUser)
	userAdmin.Get("/:id/stats", controllers.HandleAdminUserStats)
	userAdmin.Put("/:id", controllers.HandleAdminUpdateUser)
	userAdmin.Delete("/:id", controllers.HandleAdminDeleteUser)

	// otp
	otp := v1.Group("/otp")
	otp.Post("/send", controllers.HandleSendOtp)
	otp.Post("/verify", controllers.HandleVerifyOtp)
	otp.Post("/resend", controllers.HandleResendOtp)

	// category
	category := v1.Group("/category")
	category.Get("/", controllers.HandleListCategories)
	category.Get("/slug/:slug", controllers.HandleGetCategoryBySlug)
	category.Get("/admin/all", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminListCategories)
	category.Post("/", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminCreateCategory)
	category.Put("/:id/status", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminUpdateCategoryStatus)
	category.Put("/:id", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminUpdateCategory)
	category.Delete("/:id", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminDeleteCategory)
	category.Get("/:id", controllers.HandleGetCategory)

	// channel; verify-token carries its own signed token instead of a bearer
	// header so video players can call it directly
	channel := v1.Group("/channel")
	channel.Get("/", controllers.HandleListChannels)
	channel.Get("/free", controllers.HandleFreeChannels)
	channel.Get("/search", controllers.HandleSearchChannels)
	channel.Get("/category/:categoryId", middleware.RequireAuth, controllers.HandleChannelsByCategory)
	channel.Get("/admin/:id", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminGetChannel)
	channel.Post("/", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminCreateChannel)
	channel.Get("/:id/verify-token", controllers.HandlePlayChannel)
	channel.Get("/:id/stream", middleware.RequireAuth, controllers.HandleStreamChannel)
	channel.Get("/:id/analytics", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminChannelAnalytics)
	channel.Put("/:id/status", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminUpdateChannelStatus)
	channel.Put("/:id/online-status", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminUpdateChannelOnline)
	channel.Put("/:id", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminUpdateChannel)
	channel.Delete("/:id", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminDeleteChannel)
	channel.Get("/:id", middleware.RequireAuth, controllers.HandleGetChannel)

	// subscription
	subscription := v1.Group("/subscription")
	subscription.Get("/plans", controllers.HandleListPlans)
	subscription.Get("/my-subscription", middleware.RequireAuth, controllers.HandleMySubscription)
	subscription.Get("/history", middleware.RequireAuth, controllers.HandleSubscriptionHistory)
	subscription.Post("/subscribe", middleware.RequireAuth, controllers.HandleSubscribe)
	subscription.Post("/activate", middleware.RequireAuth, controllers.HandleActivateSubscription)
	subscription.Post("/cancel", middleware.RequireAuth, controllers.HandleCancelSubscription)
	subscription.Post("/renew", middleware.RequireAuth, controllers.HandleRenewSubscription)
	subscription.Post("/manual-payment", middleware.RequireAuth, controllers.HandleSubmitManualPayment)

	subAdmin := subscription.Group("/admin", middleware.RequireAuth, middleware.RequireAdmin)
	subAdmin.Get("/", controllers.HandleAdminListSubscriptions)
	subAdmin.Get("/stats", controllers.HandleAdminSubscriptionStats)
	subAdmin.Get("/manual-payments", controllers.HandleAdminListManualPayments)
	subAdmin.Post("/manual-payments/:id/review", controllers.HandleAdminReviewManualPayment)
	subAdmin.Get("/:id", controllers.HandleAdminGetSubscription)
	subAdmin.Put("/:id", controllers.HandleAdminUpdateSubscription)
	subAdmin.Delete("/:id", controllers.HandleAdminDeleteSubscription)

	// payment
	payment := v1.Group("/payment")
	payment.Post("/webhook", controllers.HandlePaymentWebhook)
	payment.Post("/create", middleware.RequireAuth, controllers.HandleCreatePayment)
	payment.Get("/history", middleware.RequireAuth, controllers.HandlePaymentHistory)
	payment.Get("/status/:txn_id", middleware.RequireAuth, controllers.HandlePaymentStatus)
	payment.Get("/admin/all", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminListPayments)
	payment.Put("/:id/status", middleware.RequireAuth, middleware.RequireAdmin, controllers.HandleAdminUpdatePaymentStatus)
	payment.Get("/:id", middleware.RequireAuth, controllers.HandleGetPayment)

	// watch history
	watch := v1.Group("/watch-history", middleware.RequireAuth)
	watch.Get("/my-history", controllers.HandleMyWatchHistory)
	watch.Post("/add", controllers.HandleAddWatchEntry)
	watch.Get("/stats/my-stats", controllers.HandleMyWatchStats)
	watch.Get("/admin/all", middleware.RequireAdmin, controllers.HandleAdminListWatchHistory)
	watch.Get("/admin/channel/:id/analytics", middleware.RequireAdmin, controllers.HandleAdminChannelAnalytics)
	watch.Put("/:id/duration", controllers.HandleUpdateWatchDuration)
	watch.Delete("/clear", controllers.HandleClearWatchHistory)
	watch.Delete("/:id", controllers.HandleDeleteWatchEntry)
}
