package router

import (
	stdhttp "net/http"

	intconfig "backoffice/internal/config"
	h "backoffice/internal/http/handlers"
	"backoffice/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter mounts the admin gateway on a fresh gin engine.
func NewRouter(env intconfig.Env, hd *h.Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", hd.Health)
		api.GET("/routes", hd.Routes)

		requireSession := middleware.RequireSession(hd.Tokens, hd.CallerActive)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", hd.Login)
		auth.GET("/identity/url", hd.IdentityURL)
		auth.POST("/identity/callback", hd.IdentityCallback)
		auth.POST("/logout", requireSession, hd.Logout)
		auth.GET("/session", requireSession, hd.Session)
		auth.GET("/me", requireSession, hd.Me)

		secured := api.Group("")
		secured.Use(requireSession)

		secured.GET("/cabinet/orders", hd.ListCabinetOrders)

		// CNAM
		cnam := secured.Group("/cnam-orders")
		cnam.GET("", hd.ListCnamOrders)
		cnam.POST("", hd.CreateCnamOrder)
		cnam.PUT("/:id", hd.UpdateCnamOrder)
		cnam.DELETE("/:id", hd.DeleteCnamOrder)
		cnam.GET("/:id/invoice", hd.CnamInvoicePDF)
		cnam.GET("/:id/card", hd.CnamCardPDF)

		// Essafwa
		essafwa := secured.Group("/essafwa-orders")
		essafwa.GET("", hd.ListEssafwaOrders)
		essafwa.POST("", hd.CreateEssafwaOrder)
		essafwa.PUT("/:id", hd.UpdateEssafwaOrder)
		essafwa.DELETE("/:id", hd.DeleteEssafwaOrder)
		essafwa.GET("/:id/invoice", hd.EssafwaInvoicePDF)
		essafwa.POST("/:id/send-invoice", hd.SendEssafwaInvoice)
		essafwa.POST("/:id/pay", hd.PayEssafwaOrder)

		// Glasses
		glasses := secured.Group("/glasses-orders")
		glasses.GET("", hd.ListGlassesOrders)
		glasses.POST("", hd.CreateGlassesOrder)
		glasses.POST("/:id/send-invoice", hd.SendGlassesInvoice)

		// Optics
		adminOnly := middleware.RequireRoles(hd.HasRole, "admin", "superadmin")
		optics := secured.Group("/optics")
		optics.GET("", hd.ListOptics)
		optics.PUT("/:id/auto-validate", adminOnly, hd.SetOpticAutoValidate)
		optics.POST("/:id/activate", adminOnly, hd.ActivateOptic)
		optics.POST("/:id/deactivate", adminOnly, hd.DeactivateOptic)
		optics.POST("/:id/orders/paid", hd.MarkOpticOrdersPaid)
		secured.POST("/optic-orders/:id/validate", hd.ValidateOpticOrder)

		// Categories
		secured.GET("/categories", hd.ListCategories)
		secured.GET("/categories/existing", hd.ListExistingCategories)

		// Marketing
		marketing := secured.Group("/marketing")
		marketing.GET("", hd.ListMarketing)
		marketing.POST("", hd.CreateMarketing)
		marketing.GET("/:id", hd.GetMarketing)
		marketing.PUT("/:id", hd.UpdateMarketing)
		marketing.DELETE("/:id", hd.DeleteMarketing)

		// Files
		files := secured.Group("/files")
		files.GET("/folders", hd.ListFolders)
		files.POST("/folders", hd.CreateFolder)
		files.GET("/files", hd.ListFiles)

		// Reports
		reports := secured.Group("/reports")
		reports.GET("/cnam.pdf", hd.CnamReport)
		reports.GET("/essafwa.pdf", hd.EssafwaReport)
		reports.GET("/glasses.pdf", hd.GlassesReport)
		secured.GET("/dashboard", hd.GetDashboard)
	}

	hd.SetRouter(r)
	return r
}
