package router

import (
	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/auth"
	"github.com/grandiv/novalance-be/internal/config"
	"github.com/grandiv/novalance-be/internal/handler"
	"github.com/grandiv/novalance-be/internal/middleware"
	"github.com/grandiv/novalance-be/internal/vault"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, vaultClient *vault.Client, issuer *auth.SessionIssuer, cfg *config.Config) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "novalance-be",
		})
	})

	authHandler := handler.NewAuthHandler(db, issuer)
	userHandler := handler.NewUserHandler(db)
	projectHandler := handler.NewProjectHandler(db, vaultClient)
	roleHandler := handler.NewRoleHandler(db)
	kpiHandler := handler.NewKpiHandler(db)
	applicationHandler := handler.NewApplicationHandler(db)
	earningsHandler := handler.NewEarningsHandler(db)
	transactionHandler := handler.NewTransactionHandler(db)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 公开路由
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/nonce", authHandler.RequestNonce)
			authGroup.POST("/verify", authHandler.VerifySignature)
		}

		v1.GET("/projects", projectHandler.GetProjects)
		v1.GET("/projects/:id", projectHandler.GetProject)
		v1.GET("/projects/:id/roles", roleHandler.GetProjectRoles)
		v1.GET("/roles/:id", roleHandler.GetRole)

		// 认证路由
		authed := v1.Group("")
		authed.Use(middleware.Auth(issuer))
		{
			authed.GET("/users/me", userHandler.GetMe)
			authed.PUT("/users/me", userHandler.UpdateMe)

			authed.POST("/projects", projectHandler.CreateProject)
			authed.PUT("/projects/:id", projectHandler.UpdateProject)
			authed.DELETE("/projects/:id", projectHandler.DeleteProject)
			authed.POST("/projects/:id/vault", projectHandler.LinkVault)
			authed.GET("/projects/:id/balance", projectHandler.GetProjectBalance)
			authed.GET("/projects/:id/transactions", transactionHandler.GetProjectTransactions)

			authed.POST("/roles", roleHandler.CreateRole)
			authed.PUT("/roles/:id", roleHandler.UpdateRole)
			authed.DELETE("/roles/:id", roleHandler.CancelRole)
			authed.POST("/roles/:id/kpis", roleHandler.CreateKpis)
			authed.GET("/roles/:id/kpis", kpiHandler.GetRoleKpis)
			authed.GET("/roles/:id/applications", applicationHandler.GetRoleApplications)

			authed.POST("/kpis/:id/submit", kpiHandler.SubmitKpi)
			authed.POST("/kpis/:id/approve", kpiHandler.ApproveKpi)
			authed.POST("/kpis/:id/reject", kpiHandler.RejectKpi)
			authed.POST("/kpis/:id/confirm", kpiHandler.ConfirmKpi)
			authed.POST("/kpis/:id/deposit", kpiHandler.RecordDeposit)
			authed.POST("/kpis/:id/payout", kpiHandler.RecordPayout)

			authed.POST("/applications", applicationHandler.Apply)
			authed.GET("/applications/mine", applicationHandler.GetMyApplications)
			authed.POST("/applications/:id/withdraw", applicationHandler.Withdraw)
			authed.POST("/applications/:id/accept", applicationHandler.Accept)
			authed.POST("/applications/:id/reject", applicationHandler.Reject)

			authed.GET("/balance", earningsHandler.GetBalance)
			authed.GET("/earnings", earningsHandler.GetEarnings)
			authed.GET("/earnings/history", earningsHandler.GetEarningsHistory)
		}
	}

	return r
}
