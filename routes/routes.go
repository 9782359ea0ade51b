package routes

import (
	"context"
	"net/http"
	"time"

	"foodorder/controllers"
	"foodorder/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *controllers.AuthController
	Products  *controllers.ProductController
	Orders    *controllers.OrderController
	Dashboard *controllers.DashboardController

	Authenticator middleware.Authenticator
	// TokenLookup guards the public order tracking route. Optional.
	TokenLookup gin.HandlerFunc
	Metrics     http.Handler
	Health      func(ctx context.Context) error
}

// NewEngine builds the gin engine. The client IP is read from X-Forwarded-For only
// when the peer is one of trustedProxies; with none, the peer address is used.
func NewEngine(trustedProxies []string, middlewares ...gin.HandlerFunc) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}
	r.Use(middlewares...)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}
	r.GET("/healthz", healthz(h.Health))

	authRequired := middleware.AuthMiddleware(h.Authenticator)
	adminOnly := middleware.AdminMiddleware()

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/createadmin", h.Auth.CreateAdmin)
			auth.POST("/logout", authRequired, h.Auth.Logout)
			auth.GET("/me", authRequired, h.Auth.Me)
		}

		products := api.Group("/products")
		{
			products.GET("", h.Products.GetProducts)
			products.GET("/:id", h.Products.GetProductByID)

			admin := products.Group("", authRequired, adminOnly)
			admin.POST("", h.Products.CreateProduct)
			admin.PUT("/:id", h.Products.UpdateProduct)
			admin.DELETE("/:id", h.Products.DeleteProduct)
		}

		orders := api.Group("/orders")
		{
			lookup := []gin.HandlerFunc{h.Orders.GetOrderByToken}
			if h.TokenLookup != nil {
				lookup = append([]gin.HandlerFunc{h.TokenLookup}, lookup...)
			}
			orders.GET("/token/:token", lookup...)

			user := orders.Group("", authRequired)
			user.POST("", h.Orders.CreateOrder)
			user.GET("/mine", h.Orders.GetMyOrders)
			user.GET("/myorders", h.Orders.GetMyOrders)
			user.GET("/:id", h.Orders.GetOrderByID)

			admin := user.Group("", adminOnly)
			admin.GET("", h.Orders.GetOrdersAdmin)
			admin.PUT("/:id/status", h.Orders.UpdateOrderStatus)
		}

		api.GET("/dashboard", authRequired, adminOnly, h.Dashboard.GetStats)
	}
}

func healthz(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
