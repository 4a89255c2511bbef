package routes

import (
	"time"

	"pizza-storefront/controllers"
	"pizza-storefront/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options tunes route-level middleware.
type Options struct {
	AllowedOrigins []string
	OrderLimiter   *middleware.RateLimiter
	AdminToken     string
}

// RegisterStorefrontRoutes sets up the page, the JSON API and, when an admin
// token is configured, the operator endpoints.
func RegisterStorefrontRoutes(r *gin.Engine, sc *controllers.StorefrontController, opts Options) {
	r.GET("/health", sc.Health)

	placeOrder := []gin.HandlerFunc{}
	if opts.OrderLimiter != nil {
		placeOrder = append(placeOrder, opts.OrderLimiter.Middleware())
	}

	// HTML page and its form posts
	r.GET("/", sc.Page)
	r.POST("/cart/add", sc.AddToCartForm)
	r.POST("/order", append(placeOrder, sc.PlaceOrderForm)...)

	api := r.Group("/api")
	api.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	api.GET("/menu", sc.Menu)
	api.GET("/cart", sc.Cart)
	api.POST("/cart/items", sc.AddToCart)
	api.POST("/orders", append(placeOrder, sc.PlaceOrder)...)

	if opts.AdminToken == "" {
		return
	}
	admin := r.Group("/admin")
	admin.Use(middleware.AdminToken(opts.AdminToken))
	admin.POST("/menu/seed", sc.SeedMenu)
	admin.POST("/menu/reload", sc.ReloadMenu)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
