package controllers

import (
	"net/http"
	"sync"

	"pizza-storefront/logger"
	"pizza-storefront/models"
	"pizza-storefront/services"
	"pizza-storefront/web"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorefrontController serves the storefront page and its JSON API.
type StorefrontController struct {
	menu services.MenuService
	cart services.CartService

	// notice is shown once on the next page render.
	mu     sync.Mutex
	notice string
}

// NewStorefrontController creates a new StorefrontController.
func NewStorefrontController(menu services.MenuService, cart services.CartService) *StorefrontController {
	return &StorefrontController{menu: menu, cart: cart}
}

// Page handles GET /.
func (sc *StorefrontController) Page(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, web.IndexTemplate, web.PageData{
		Loading:        sc.menu.Loading(),
		Menu:           sc.menu.Menu(),
		Cart:           sc.cart.Summary(),
		Notice:         sc.takeNotice(),
		IdempotencyKey: uuid.NewString(),
		Sizes:          models.Sizes,
	})
}

// AddToCartForm handles POST /cart/add from the menu buttons.
func (sc *StorefrontController) AddToCartForm(ctx *gin.Context) {
	var req models.AddToCartRequest
	if err := ctx.ShouldBind(&req); err != nil {
		sc.setNotice("Please choose a pizza and a size.")
		ctx.Redirect(http.StatusSeeOther, "/")
		return
	}
	if svcErr := sc.addItem(req); svcErr != nil {
		sc.setNotice(svcErr.Message)
	}
	ctx.Redirect(http.StatusSeeOther, "/")
}

// PlaceOrderForm handles POST /order from the Place Order button.
func (sc *StorefrontController) PlaceOrderForm(ctx *gin.Context) {
	res, svcErr := sc.cart.PlaceOrder(ctx.Request.Context(), ctx.PostForm("idempotency_key"))
	switch {
	case svcErr == services.ErrEmptyCart:
		// nothing to place
	case svcErr != nil:
		logger.Warn(ctx, "Order placement rejected", zap.String("reason", svcErr.Message))
		sc.setNotice(svcErr.Message)
	default:
		sc.setNotice("Order placed! ID: " + res.OrderID)
	}
	ctx.Redirect(http.StatusSeeOther, "/")
}

// Menu handles GET /api/menu.
func (sc *StorefrontController) Menu(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.MenuResponse{
		Loading: sc.menu.Loading(),
		Items:   sc.menu.Menu(),
	})
}

// Cart handles GET /api/cart.
func (sc *StorefrontController) Cart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, sc.cart.Summary())
}

// AddToCart handles POST /api/cart/items.
func (sc *StorefrontController) AddToCart(ctx *gin.Context) {
	var req models.AddToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if svcErr := sc.addItem(req); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, sc.cart.Summary())
}

// PlaceOrder handles POST /api/orders. A replayed Idempotency-Key answers
// 200 with the order id it was first used for.
func (sc *StorefrontController) PlaceOrder(ctx *gin.Context) {
	res, svcErr := sc.cart.PlaceOrder(ctx.Request.Context(), ctx.GetHeader("Idempotency-Key"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	status := http.StatusCreated
	if res.Replay {
		status = http.StatusOK
	}
	ctx.JSON(status, res)
}

// SeedMenu handles POST /admin/menu/seed.
func (sc *StorefrontController) SeedMenu(ctx *gin.Context) {
	if err := sc.menu.Seed(ctx.Request.Context()); err != nil {
		logger.Error(ctx, "Menu seed failed", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Failed to seed menu"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Menu seeded", "items": len(sc.menu.Menu())})
}

// ReloadMenu handles POST /admin/menu/reload.
func (sc *StorefrontController) ReloadMenu(ctx *gin.Context) {
	if err := sc.menu.Reload(ctx.Request.Context()); err != nil {
		logger.Error(ctx, "Menu reload failed", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Failed to reload menu"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Menu reloaded", "items": len(sc.menu.Menu())})
}

// Health handles GET /health.
func (sc *StorefrontController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "OK", "service": "pizza-storefront"})
}

func (sc *StorefrontController) addItem(req models.AddToCartRequest) *services.ServiceError {
	item, ok := sc.menu.FindItem(req.PizzaID)
	if !ok {
		return services.ErrPizzaNotFound
	}
	size, err := models.ParseSize(req.Size)
	if err != nil {
		return &services.ServiceError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}
	return sc.cart.AddToCart(item, size)
}

func (sc *StorefrontController) setNotice(msg string) {
	sc.mu.Lock()
	sc.notice = msg
	sc.mu.Unlock()
}

func (sc *StorefrontController) takeNotice() string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	msg := sc.notice
	sc.notice = ""
	return msg
}
