package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/transport/http/handler"
	"github.com/ErlanBelekov/voltforge-storefront/internal/transport/http/middleware"
)

type Handlers struct {
	Catalog   *handler.CatalogHandler
	Auth      *handler.AuthHandler
	Cart      *handler.CartHandler
	Favorites *handler.FavoritesHandler
	UI        *handler.UIHandler
}

// NewRouter wires every route behind the client middleware, so each handler
// sees a clientID and currentURL.
func NewRouter(logger *slog.Logger, h Handlers, client gin.HandlerFunc, tls bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(tls))
	r.Use(sloggin.NewWithConfig(logger, sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    false,
		Filters:          []sloggin.Filter{sloggin.IgnorePath("/favicon.ico")},
	}))
	r.Use(middleware.Metrics())
	r.Use(client)

	products := r.Group("/products")
	products.GET("", h.Catalog.List)
	products.GET("/search", h.Catalog.Search)
	products.GET("/:id", h.Catalog.Get)

	auth := r.Group("/auth")
	auth.POST("/signup", h.Auth.SignUp)
	auth.POST("/signin", h.Auth.SignIn)
	auth.POST("/signout", h.Auth.SignOut)
	auth.GET("/me", h.Auth.Me)

	cart := r.Group("/cart")
	cart.GET("", h.Cart.Get)
	cart.POST("/items", h.Cart.Add)
	cart.PATCH("/items/:id", h.Cart.UpdateQuantity)
	cart.DELETE("/items/:id", h.Cart.Remove)
	cart.POST("/items/:id/increase", h.Cart.Increase)
	cart.POST("/items/:id/decrease", h.Cart.Decrease)
	cart.POST("/checkout", h.Cart.Checkout)

	favorites := r.Group("/favorites")
	favorites.GET("", h.Favorites.List)
	favorites.PUT("/:id", h.Favorites.Add)
	favorites.DELETE("/:id", h.Favorites.Remove)
	favorites.POST("/:id/toggle", h.Favorites.Toggle)

	ui := r.Group("/ui")
	ui.PUT("/layout", h.UI.Layout)
	ui.POST("/pointer", h.UI.Pointer)
	ui.GET("/view", h.UI.View)

	return r
}
