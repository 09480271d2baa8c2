package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	authclient "github.com/idp-labs/shop-svc/internal/auth"
	"github.com/idp-labs/shop-svc/internal/service/models/basketitem"
	"github.com/idp-labs/shop-svc/internal/service/models/order"
	"github.com/idp-labs/shop-svc/internal/service/models/product"
	"github.com/idp-labs/shop-svc/internal/service/models/user"
	"github.com/idp-labs/shop-svc/internal/transport/http/authn"
	"github.com/idp-labs/shop-svc/internal/transport/http/basket"
	authmw "github.com/idp-labs/shop-svc/internal/transport/http/middleware/auth"
	"github.com/idp-labs/shop-svc/internal/transport/http/orders"
	"github.com/idp-labs/shop-svc/internal/transport/http/products"
	"github.com/idp-labs/shop-svc/internal/transport/http/users"
	"github.com/idp-labs/shop-svc/pkg/http/middleware/trace"
	"github.com/idp-labs/shop-svc/pkg/logger"
	"github.com/spf13/viper"
)

type authService interface {
	authclient.Authenticator
	Login(ctx context.Context, name, password string) (authclient.TokenResponse, error)
	Register(ctx context.Context, name, email, password string) (authclient.RegisteredUser, error)
}

type userService interface {
	EnsureProfile(ctx context.Context, userID int64) error
	CheckEmailFree(ctx context.Context, email string) error
	Register(ctx context.Context, id int64, name, email string) (user.User, error)
	Me(ctx context.Context, userID int64) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type productService interface {
	Create(ctx context.Context, p product.Product) (product.Product, error)
	Get(ctx context.Context, id int64) (*product.Product, error)
	List(ctx context.Context) ([]product.Product, error)
}

type basketService interface {
	List(ctx context.Context, userID int64) ([]basketitem.BasketItem, error)
	Add(ctx context.Context, userID, productID int64, qty int) (*basketitem.BasketItem, error)
	Update(ctx context.Context, userID, itemID int64, qty int) (*basketitem.BasketItem, error)
	Remove(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
}

type orderService interface {
	CreateOrder(ctx context.Context, userID int64) (*order.Order, error)
	CancelOrder(ctx context.Context, userID, orderID int64) (*order.Order, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*order.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]order.Order, error)
}

type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	authSvc    authService
	userSvc    userService
	productSvc productService
	basketSvc  basketService
	orderSvc   orderService
}

func NewHTTPTransport(
	authSvc authService,
	userSvc userService,
	productSvc productService,
	basketSvc basketService,
	orderSvc orderService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:     server,
		router:     router,
		authSvc:    authSvc,
		userSvc:    userSvc,
		productSvc: productSvc,
		basketSvc:  basketSvc,
		orderSvc:   orderSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport. Everything
// except login and registration sits behind the auth middleware.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Post("/login", h.login)
	h.router.Post("/register", h.register)

	h.router.Group(func(r chi.Router) {
		r.Use(authmw.NewAuthMiddleware(h.authSvc, h.userSvc))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", h.me)
			r.Get("/", h.listUsers)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.createProduct)
			r.Get("/", h.listProducts)
			r.Get("/{id}", h.getProduct)
		})

		r.Route("/basket", func(r chi.Router) {
			r.Get("/", h.listBasket)
			r.Post("/", h.addToBasket)
			r.Put("/{id}", h.updateBasketItem)
			r.Delete("/{id}", h.removeBasketItem)
			r.Delete("/", h.clearBasket)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/", h.listOrders)
			r.Get("/{id}", h.getOrder)
			r.Post("/{id}/cancel", h.cancelOrder)
		})
	})
}

func (h *HTTPTransport) login(w http.ResponseWriter, r *http.Request) {
	authn.Login(w, r, h.authSvc)
}

func (h *HTTPTransport) register(w http.ResponseWriter, r *http.Request) {
	authn.Register(w, r, h.authSvc, h.userSvc)
}

func (h *HTTPTransport) me(w http.ResponseWriter, r *http.Request) {
	users.Me(w, r, h.userSvc)
}

func (h *HTTPTransport) listUsers(w http.ResponseWriter, r *http.Request) {
	users.List(w, r, h.userSvc)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	products.Create(w, r, h.productSvc)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	products.List(w, r, h.productSvc)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	products.Get(w, r, h.productSvc)
}

func (h *HTTPTransport) listBasket(w http.ResponseWriter, r *http.Request) {
	basket.List(w, r, h.basketSvc)
}

func (h *HTTPTransport) addToBasket(w http.ResponseWriter, r *http.Request) {
	basket.Add(w, r, h.basketSvc)
}

func (h *HTTPTransport) updateBasketItem(w http.ResponseWriter, r *http.Request) {
	basket.Update(w, r, h.basketSvc)
}

func (h *HTTPTransport) removeBasketItem(w http.ResponseWriter, r *http.Request) {
	basket.Remove(w, r, h.basketSvc)
}

func (h *HTTPTransport) clearBasket(w http.ResponseWriter, r *http.Request) {
	basket.Clear(w, r, h.basketSvc)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	orders.Create(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	orders.List(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	orders.Get(w, r, h.orderSvc)
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orders.Cancel(w, r, h.orderSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
