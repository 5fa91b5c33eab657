package httpapi

import (
	"net/http"
	"time"

	"kungfu-delivery/internal/service"

	"github.com/gorilla/mux"
)

// Services groups the use cases the handler exposes. Nil members leave their
// routes unregistered.
type Services struct {
	Users      service.UserServiceInterface
	Addresses  service.AddressServiceInterface
	Catalog    service.CatalogServiceInterface
	Cart       service.CartServiceInterface
	Orders     service.OrderServiceInterface
	Statistics service.StatisticsServiceInterface
	Recommend  service.RecommendServiceInterface
}

type Handler struct {
	Services
	UserAuth  TokenParser
	AdminAuth TokenParser
	Validator *RequestValidator

	// UploadDir is served under /uploads/ when set.
	UploadDir    string
	AILimiter    *KeyedLimiter
	LoginLimiter *KeyedLimiter
}

func NewHandler(services Services, userAuth, adminAuth TokenParser) *Handler {
	return &Handler{
		Services:  services,
		UserAuth:  userAuth,
		AdminAuth: adminAuth,
		Validator: NewRequestValidator(0),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	if h.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir))))
	}

	api := r.PathPrefix("/api").Subrouter()
	public := api.NewRoute().Subrouter()

	customer := api.NewRoute().Subrouter()
	customer.Use(authenticate(h.UserAuth, false))

	admin := api.NewRoute().Subrouter()
	admin.Use(authenticate(h.AdminAuth, true))

	login := rateLimit(h.LoginLimiter, byClientIP)

	if h.Users != nil {
		public.HandleFunc("/users/register", h.register).Methods("POST")
		public.Handle("/users/login", login(http.HandlerFunc(h.login))).Methods("POST")
		public.Handle("/admin/login", login(http.HandlerFunc(h.adminLogin))).Methods("POST")

		customer.HandleFunc("/users/profile", h.getProfile).Methods("GET")
		customer.HandleFunc("/users/profile", h.updateProfile).Methods("PUT")
		customer.HandleFunc("/users/password", h.changePassword).Methods("PUT")
		customer.HandleFunc("/users/recharge", h.recharge).Methods("POST")
	}

	if h.Addresses != nil {
		customer.HandleFunc("/addresses", h.listAddresses).Methods("GET")
		customer.HandleFunc("/addresses", h.createAddress).Methods("POST")
		customer.HandleFunc("/addresses/{id:[0-9]+}", h.getAddress).Methods("GET")
		customer.HandleFunc("/addresses/{id:[0-9]+}", h.updateAddress).Methods("PUT")
		customer.HandleFunc("/addresses/{id:[0-9]+}", h.deleteAddress).Methods("DELETE")
		customer.HandleFunc("/addresses/{id:[0-9]+}/default", h.setDefaultAddress).Methods("PATCH")
		customer.HandleFunc("/addresses/{id:[0-9]+}/set-default", h.setDefaultAddress).Methods("PATCH")
	}

	if h.Catalog != nil {
		h.registerCatalogRoutes(public, admin)
	}

	if h.Cart != nil {
		customer.HandleFunc("/cart", h.getCart).Methods("GET")
		customer.HandleFunc("/cart", h.addCartItem).Methods("POST")
		customer.HandleFunc("/cart/clear", h.clearCart).Methods("DELETE")
		customer.HandleFunc("/cart/items/{id:[0-9]+}", h.updateCartItem).Methods("PUT")
		customer.HandleFunc("/cart/items/{id:[0-9]+}", h.removeCartItem).Methods("DELETE")
	}

	if h.Orders != nil {
		admin.HandleFunc("/orders/admin/all", h.listAllOrders).Methods("GET")
		admin.HandleFunc("/orders/admin/{id:[0-9]+}", h.updateOrderStatus).Methods("PUT")
		admin.HandleFunc("/orders/admin/{id:[0-9]+}", h.deleteOrder).Methods("DELETE")

		customer.HandleFunc("/orders", h.createOrder).Methods("POST")
		customer.HandleFunc("/orders/history", h.orderHistory).Methods("GET")
		customer.HandleFunc("/orders/{id:[0-9]+}", h.getOrder).Methods("GET")
		customer.HandleFunc("/orders/{id:[0-9]+}/pay/success", h.paySuccess).Methods("POST")
		customer.HandleFunc("/orders/{id:[0-9]+}/pay/failure", h.payFailure).Methods("POST")
		customer.HandleFunc("/orders/{id:[0-9]+}/qrcode", h.getOrderQRCode).Methods("GET")
	}

	if h.Statistics != nil {
		admin.HandleFunc("/statistics/hot-dishes", h.hotDishes).Methods("GET")
		admin.HandleFunc("/statistics/hot-combos", h.hotCombos).Methods("GET")
		admin.HandleFunc("/statistics/turnover", h.turnover).Methods("GET")
		admin.HandleFunc("/statistics/overview", h.overview).Methods("GET")
	}

	if h.Recommend != nil {
		ai := rateLimit(h.AILimiter, byPrincipal)
		customer.Handle("/ai/recommend", ai(http.HandlerFunc(h.recommend))).Methods("POST")
	}

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusNotFound, msgRouteNotFound)
	})

	// Each sibling subrouter answers its own method mismatches, otherwise a
	// later sibling reports the path as unknown.
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusMethodNotAllowed, msgMethodNotAllow)
	})
	for _, router := range []*mux.Router{api, public, customer, admin} {
		router.MethodNotAllowedHandler = methodNotAllowed
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", map[string]any{
		"status":    "healthy",
		"service":   "kungfu-delivery",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// principal is only called behind the auth middleware.
func principal(r *http.Request) int {
	p, _ := PrincipalFrom(r.Context())
	if p == nil {
		return 0
	}
	return p.UserID
}
