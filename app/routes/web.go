// Package routes wires every HTTP endpoint onto the router.
package routes

import (
	"time"

	"github.com/Zin-Mg-Nyunt/shopping/app/controllers"
	"github.com/Zin-Mg-Nyunt/shopping/app/services"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/metrics"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/middleware"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/reqid"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/router"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/session"
)

// Register builds the full route table. Call after database and cache
// connections are up, since controllers capture them at construction.
func Register(r *router.Router, proofs services.ProofStore) {
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		session.Middleware(session.DefaultOptions()),
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	products := controllers.NewProductController()
	carts := controllers.NewCartController()
	orders := controllers.NewOrderController()
	addresses := controllers.NewAddressController()
	passwords := controllers.NewPasswordResetController(proofs)

	// Catalogue — public.
	r.Get("/", "home", products.Home)
	r.Get("/products", "product.index", products.Index)
	r.Get("/products/{slug}", "product.show", products.Show)

	// Guests can build a cart; quantities live in the session until login.
	r.Post("/cart/{product}", "cart.add", carts.Add, middleware.OptionalAuth)

	// Password reset — rate limited so codes cannot be brute-forced.
	tight := middleware.RateLimit(5, time.Minute)
	r.Post("/forgot-password", "password.email", passwords.RequestOtp, tight)
	r.Post("/otp-verify", "password.otp", passwords.VerifyOtp, tight)
	r.Post("/reset-password", "password.update", passwords.Reset, tight)

	// Everything below needs a signed-in user.
	authed := r.Group("/", middleware.Auth)

	authed.Get("/cart", "cart.show", carts.Show)
	authed.Put("/cart/{item}", "cart.update", carts.Update)
	authed.Delete("/cart/{item}", "cart.remove", carts.Remove)
	authed.Delete("/cart", "cart.clear", carts.Clear)

	authed.Post("/checkout", "order.store", orders.Store)
	authed.Get("/orders", "order.index", orders.Index)
	authed.Get("/orders/{order}", "order.show", orders.Show)

	authed.Get("/addresses", "address.index", addresses.Index)
	authed.Post("/addresses", "address.store", addresses.Store)
	authed.Put("/addresses/{address}", "address.update", addresses.Update)
	authed.Put("/addresses/{address}/default", "address.default", addresses.SetDefault)
	authed.Delete("/addresses/{address}", "address.destroy", addresses.Destroy)

	r.HandleFunc("/metrics", metrics.Handler())
}
