package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/services"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/bind"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/collection"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/database"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/middleware"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/response"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/router"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/session"
)

// CartController manages the shopping cart. Add works for guests too: their
// quantities accumulate in the session until they sign in, at which point the
// session cart is merged into the database cart.
type CartController struct {
	carts     *services.CartService
	addresses *services.AddressService
}

func NewCartController() *CartController {
	return &CartController{
		carts:     services.NewCartService(database.DB),
		addresses: services.NewAddressService(database.DB),
	}
}

type addToCartInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// Add accumulates quantity for a product, creating the line if needed.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseUint(router.Param(r, "product"), 10, 64)
	if err != nil {
		response.NotFound(w)
		return
	}

	var input addToCartInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.UserIDFromCtx(r.Context())
	if userID == 0 {
		sess := session.FromCtx(r)
		if sess == nil {
			response.Error(w, http.StatusInternalServerError, "Session unavailable")
			return
		}
		if err := c.carts.AddToSessionCart(sess, uint(productID), input.Quantity); err != nil {
			c.renderCartError(w, err)
			return
		}
		if err := sess.Save(w); err != nil {
			response.Error(w, http.StatusInternalServerError, "Could not save session")
			return
		}
		response.Message(w, "Product added to cart")
		return
	}

	if err := c.carts.AddToCart(userID, uint(productID), input.Quantity); err != nil {
		c.renderCartError(w, err)
		return
	}
	response.Message(w, "Product added to cart")
}

// Show returns the signed-in user's cart items alongside their default
// shipping address, merging any quantities that accumulated while they
// browsed as a guest.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())

	if sess := session.FromCtx(r); sess != nil {
		if err := c.carts.MergeSessionCart(userID, sess); err != nil {
			response.Error(w, http.StatusInternalServerError, "Could not merge cart")
			return
		}
		if err := sess.Save(w); err != nil {
			response.Error(w, http.StatusInternalServerError, "Could not save session")
			return
		}
	}

	items, err := c.carts.Items(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	payload := map[string]interface{}{
		"items":    items,
		"subtotal": collection.Sum(items, func(i models.CartItem) float64 { return i.Subtotal() }),
	}
	if address, err := c.addresses.Default(userID); err == nil {
		payload["default_address"] = address
	}
	response.Success(w, payload)
}

type updateCartInput struct {
	Quantity int `json:"quantity" validate:"required,integer"`
}

// Update sets the quantity of one cart line. Out-of-range quantities are
// ignored and the current cart is returned unchanged.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	itemID, err := strconv.ParseUint(router.Param(r, "item"), 10, 64)
	if err != nil {
		response.NotFound(w)
		return
	}

	var input updateCartInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if err := c.carts.Update(userID, uint(itemID), input.Quantity); err != nil {
		c.renderCartError(w, err)
		return
	}

	items, err := c.carts.Items(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	response.Success(w, map[string]interface{}{
		"items":    items,
		"subtotal": collection.Sum(items, func(i models.CartItem) float64 { return i.Subtotal() }),
	})
}

// Remove deletes one line from the cart.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	itemID, err := strconv.ParseUint(router.Param(r, "item"), 10, 64)
	if err != nil {
		response.NotFound(w)
		return
	}

	if err := c.carts.Remove(userID, uint(itemID)); err != nil {
		c.renderCartError(w, err)
		return
	}
	response.Message(w, "Product removed from cart")
}

// Clear empties the cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())

	if err := c.carts.Clear(userID); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not clear cart")
		return
	}
	response.Message(w, "Cart cleared")
}

func (c *CartController) renderCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(w)
		return
	}
	response.Error(w, http.StatusInternalServerError, "Could not update cart")
}
