package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/services"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/bind"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/database"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/middleware"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/response"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/router"
)

const ordersPerPage = 10

// OrderController handles checkout and order history.
type OrderController struct {
	orders    *services.OrderService
	carts     *services.CartService
	addresses *services.AddressService
}

func NewOrderController() *OrderController {
	return &OrderController{
		orders:    services.NewOrderService(database.DB),
		carts:     services.NewCartService(database.DB),
		addresses: services.NewAddressService(database.DB),
	}
}

type checkoutInput struct {
	PaymentMethod string `json:"payment_method" validate:"required,in=cod,card,paypal"`
	AddressID     uint   `json:"address_id"`
}

// Store places an order from the user's cart. The shipping address is the
// one named in the request, or the default address when omitted. On success
// the cart is cleared and the order is returned with its line items.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())

	var input checkoutInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	address, err := c.shippingAddress(userID, input.AddressID)
	if err != nil {
		response.ValidationError(w, map[string]string{"address_id": "A shipping address is required."})
		return
	}

	lines, err := c.carts.Items(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	items := make([]services.CheckoutItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, services.CheckoutItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	order, err := c.orders.PlaceOrder(userID, address.Snapshot(), input.PaymentMethod, items)
	if err != nil {
		c.renderCheckoutError(w, err)
		return
	}

	// The order is committed; a cart that failed to clear is a nuisance,
	// not a failure.
	_ = c.carts.Clear(userID)

	response.Created(w, order)
}

// Index lists the user's orders, newest first.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	orders, pagination, err := c.orders.ForUser(userID, page, ordersPerPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}
	response.Paginated(w, orders, pagination)
}

// Show returns one of the user's orders with its line items.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	orderID, err := strconv.ParseUint(router.Param(r, "order"), 10, 64)
	if err != nil {
		response.NotFound(w)
		return
	}

	order, err := c.orders.FindForUser(userID, uint(orderID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not load order")
		return
	}
	response.Success(w, order)
}

func (c *OrderController) shippingAddress(userID, addressID uint) (models.AddressBook, error) {
	if addressID != 0 {
		return c.addresses.Find(userID, addressID)
	}
	return c.addresses.Default(userID)
}

func (c *OrderController) renderCheckoutError(w http.ResponseWriter, err error) {
	var outOfStock *services.OutOfStockError
	var insufficient *services.InsufficientStockError

	switch {
	case errors.Is(err, services.ErrEmptyCart):
		response.Error(w, http.StatusUnprocessableEntity, "Your cart is empty")
	case errors.As(err, &outOfStock):
		response.Error(w, http.StatusUnprocessableEntity, outOfStock.Error())
	case errors.As(err, &insufficient):
		response.Error(w, http.StatusUnprocessableEntity, insufficient.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "Could not place order")
	}
}
