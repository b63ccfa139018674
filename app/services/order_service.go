package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/repositories"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/event"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/metrics"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/orm"
)

const (
	// ShippingFee applies to orders totalling ShippingFreeAbove or less.
	ShippingFee       = 9.99
	ShippingFreeAbove = 100.0

	orderNumberAttempts = 5
)

// CheckoutItem is one requested line at checkout.
type CheckoutItem struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1"`
}

// OrderService places and reads orders.
type OrderService struct {
	db     *gorm.DB
	orders *repositories.OrderRepository

	now     func() time.Time       // injectable clock for tests
	numbers func() (string, error) // injectable order-number source for tests
}

func NewOrderService(db *gorm.DB) *OrderService {
	s := &OrderService{
		db:     db,
		orders: repositories.NewOrderRepository(db),
		now:    time.Now,
	}
	s.numbers = s.generateOrderNumber
	return s
}

// WithClock overrides the service clock. Tests use this to pin the date
// embedded in order numbers.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// WithNumberSource overrides how order numbers are drawn. Tests use it to
// force collisions on the unique index.
func (s *OrderService) WithNumberSource(fn func() (string, error)) *OrderService {
	s.numbers = fn
	return s
}

// PlaceOrder runs the whole checkout in one transaction:
//
//  1. generate a unique order number (bounded retry),
//  2. create the order header,
//  3. per item: lock the product row, check stock, snapshot an OrderItem,
//     decrement stock, accumulate the total,
//  4. apply the shipping fee and finalise the total.
//
// Any failure rolls everything back — no partial orders, no stock drift.
func (s *OrderService) PlaceOrder(userID uint, address models.AddressSnapshot, paymentMethod string, items []CheckoutItem) (models.Order, error) {
	if len(items) == 0 {
		metrics.OrdersRejected.WithLabelValues("empty_cart").Inc()
		return models.Order{}, ErrEmptyCart
	}

	totalItems := 0
	for _, item := range items {
		totalItems += item.Quantity
	}

	var order models.Order
	for attempt := 1; ; attempt++ {
		orderNumber, err := s.numbers()
		if err != nil {
			return models.Order{}, err
		}

		err = s.placeWithNumber(&order, orderNumber, userID, address, paymentMethod, totalItems, items)
		if err == nil {
			break
		}
		// Two checkouts can draw the same number between the availability
		// check and the insert; the unique index reports it here and the
		// whole transaction is retried with a fresh number.
		if isDuplicateOrderNumber(err) && attempt < orderNumberAttempts {
			continue
		}
		return models.Order{}, err
	}

	metrics.OrdersPlaced.Inc()
	event.Fire("order.placed", &order)
	return order, nil
}

func (s *OrderService) placeWithNumber(order *models.Order, orderNumber string, userID uint, address models.AddressSnapshot, paymentMethod string, totalItems int, items []CheckoutItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		*order = models.Order{
			OrderNumber:   orderNumber,
			UserID:        userID,
			TotalItems:    totalItems,
			TotalAmount:   0,
			Address:       address,
			PaymentMethod: paymentMethod,
			Status:        "pending",
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("order: create header: %w", err)
		}

		var total float64
		for _, item := range items {
			// SQLite has no SELECT … FOR UPDATE; its single writer already
			// serialises the stock check against the decrement.
			load := tx
			if tx.Dialector.Name() != "sqlite" {
				load = tx.Clauses(clause.Locking{Strength: "UPDATE"})
			}

			var product models.Product
			if err := load.First(&product, item.ProductID).Error; err != nil {
				return fmt.Errorf("order: load product %d: %w", item.ProductID, err)
			}

			if product.Stock == 0 {
				metrics.OrdersRejected.WithLabelValues("out_of_stock").Inc()
				return &OutOfStockError{ProductName: product.Name}
			}
			if product.Stock < item.Quantity {
				metrics.OrdersRejected.WithLabelValues("insufficient_stock").Inc()
				return &InsufficientStockError{
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Stock,
				}
			}

			line := models.OrderItem{
				OrderID:      order.ID,
				ProductName:  product.Name,
				ProductPrice: product.Price,
				Quantity:     item.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("order: create line: %w", err)
			}
			order.Items = append(order.Items, line)

			if err := tx.Model(&product).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("order: decrement stock: %w", err)
			}

			total += line.LineTotal()
		}

		if total <= ShippingFreeAbove {
			total += ShippingFee
		}
		order.TotalAmount = total

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("total_amount", total).Error; err != nil {
			return fmt.Errorf("order: finalise total: %w", err)
		}
		return nil
	})
}

// isDuplicateOrderNumber reports whether err is the unique-index violation
// on orders.order_number. Wording differs per dialect and gorm only maps it
// to ErrDuplicatedKey when the driver translates errors.
func isDuplicateOrderNumber(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	if !strings.Contains(msg, "order_number") {
		return false
	}
	return strings.Contains(msg, "UNIQUE") ||
		strings.Contains(msg, "unique") ||
		strings.Contains(msg, "Duplicate")
}

// generateOrderNumber builds ORD-<YYYYMMDD>-<4 uppercase hex> and retries
// on collision a bounded number of times.
func (s *OrderService) generateOrderNumber() (string, error) {
	date := s.now().Format("20060102")

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		b := make([]byte, 2)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("order: random suffix: %w", err)
		}
		number := fmt.Sprintf("ORD-%s-%s", date, strings.ToUpper(hex.EncodeToString(b)))

		taken, err := s.orders.NumberExists(number)
		if err != nil {
			return "", fmt.Errorf("order: check number: %w", err)
		}
		if !taken {
			return number, nil
		}
	}
	return "", ErrOrderNumberExhausted
}

// ForUser returns one page of the user's orders, newest first.
func (s *OrderService) ForUser(userID uint, page, perPage int) ([]models.Order, orm.Pagination, error) {
	return s.orders.ForUser(userID, page, perPage)
}

// FindForUser loads one order with line items, scoped to the owner.
func (s *OrderService) FindForUser(userID, orderID uint) (models.Order, error) {
	return s.orders.FindForUser(userID, orderID)
}
