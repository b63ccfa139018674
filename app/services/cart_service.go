package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/repositories"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/session"
)

// CartService manages both cart variants: DB-backed rows for signed-in
// users and the session-held map for guests.
type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		carts:    repositories.NewCartRepository(db),
		products: repositories.NewProductRepository(db),
	}
}

// AddToCart accumulates quantity onto the user's line for the product.
// The increment runs inside the database, so concurrent adds never lose
// an update.
func (s *CartService) AddToCart(userID, productID uint, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("cart: quantity must be positive, got %d", quantity)
	}
	if _, err := s.products.FindByID(productID); err != nil {
		return fmt.Errorf("cart: product %d: %w", productID, err)
	}
	return s.carts.AccumulateItem(userID, productID, quantity)
}

// AddToSessionCart accumulates quantity into a guest's session cart.
// The session is single-request-owned, so a plain read-modify-write is fine.
func (s *CartService) AddToSessionCart(sess *session.Session, productID uint, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("cart: quantity must be positive, got %d", quantity)
	}
	if _, err := s.products.FindByID(productID); err != nil {
		return fmt.Errorf("cart: product %d: %w", productID, err)
	}
	cart := sess.Cart()
	cart[productID] += quantity
	sess.SetCart(cart)
	return nil
}

// MergeSessionCart folds a guest cart into the user's DB cart at login,
// using the same accumulating upsert, then clears the session copy.
// Products that disappeared since the guest added them are skipped.
func (s *CartService) MergeSessionCart(userID uint, sess *session.Session) error {
	cart := sess.Cart()
	for productID, quantity := range cart {
		if quantity < 1 {
			continue
		}
		if err := s.AddToCart(userID, productID, quantity); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
	}
	sess.ClearCart()
	return nil
}

// Items returns the user's cart lines with products loaded.
func (s *CartService) Items(userID uint) ([]models.CartItem, error) {
	return s.carts.ItemsForUser(userID)
}

// Update replaces a line's quantity. Out-of-range values — below 1 or above
// the product's stock — are silently rejected, leaving the line unchanged.
func (s *CartService) Update(userID, itemID uint, quantity int) error {
	item, err := s.carts.FindForUser(userID, itemID)
	if err != nil {
		return err
	}
	if item.Product == nil {
		// The product vanished from the catalogue; the stale line cannot
		// be stock-checked, so the update is refused outright.
		return fmt.Errorf("cart: product for item %d: %w", itemID, gorm.ErrRecordNotFound)
	}
	if quantity < 1 || quantity > item.Product.Stock {
		return nil // rejected, keep prior quantity
	}
	return s.carts.SetQuantity(item.ID, quantity)
}

// Remove deletes one line from the user's cart.
func (s *CartService) Remove(userID, itemID uint) error {
	return s.carts.Remove(userID, itemID)
}

// Clear empties the user's cart, e.g. after a successful checkout.
func (s *CartService) Clear(userID uint) error {
	return s.carts.Clear(userID)
}
