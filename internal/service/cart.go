package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CartService struct {
	Carts    CartRepo
	Products ProductRepo
	Events   EventPublisher

	// CheckCumulativeStock makes a merge into an existing line check the
	// summed quantity against stock. Off, only the added quantity is checked.
	CheckCumulativeStock bool
}

// CartView is a cart with its products resolved. Cart is nil when the user
// has none yet; a product missing from Products has been deleted.
type CartView struct {
	Cart     *models.Cart
	Products map[uuid.UUID]models.Product
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.Carts.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return &CartView{Products: map[uuid.UUID]models.Product{}}, nil
		}
		logging.FromContext(ctx).Error("get_cart_error", "status", 500, "error", err)
		return nil, apperr.Internal(fmt.Errorf("get cart: %w", err))
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Products.GetProductsByIDs(ctx, ids)
	if err != nil {
		logging.FromContext(ctx).Error("get_cart_error", "status", 500, "reason", "products lookup", "error", err)
		return nil, apperr.Internal(fmt.Errorf("get cart products: %w", err))
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &CartView{Cart: cart, Products: byID}, nil
}

// AddItem puts quantity of a product into the user's cart. created reports
// whether the cart itself was created by this call.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, rawProductID string, quantity int) (*models.Cart, bool, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add")

	if quantity < 1 {
		return nil, false, apperr.ErrInvalidQuantity
	}
	productID, err := ParseID(rawProductID)
	if err != nil {
		return nil, false, err
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	if quantity > product.Stock {
		l.Warn("add_to_cart_error", "status", 400, "reason", "insufficient stock", "product_id", productID, "stock", product.Stock, "quantity", quantity)
		return nil, false, apperr.ErrInsufficientStock
	}

	cart, err := s.Carts.GetCartByUser(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		cart = &models.Cart{
			UserID: userID,
			Items:  []models.CartItem{{ProductID: productID, Quantity: quantity}},
		}
		if err := s.Carts.CreateCart(ctx, cart); err != nil {
			l.Error("add_to_cart_error", "status", 500, "reason", "create cart", "error", err)
			return nil, false, apperr.Internal(fmt.Errorf("create cart: %w", err))
		}
		s.cartEvent(ctx, "cart_item_added", cart, productID, quantity)
		return cart, true, nil
	}
	if err != nil {
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return nil, false, apperr.Internal(fmt.Errorf("get cart: %w", err))
	}

	if idx := cart.ProductIndex(productID); idx >= 0 {
		total := cart.Items[idx].Quantity + quantity
		if s.CheckCumulativeStock && total > product.Stock {
			l.Warn("add_to_cart_error", "status", 400, "reason", "insufficient stock", "product_id", productID, "stock", product.Stock, "quantity", total)
			return nil, false, apperr.ErrInsufficientStock
		}
		cart.Items[idx].Quantity = total
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.Carts.SaveCart(ctx, cart); err != nil {
		l.Error("add_to_cart_error", "status", 500, "reason", "save cart", "error", err)
		return nil, false, apperr.Internal(fmt.Errorf("save cart: %w", err))
	}
	s.cartEvent(ctx, "cart_item_added", cart, productID, quantity)
	return cart, false, nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID uuid.UUID, itemID string, quantity int) (*models.Cart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.update")

	if quantity < 1 {
		return nil, apperr.ErrInvalidQuantity
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := cart.ItemIndex(itemID)
	if idx < 0 {
		return nil, apperr.ErrItemNotFound
	}

	product, err := s.loadProduct(ctx, cart.Items[idx].ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		l.Warn("update_cart_error", "status", 400, "reason", "insufficient stock", "product_id", product.ID, "stock", product.Stock, "quantity", quantity)
		return nil, apperr.ErrInsufficientStock
	}

	cart.Items[idx].Quantity = quantity
	if err := s.Carts.SaveCart(ctx, cart); err != nil {
		l.Error("update_cart_error", "status", 500, "error", err)
		return nil, apperr.Internal(fmt.Errorf("save cart: %w", err))
	}
	s.cartEvent(ctx, "cart_item_updated", cart, product.ID, quantity)
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID string) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := cart.ItemIndex(itemID)
	if idx < 0 {
		return nil, apperr.ErrItemNotFound
	}

	removed := cart.Items[idx]
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	if err := s.Carts.SaveCart(ctx, cart); err != nil {
		logging.FromContext(ctx).Error("remove_from_cart_error", "status", 500, "error", err)
		return nil, apperr.Internal(fmt.Errorf("save cart: %w", err))
	}
	s.cartEvent(ctx, "cart_item_removed", cart, removed.ProductID, removed.Quantity)
	return cart, nil
}

func (s *CartService) loadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Carts.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.ErrCartNotFound
		}
		logging.FromContext(ctx).Error("get_cart_error", "status", 500, "error", err)
		return nil, apperr.Internal(fmt.Errorf("get cart: %w", err))
	}
	return cart, nil
}

func (s *CartService) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.ErrProductNotFound
		}
		logging.FromContext(ctx).Error("get_product_error", "status", 500, "product_id", id, "error", err)
		return nil, apperr.Internal(fmt.Errorf("get product: %w", err))
	}
	return product, nil
}

func (s *CartService) cartEvent(ctx context.Context, eventType string, cart *models.Cart, productID uuid.UUID, quantity int) {
	publish(ctx, s.Events, events.TopicCarts, cart.UserID.String(), eventType, map[string]any{
		"cart_id":    cart.ID,
		"user_id":    cart.UserID,
		"product_id": productID,
		"quantity":   quantity,
		"lines":      len(cart.Items),
	})
}
