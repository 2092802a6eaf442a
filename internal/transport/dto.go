package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

func NewAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		ID:    res.User.ID,
		Name:  res.User.Name,
		Email: res.User.Email,
		Token: res.Token,
	}
}

type CreateProductRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage *float64 `json:"discountPercentage"`
	Rating             *float64 `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

func (r CreateProductRequest) Input() service.ProductInput {
	return service.ProductInput{
		Title:              r.Title,
		Description:        r.Description,
		Price:              r.Price,
		DiscountPercentage: r.DiscountPercentage,
		Rating:             r.Rating,
		Stock:              r.Stock,
		Brand:              r.Brand,
		Category:           r.Category,
		Thumbnail:          r.Thumbnail,
		Images:             r.Images,
	}
}

type ProductListResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Data    []models.Product `json:"data"`
}

type ProductResponse struct {
	Success bool            `json:"success"`
	Data    *models.Product `json:"data"`
}

type SearchResponse struct {
	Success bool             `json:"success"`
	Total   int64            `json:"total"`
	Count   int              `json:"count"`
	Data    []models.Product `json:"data"`
}

type SeedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ID       uuid.UUID       `json:"_id"`
	Product  *models.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

type CartResponse struct {
	ID        uuid.UUID          `json:"_id"`
	User      uuid.UUID          `json:"user"`
	Items     []CartLineResponse `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type EmptyCartResponse struct {
	Items []CartLineResponse `json:"items"`
}

// NewCartViewResponse renders a cart with expanded products, or the
// {"items": []} projection when the user has no cart.
func NewCartViewResponse(view *service.CartView) any {
	if view == nil || view.Cart == nil {
		return EmptyCartResponse{Items: []CartLineResponse{}}
	}

	lines := make([]CartLineResponse, 0, len(view.Cart.Items))
	for _, it := range view.Cart.Items {
		line := CartLineResponse{ID: it.ID, Quantity: it.Quantity}
		if p, ok := view.Products[it.ProductID]; ok {
			line.Product = &p
		}
		lines = append(lines, line)
	}
	return CartResponse{
		ID:        view.Cart.ID,
		User:      view.Cart.UserID,
		Items:     lines,
		CreatedAt: view.Cart.CreatedAt,
		UpdatedAt: view.Cart.UpdatedAt,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// NewCartResponse is the unexpanded cart returned by mutations; items is
// always an array.
func NewCartResponse(cart *models.Cart) *models.Cart {
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart
}
