package mongorepo

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Ids are stored as canonical uuid strings so documents stay readable in the shell.

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type productDoc struct {
	ID                 string    `bson:"_id"`
	Title              string    `bson:"title"`
	Description        string    `bson:"description"`
	Price              float64   `bson:"price"`
	DiscountPercentage *float64  `bson:"discountPercentage,omitempty"`
	Rating             *float64  `bson:"rating,omitempty"`
	Stock              int       `bson:"stock"`
	Brand              string    `bson:"brand,omitempty"`
	Category           string    `bson:"category"`
	Thumbnail          string    `bson:"thumbnail,omitempty"`
	Images             []string  `bson:"images"`
	CreatedAt          time.Time `bson:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt"`
}

type cartItemDoc struct {
	ID       string `bson:"_id"`
	Product  string `bson:"product"`
	Quantity int    `bson:"quantity"`
}

type cartDoc struct {
	ID        string        `bson:"_id"`
	User      string        `bson:"user"`
	Items     []cartItemDoc `bson:"items"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) model() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", d.ID, err)
	}
	return &models.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func toProductDoc(p *models.Product) productDoc {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productDoc{
		ID:                 p.ID.String(),
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		Category:           p.Category,
		Thumbnail:          p.Thumbnail,
		Images:             images,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (d productDoc) model() (*models.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", d.ID, err)
	}
	return &models.Product{
		ID:                 id,
		Title:              d.Title,
		Description:        d.Description,
		Price:              d.Price,
		DiscountPercentage: d.DiscountPercentage,
		Rating:             d.Rating,
		Stock:              d.Stock,
		Brand:              d.Brand,
		Category:           d.Category,
		Thumbnail:          d.Thumbnail,
		Images:             d.Images,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}

func toCartDoc(c *models.Cart) cartDoc {
	items := make([]cartItemDoc, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, cartItemDoc{ID: it.ID.String(), Product: it.ProductID.String(), Quantity: it.Quantity})
	}
	return cartDoc{
		ID:        c.ID.String(),
		User:      c.UserID.String(),
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d cartDoc) model() (*models.Cart, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("cart %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.User)
	if err != nil {
		return nil, fmt.Errorf("cart %q user: %w", d.ID, err)
	}

	cart := &models.Cart{ID: id, UserID: userID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
	cart.Items = make([]models.CartItem, 0, len(d.Items))
	for i, it := range d.Items {
		itemID, err := uuid.Parse(it.ID)
		if err != nil {
			return nil, fmt.Errorf("cart %q item: %w", d.ID, err)
		}
		productID, err := uuid.Parse(it.Product)
		if err != nil {
			return nil, fmt.Errorf("cart %q item product: %w", d.ID, err)
		}
		cart.Items = append(cart.Items, models.CartItem{
			ID:        itemID,
			CartID:    id,
			Position:  i,
			ProductID: productID,
			Quantity:  it.Quantity,
		})
	}
	return cart, nil
}
