package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"      json:"_id"`
	Name         string    `gorm:"not null"                  json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Product struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"      json:"_id"`
	Title              string    `gorm:"not null"                  json:"title"`
	Description        string    `gorm:"not null"                  json:"description"`
	Price              float64   `gorm:"not null"                  json:"price"`
	DiscountPercentage *float64  `json:"discountPercentage,omitempty"`
	Rating             *float64  `json:"rating,omitempty"`
	Stock              int       `gorm:"not null;default:0"        json:"stock"`
	Brand              string    `json:"brand,omitempty"`
	Category           string    `gorm:"index;not null"            json:"category"`
	Thumbnail          string    `json:"thumbnail,omitempty"`
	Images             []string  `gorm:"serializer:json"           json:"images"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Cart is one user's cart. Items keep insertion order.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"                      json:"_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"            json:"user"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"          json:"_id"`
	CartID    uuid.UUID `gorm:"type:uuid;index;not null"      json:"-"`
	Position  int       `gorm:"not null;default:0"            json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"            json:"product"`
	Quantity  int       `gorm:"not null;check:quantity>0"     json:"quantity"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// ItemIndex returns the position of the line whose id string equals itemID, or -1.
func (c *Cart) ItemIndex(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID.String() == itemID {
			return i
		}
	}
	return -1
}

// ProductIndex returns the first line holding productID, or -1.
func (c *Cart) ProductIndex(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
