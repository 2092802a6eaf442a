package mongorepo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

func (r *MongoRepo) GetCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var doc cartDoc
	if err := r.carts().FindOne(ctx, bson.M{"user": userID.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model()
}

func (r *MongoRepo) CreateCart(ctx context.Context, cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	ts := now()
	cart.CreatedAt, cart.UpdatedAt = ts, ts
	assignItemIDs(cart)

	_, err := r.carts().InsertOne(ctx, toCartDoc(cart))
	return translate(err)
}

// SaveCart replaces the whole cart document, items included.
func (r *MongoRepo) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = now()
	assignItemIDs(cart)

	res, err := r.carts().ReplaceOne(ctx, bson.M{"_id": cart.ID.String()}, toCartDoc(cart))
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func assignItemIDs(cart *models.Cart) {
	for i := range cart.Items {
		if cart.Items[i].ID == uuid.Nil {
			cart.Items[i].ID = uuid.New()
		}
		cart.Items[i].CartID = cart.ID
		cart.Items[i].Position = i
	}
}
