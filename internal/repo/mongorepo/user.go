package mongorepo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts

	_, err := r.users().InsertOne(ctx, toUserDoc(u))
	return translate(err)
}

func (r *MongoRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, bson.M{"email": email})
}

func (r *MongoRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findUser(ctx, bson.M{"_id": id.String()})
}

func (r *MongoRepo) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.users().FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model()
}
