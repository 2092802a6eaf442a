package mongorepo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *MongoRepo) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return r.findProducts(ctx, filter)
}

func (r *MongoRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var doc productDoc
	if err := r.products().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model()
}

func (r *MongoRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	return r.findProducts(ctx, bson.M{"_id": bson.M{"$in": keys}})
}

func (r *MongoRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	stamp(p)
	_, err := r.products().InsertOne(ctx, toProductDoc(p))
	return translate(err)
}

// ReplaceAllProducts runs deleteMany then insertMany. Nothing spans the two calls.
func (r *MongoRepo) ReplaceAllProducts(ctx context.Context, items []models.Product) (int, error) {
	if _, err := r.products().DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	docs := make([]any, 0, len(items))
	for i := range items {
		stamp(&items[i])
		docs = append(docs, toProductDoc(&items[i]))
	}
	res, err := r.products().InsertMany(ctx, docs)
	if err != nil {
		return 0, translate(err)
	}
	return len(res.InsertedIDs), nil
}

func (r *MongoRepo) findProducts(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cur, err := r.products().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cur)
}

func decodeProducts(ctx context.Context, cur *mongo.Cursor) ([]models.Product, error) {
	defer cur.Close(ctx)

	out := make([]models.Product, 0)
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		p, err := doc.model()
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func stamp(p *models.Product) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	ts := now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = ts
	}
	p.UpdatedAt = ts
}
