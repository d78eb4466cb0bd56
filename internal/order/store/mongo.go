package store

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shadows-market/storefront/pkg/models"
)

// MongoStore keeps products, carts and orders in their own collections.
// Stock decrements use guarded updates (quantity $gte) so the database
// enforces non-negative stock even if a second service instance ever runs
// beside the keyed locks of the checkout engine.
type MongoStore struct {
	products *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		products: db.Collection("products"),
		carts:    db.Collection("carts"),
		orders:   db.Collection("orders"),
	}
}

func (s *MongoStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.products.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) GetProducts(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	cursor, err := s.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make(map[string]*models.Product, len(ids))
	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		cp := p
		out[p.ID] = &cp
	}
	return out, cursor.Err()
}

func (s *MongoStore) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.products.InsertOne(ctx, p)
	return err
}

func (s *MongoStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.products.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *MongoStore) ApplyStockDecrements(ctx context.Context, dec map[string]int) error {
	// Guarded per-product updates, not a multi-document transaction. A
	// mid-loop failure re-increments whatever already committed so the
	// decrement stays all-or-nothing.
	applied := make(map[string]int, len(dec))
	rollback := func() {
		if err := s.RestoreStock(ctx, applied); err != nil {
			log.Printf("failed to roll back stock decrements %v: %v", applied, err)
		}
	}

	for id, qty := range dec {
		res, err := s.products.UpdateOne(ctx,
			bson.M{"_id": id, "quantity": bson.M{"$gte": qty}},
			bson.M{"$inc": bson.M{"quantity": -qty}})
		if err != nil {
			rollback()
			return err
		}
		if res.MatchedCount == 0 {
			rollback()
			if _, getErr := s.GetProduct(ctx, id); getErr != nil {
				return getErr
			}
			return ErrStockUnderflow
		}
		applied[id] = qty

		_, err = s.products.UpdateOne(ctx,
			bson.M{"_id": id, "quantity": 0},
			bson.M{"$set": bson.M{"status": models.ProductOutOfStock}})
		if err != nil {
			rollback()
			return err
		}
	}
	return nil
}

func (s *MongoStore) RestoreStock(ctx context.Context, inc map[string]int) error {
	for id, qty := range inc {
		if qty <= 0 {
			continue
		}
		// The restored quantity is at least qty, so the product is AVAILABLE.
		_, err := s.products.UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{
				"$inc": bson.M{"quantity": qty},
				"$set": bson.M{"status": models.ProductAvailable},
			})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *MongoStore) GetCart(ctx context.Context, owner string) (*models.Cart, error) {
	fresh := models.NewCart(owner)
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cart models.Cart
	err := s.carts.FindOneAndUpdate(ctx,
		bson.M{"_id": owner},
		bson.M{"$setOnInsert": fresh},
		opts).Decode(&cart)
	if err != nil {
		return nil, err
	}
	if cart.Lines == nil {
		cart.Lines = make(map[string]int)
	}
	return &cart, nil
}

func (s *MongoStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.carts.ReplaceOne(ctx, bson.M{"_id": cart.Owner}, cart, opts)
	return err
}

func (s *MongoStore) ClearCart(ctx context.Context, owner string) error {
	_, err := s.carts.DeleteOne(ctx, bson.M{"_id": owner})
	return err
}

func (s *MongoStore) CreateOrder(ctx context.Context, o *models.Order) error {
	_, err := s.orders.InsertOne(ctx, o)
	return err
}

func (s *MongoStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *MongoStore) findOrders(ctx context.Context, filter interface{}) ([]models.Order, error) {
	cursor, err := s.orders.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.Order
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoStore) ListOrdersByBuyer(ctx context.Context, buyer string) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{"buyer": buyer})
}

func (s *MongoStore) ListOrdersBySeller(ctx context.Context, seller string) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{"lines.owner": seller})
}

func (s *MongoStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(ctx, bson.D{})
}

func (s *MongoStore) CompareAndSetStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error) {
	res, err := s.orders.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		if _, getErr := s.GetOrder(ctx, id); getErr != nil {
			return false, getErr
		}
		return false, nil
	}
	return true, nil
}
