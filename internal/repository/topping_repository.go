package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foodkart/catalog-service/internal/apperr"
	"github.com/foodkart/catalog-service/internal/models"
)

const toppingCollectionName = "toppings"

// ToppingRepository defines data access for toppings
type ToppingRepository interface {
	Create(ctx context.Context, topping *models.Topping) (*models.Topping, error)
	GetByID(ctx context.Context, id string) (*models.Topping, error)
	Update(ctx context.Context, id string, patch models.ToppingPatch) (*models.Topping, error)
	Delete(ctx context.Context, id string) (*models.Topping, error)
	List(ctx context.Context, filter ListFilter, page Pagination) (*models.Page[models.Topping], error)
}

// MongoToppingRepository implements ToppingRepository on a Mongo collection
type MongoToppingRepository struct {
	collection *mongo.Collection
}

// NewMongoToppingRepository creates a topping repository
func NewMongoToppingRepository(db *mongo.Database) *MongoToppingRepository {
	return &MongoToppingRepository{collection: db.Collection(toppingCollectionName)}
}

func (r *MongoToppingRepository) Create(ctx context.Context, topping *models.Topping) (*models.Topping, error) {
	topping.CreatedAt = time.Now()
	topping.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, topping)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("insert topping: %w", err))
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		topping.ID = oid
	}
	return topping, nil
}

func (r *MongoToppingRepository) GetByID(ctx context.Context, id string) (*models.Topping, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("topping not found")
	}

	var topping models.Topping
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&topping); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("topping not found")
		}
		return nil, apperr.Storage(fmt.Errorf("find topping: %w", err))
	}
	return &topping, nil
}

// Update applies the non-nil patch fields and returns the post-update state
func (r *MongoToppingRepository) Update(ctx context.Context, id string, patch models.ToppingPatch) (*models.Topping, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("topping not found")
	}

	set := bson.M{"updated_at": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.TenantID != nil {
		set["tenantId"] = *patch.TenantID
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.IsPublish != nil {
		set["isPublish"] = *patch.IsPublish
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var topping models.Topping
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&topping)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("topping not found")
		}
		return nil, apperr.Storage(fmt.Errorf("update topping: %w", err))
	}
	return &topping, nil
}

// Delete removes the topping and returns its last persisted state
func (r *MongoToppingRepository) Delete(ctx context.Context, id string) (*models.Topping, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("topping not found")
	}

	var topping models.Topping
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&topping); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("topping not found")
		}
		return nil, apperr.Storage(fmt.Errorf("delete topping: %w", err))
	}
	return &topping, nil
}

// List returns a filtered page of toppings, counting matches separately
// from the page read
func (r *MongoToppingRepository) List(ctx context.Context, filter ListFilter, page Pagination) (*models.Page[models.Topping], error) {
	match := buildToppingMatch(filter)

	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("count toppings: %w", err))
	}

	opts := options.Find().
		SetSkip((page.Page - 1) * page.Limit).
		SetLimit(page.Limit)

	cursor, err := r.collection.Find(ctx, match, opts)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("list toppings: %w", err))
	}
	defer cursor.Close(ctx)

	toppings := []models.Topping{}
	if err := cursor.All(ctx, &toppings); err != nil {
		return nil, apperr.Storage(fmt.Errorf("decode toppings: %w", err))
	}

	return &models.Page[models.Topping]{
		Data:        toppings,
		Total:       total,
		PageSize:    page.Limit,
		CurrentPage: page.Page,
	}, nil
}

// buildToppingMatch composes the match predicate from the filter.
// Toppings carry no category reference.
func buildToppingMatch(filter ListFilter) bson.M {
	match := bson.M{}
	if filter.Query != "" {
		match["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
	}
	if filter.TenantID != "" {
		match["tenantId"] = filter.TenantID
	}
	if filter.IsPublish != nil {
		match["isPublish"] = *filter.IsPublish
	}
	return match
}
