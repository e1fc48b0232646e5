package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foodkart/catalog-service/internal/apperr"
	"github.com/foodkart/catalog-service/internal/models"
)

const categoryCollectionName = "categories"

// CategoryRepository defines data access for categories
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.CategorySummary, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Update(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id string) (*models.Category, error)
}

// MongoCategoryRepository implements CategoryRepository on a Mongo collection
type MongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a category repository
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{collection: db.Collection(categoryCollectionName)}
}

func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("insert category: %w", err))
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}
	return category, nil
}

// GetAll returns the id and name of every category
func (r *MongoCategoryRepository) GetAll(ctx context.Context) ([]models.CategorySummary, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "name": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("list categories: %w", err))
	}
	defer cursor.Close(ctx)

	categories := []models.CategorySummary{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, apperr.Storage(fmt.Errorf("decode categories: %w", err))
	}
	return categories, nil
}

func (r *MongoCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("category not found")
	}

	var category models.Category
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Storage(fmt.Errorf("find category: %w", err))
	}
	return &category, nil
}

// Update applies the non-nil patch fields and returns the post-update state
func (r *MongoCategoryRepository) Update(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("category not found")
	}

	set := bson.M{"updated_at": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.PriceConfiguration != nil {
		set["priceConfiguration"] = *patch.PriceConfiguration
	}
	if patch.Attributes != nil {
		set["attributes"] = *patch.Attributes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var category models.Category
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Storage(fmt.Errorf("update category: %w", err))
	}
	return &category, nil
}

// Delete removes the category and returns its last persisted state
func (r *MongoCategoryRepository) Delete(ctx context.Context, id string) (*models.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("category not found")
	}

	var category models.Category
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Storage(fmt.Errorf("delete category: %w", err))
	}
	return &category, nil
}
