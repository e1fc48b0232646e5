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

const productCollectionName = "products"

// ListFilter is the composed match predicate for list queries
type ListFilter struct {
	Query      string // case-insensitive substring on name
	TenantID   string
	CategoryID *primitive.ObjectID
	IsPublish  *bool
}

// Pagination carries 1-based page selection
type Pagination struct {
	Page  int64
	Limit int64
}

// ProductRepository defines data access for products
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter ListFilter, page Pagination) (*models.Page[models.Product], error)
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
}

// MongoProductRepository implements ProductRepository on a Mongo collection
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a product repository
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection(productCollectionName)}
}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("insert product: %w", err))
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return product, nil
}

// GetByID reads a single product with its referenced category joined in.
// A product whose category no longer exists produces no row.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}

	pipeline := append([]bson.M{{"$match": bson.M{"_id": objID}}}, categoryLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("find product: %w", err))
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperr.Storage(fmt.Errorf("decode product: %w", err))
	}
	if len(products) == 0 {
		return nil, apperr.NotFound("product not found")
	}
	return &products[0], nil
}

// Update overwrites the mutable product fields and returns the post-update state
func (r *MongoProductRepository) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}

	set := bson.M{
		"name":               update.Name,
		"description":        update.Description,
		"image":              update.Image,
		"priceConfiguration": update.PriceConfiguration,
		"attributes":         update.Attributes,
		"tenantId":           update.TenantID,
		"categoryId":         update.CategoryID,
		"isPublish":          update.IsPublish,
		"updated_at":         time.Now(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Storage(fmt.Errorf("update product: %w", err))
	}
	return &product, nil
}

// Delete removes the product and returns its last persisted state
func (r *MongoProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}

	var product models.Product
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Storage(fmt.Errorf("delete product: %w", err))
	}
	return &product, nil
}

// List runs the filtered, category-joined, paginated aggregation
func (r *MongoProductRepository) List(ctx context.Context, filter ListFilter, page Pagination) (*models.Page[models.Product], error) {
	skip := (page.Page - 1) * page.Limit

	pipeline := append([]bson.M{{"$match": buildProductMatch(filter)}}, categoryLookupStages()...)
	pipeline = append(pipeline, bson.M{
		"$facet": bson.M{
			"metadata": []bson.M{{"$count": "total"}},
			"data": []bson.M{
				{"$skip": skip},
				{"$limit": page.Limit},
			},
		},
	})

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("list products: %w", err))
	}
	defer cursor.Close(ctx)

	var results []struct {
		Metadata []struct {
			Total int64 `bson:"total"`
		} `bson:"metadata"`
		Data []models.Product `bson:"data"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, apperr.Storage(fmt.Errorf("decode products: %w", err))
	}

	out := &models.Page[models.Product]{
		Data:        []models.Product{},
		PageSize:    page.Limit,
		CurrentPage: page.Page,
	}
	if len(results) > 0 {
		out.Data = results[0].Data
		if out.Data == nil {
			out.Data = []models.Product{}
		}
		if len(results[0].Metadata) > 0 {
			out.Total = results[0].Metadata[0].Total
		}
	}
	return out, nil
}

// CountByCategory counts products referencing the category
func (r *MongoProductRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"categoryId": categoryID})
	if err != nil {
		return 0, apperr.Storage(fmt.Errorf("count products by category: %w", err))
	}
	return count, nil
}

// buildProductMatch composes the aggregation match predicate from the filter
func buildProductMatch(filter ListFilter) bson.M {
	match := bson.M{}
	if filter.Query != "" {
		match["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
	}
	if filter.TenantID != "" {
		match["tenantId"] = filter.TenantID
	}
	if filter.CategoryID != nil {
		match["categoryId"] = *filter.CategoryID
	}
	if filter.IsPublish != nil {
		match["isPublish"] = *filter.IsPublish
	}
	return match
}

// categoryLookupStages joins the referenced category, projecting only the
// fields the read model embeds. The $unwind drops products with a dangling
// categoryId from the result.
func categoryLookupStages() []bson.M {
	return []bson.M{
		{
			"$lookup": bson.M{
				"from":         categoryCollectionName,
				"localField":   "categoryId",
				"foreignField": "_id",
				"as":           "category",
				"pipeline": []bson.M{
					{
						"$project": bson.M{
							"_id":                1,
							"name":               1,
							"attributes":         1,
							"priceConfiguration": 1,
						},
					},
				},
			},
		},
		{"$unwind": "$category"},
	}
}
