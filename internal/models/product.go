package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductAttribute is one attribute value chosen for a product, named after
// an attribute the owning category defines
type ProductAttribute struct {
	Name  string `json:"name" bson:"name"`
	Value any    `json:"value" bson:"value"`
}

// Product represents a sellable catalog item owned by exactly one tenant.
// Category is populated only on reads that join the referenced category.
type Product struct {
	ID                 primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Name               string                 `json:"name" bson:"name"`
	Description        string                 `json:"description" bson:"description"`
	Image              string                 `json:"image" bson:"image"`
	PriceConfiguration map[string]PriceOption `json:"priceConfiguration" bson:"priceConfiguration"`
	Attributes         []ProductAttribute     `json:"attributes" bson:"attributes"`
	TenantID           string                 `json:"tenantId" bson:"tenantId"`
	CategoryID         primitive.ObjectID     `json:"categoryId" bson:"categoryId"`
	Category           *CategoryRef           `json:"category,omitempty" bson:"category,omitempty"`
	IsPublish          bool                   `json:"isPublish" bson:"isPublish"`
	CreatedAt          time.Time              `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time              `json:"updatedAt" bson:"updated_at"`
}

// ProductUpdate carries the mutable fields written by a full product update
type ProductUpdate struct {
	Name               string
	Description        string
	Image              string
	PriceConfiguration map[string]PriceOption
	Attributes         []ProductAttribute
	TenantID           string
	CategoryID         primitive.ObjectID
	IsPublish          bool
}
