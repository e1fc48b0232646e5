package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Price type values for a category pricing dimension
const (
	PriceTypeBase       = "base"
	PriceTypeAdditional = "additional"
)

// PriceOption describes one customizable pricing dimension of a category,
// e.g. size with named price points
type PriceOption struct {
	PriceType        string             `json:"priceType" bson:"priceType"`
	AvailableOptions map[string]float64 `json:"availableOptions" bson:"availableOptions"`
}

// Attribute describes a selectable product attribute defined by a category,
// e.g. spice level with its allowed values
type Attribute struct {
	Name             string   `json:"name" bson:"name"`
	WidgetType       string   `json:"widgetType" bson:"widgetType"`
	DefaultValue     string   `json:"defaultValue" bson:"defaultValue"`
	AvailableOptions []string `json:"availableOptions" bson:"availableOptions"`
}

// Category defines the pricing and attribute schema products reference
type Category struct {
	ID                 primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Name               string                 `json:"name" bson:"name"`
	PriceConfiguration map[string]PriceOption `json:"priceConfiguration" bson:"priceConfiguration"`
	Attributes         []Attribute            `json:"attributes" bson:"attributes"`
	CreatedAt          time.Time              `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time              `json:"updatedAt" bson:"updated_at"`
}

// CategorySummary is the id+name projection returned by the public listing
type CategorySummary struct {
	ID   primitive.ObjectID `json:"id" bson:"_id"`
	Name string             `json:"name" bson:"name"`
}

// CategoryPatch carries the fields of a partial category update.
// Nil fields are left untouched.
type CategoryPatch struct {
	Name               *string                 `json:"name"`
	PriceConfiguration *map[string]PriceOption `json:"priceConfiguration"`
	Attributes         *[]Attribute            `json:"attributes"`
}

// CategoryRef is the category projection embedded into product reads by the
// relational lookup: id, name, attributes and priceConfiguration only
type CategoryRef struct {
	ID                 primitive.ObjectID     `json:"id" bson:"_id"`
	Name               string                 `json:"name" bson:"name"`
	Attributes         []Attribute            `json:"attributes" bson:"attributes"`
	PriceConfiguration map[string]PriceOption `json:"priceConfiguration" bson:"priceConfiguration"`
}
