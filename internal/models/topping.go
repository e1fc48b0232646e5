package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Topping represents a tenant-owned product add-on
type Topping struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	TenantID  string             `json:"tenantId" bson:"tenantId"`
	Image     string             `json:"image" bson:"image"`
	IsPublish bool               `json:"isPublish" bson:"isPublish"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ToppingPatch carries the fields of a partial topping update.
// Nil fields are left untouched.
type ToppingPatch struct {
	Name      *string
	Price     *float64
	TenantID  *string
	Image     *string
	IsPublish *bool
}
