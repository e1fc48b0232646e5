// Package service orchestrates catalog business logic: the image mutation
// pipeline, tenant authorization and list filter composition.
package service

import (
	"io"

	"github.com/foodkart/catalog-service/internal/apperr"
	"github.com/foodkart/catalog-service/internal/models"
)

// Actor is the authenticated caller performing an operation
type Actor struct {
	Role   string
	Tenant string
}

// UploadFile is an inbound multipart image attachment
type UploadFile struct {
	Reader   io.Reader
	Filename string
}

const defaultPageLimit = 10

// normalizePage clamps pagination to 1-based pages with the default limit
func normalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	return page, limit
}

// authorize allows admins unconditionally and otherwise requires the
// caller's tenant to own the entity
func authorize(actor Actor, tenantID string) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Tenant != tenantID {
		return apperr.Forbidden("you don't have access to this resource")
	}
	return nil
}
