package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"gorm.io/gorm"
)

// CatalogEntity is a pointer to a catalog model carrying a BaseModel
type CatalogEntity[T any] interface {
	*T
	EnsureID()
}

// CatalogRepository stores one catalog table (organizations, funders, calls,
// indicators). Listings are ordered and searched by name.
type CatalogRepository[T any, PT CatalogEntity[T]] struct {
	db *gorm.DB
}

func NewCatalogRepository[T any, PT CatalogEntity[T]](db *gorm.DB) *CatalogRepository[T, PT] {
	return &CatalogRepository[T, PT]{db: db}
}

// Concrete catalog repositories
type (
	OrganizationRepository = CatalogRepository[domain.Organization, *domain.Organization]
	FunderRepository       = CatalogRepository[domain.Funder, *domain.Funder]
	CallRepository         = CatalogRepository[domain.Call, *domain.Call]
	IndicatorRepository    = CatalogRepository[domain.Indicator, *domain.Indicator]
)

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return NewCatalogRepository[domain.Organization](db)
}

func NewFunderRepository(db *gorm.DB) *FunderRepository {
	return NewCatalogRepository[domain.Funder](db)
}

func NewCallRepository(db *gorm.DB) *CallRepository {
	return NewCatalogRepository[domain.Call](db)
}

func NewIndicatorRepository(db *gorm.DB) *IndicatorRepository {
	return NewCatalogRepository[domain.Indicator](db)
}

func (r *CatalogRepository[T, PT]) Create(ctx context.Context, entity PT) error {
	entity.EnsureID()
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *CatalogRepository[T, PT]) GetByID(ctx context.Context, id uuid.UUID) (PT, error) {
	var entity T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		return nil, err
	}
	return PT(&entity), nil
}

// Exists reports whether a record with the given id is stored
func (r *CatalogRepository[T, PT]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(PT(new(T))).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *CatalogRepository[T, PT]) Update(ctx context.Context, entity PT) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *CatalogRepository[T, PT]) List(ctx context.Context, search string) ([]T, error) {
	var items []T
	query := r.db.WithContext(ctx).Model(PT(new(T)))
	if s := strings.TrimSpace(search); s != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	err := query.Order("name ASC").Find(&items).Error
	return items, err
}
