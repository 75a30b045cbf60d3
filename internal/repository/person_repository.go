package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"gorm.io/gorm"
)

// PersonFilters narrows people listings. Role and project membership live in
// JSON columns and are matched after loading.
type PersonFilters struct {
	Role        *domain.Role
	Status      *domain.PersonStatus
	ProjectCode string
	Search      string
}

type PersonRepository struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) Create(ctx context.Context, person *domain.Person) error {
	person.EnsureID()
	if person.ProjectCodes == nil {
		person.ProjectCodes = domain.StringList{}
	}
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *PersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	var person domain.Person
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *PersonRepository) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	var person domain.Person
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *PersonRepository) Update(ctx context.Context, person *domain.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

// SetProjectCodes replaces a person's project membership list
func (r *PersonRepository) SetProjectCodes(ctx context.Context, id uuid.UUID, codes domain.StringList) error {
	if codes == nil {
		codes = domain.StringList{}
	}
	result := r.db.WithContext(ctx).Model(&domain.Person{}).Where("id = ?", id).
		Update("project_codes", codes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PersonRepository) List(ctx context.Context, filters PersonFilters) ([]domain.Person, error) {
	var people []domain.Person

	query := r.db.WithContext(ctx).Model(&domain.Person{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern)
	}
	if err := query.Order("name ASC").Find(&people).Error; err != nil {
		return nil, err
	}

	if filters.Role == nil && filters.ProjectCode == "" {
		return people, nil
	}

	filtered := make([]domain.Person, 0, len(people))
	for _, p := range people {
		if filters.Role != nil && !p.HasRole(*filters.Role) {
			continue
		}
		if filters.ProjectCode != "" && !p.ProjectCodes.Contains(filters.ProjectCode) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}
