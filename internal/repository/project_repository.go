package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"gorm.io/gorm"
)

// ErrVersionConflict is returned by a compare-and-swap write whose expected
// version no longer matches the stored document.
var ErrVersionConflict = errors.New("version conflict")

// ProjectField names a column that can be replaced as a whole
type ProjectField string

const (
	FieldAcronym          ProjectField = "acronym"
	FieldName             ProjectField = "name"
	FieldOrganizationID   ProjectField = "organization_id"
	FieldCallID           ProjectField = "call_id"
	FieldGeneralObjective ProjectField = "general_objective"
	FieldDurationMonths   ProjectField = "duration_months"
	FieldContractStart    ProjectField = "contract_start"
	FieldContractEnd      ProjectField = "contract_end"
	FieldStatus           ProjectField = "status"
	FieldInstallments     ProjectField = "installments"
	FieldWorkPlan         ProjectField = "work_plan"
	FieldBudgetLines      ProjectField = "budget_lines"
	FieldIndicators       ProjectField = "indicators"
	FieldImpactsShortTerm ProjectField = "impacts_short_term"
	FieldImpactsLongTerm  ProjectField = "impacts_long_term"
	FieldLocations        ProjectField = "locations"
	FieldContracts        ProjectField = "contracts"
)

// ProjectFilters narrows project listings. A nil Codes slice means no
// restriction; an empty non-nil slice matches nothing.
type ProjectFilters struct {
	Codes          []string
	OrganizationID *uuid.UUID
	CallID         *uuid.UUID
	Search         string
	Sort           SortConfig
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	project.EnsureID()
	if project.Version == 0 {
		project.Version = 1
	}
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ExistsByCodeOrAcronym reports which of the two unique keys is already taken.
func (r *ProjectRepository) ExistsByCodeOrAcronym(ctx context.Context, code, acronym string) (codeTaken, acronymTaken bool, err error) {
	var found []domain.Project
	err = r.db.WithContext(ctx).Select("code", "acronym").
		Where("(code = ? OR LOWER(acronym) = LOWER(?))", code, acronym).
		Find(&found).Error
	if err != nil {
		return false, false, err
	}
	for _, p := range found {
		if p.Code == code {
			codeTaken = true
		}
		if strings.EqualFold(p.Acronym, acronym) {
			acronymTaken = true
		}
	}
	return codeTaken, acronymTaken, nil
}

// AcronymTakenByOther reports whether another project already uses acronym.
func (r *ProjectRepository) AcronymTakenByOther(ctx context.Context, acronym, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("LOWER(acronym) = LOWER(?) AND code <> ?", acronym, code).
		Count(&count).Error
	return count > 0, err
}

func (r *ProjectRepository) List(ctx context.Context, page, pageSize int, filters ProjectFilters) ([]domain.Project, int64, error) {
	var projects []domain.Project
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Project{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	order := BuildOrderClause(filters.Sort, projectSortFields, "code")
	if order != "code ASC" && order != "code DESC" {
		order += ", code ASC"
	}
	err := query.Offset(offset).Limit(pageSize).Order(order).Find(&projects).Error

	return projects, total, err
}

// ListAll loads every matching project document, ordered by code.
func (r *ProjectRepository) ListAll(ctx context.Context, filters ProjectFilters) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Project{}), filters).
		Order("code ASC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) applyFilters(query *gorm.DB, filters ProjectFilters) *gorm.DB {
	if filters.Codes != nil {
		if len(filters.Codes) == 0 {
			return query.Where("1 = 0")
		}
		query = query.Where("code IN ?", filters.Codes)
	}
	if filters.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filters.OrganizationID)
	}
	if filters.CallID != nil {
		query = query.Where("call_id = ?", *filters.CallID)
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(code) LIKE ? OR LOWER(acronym) LIKE ? OR LOWER(name) LIKE ?)", pattern, pattern, pattern)
	}
	return query
}

// ReplaceFields overwrites whole columns of one project and bumps its version.
// With a nil expectedVersion the write is unconditional (last writer wins);
// otherwise it only applies when the stored version still matches and
// ErrVersionConflict is returned when it does not. The new version is returned.
func (r *ProjectRepository) ReplaceFields(ctx context.Context, code string, fields map[ProjectField]interface{}, expectedVersion *int) (int, error) {
	updates := make(map[string]interface{}, len(fields)+1)
	for field, value := range fields {
		updates[string(field)] = value
	}
	updates["version"] = gorm.Expr("version + 1")

	var newVersion int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&domain.Project{}).Where("code = ?", code)
		if expectedVersion != nil {
			query = query.Where("version = ?", *expectedVersion)
		}

		result := query.Updates(updates)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&domain.Project{}).Where("code = ?", code).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrVersionConflict
		}

		var versions []int
		if err := tx.Model(&domain.Project{}).Where("code = ?", code).Pluck("version", &versions).Error; err != nil {
			return err
		}
		if len(versions) > 0 {
			newVersion = versions[0]
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}
