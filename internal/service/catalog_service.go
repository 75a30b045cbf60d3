package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// existsChecker is any catalog that can confirm a reference
type existsChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// checkCatalogRef validates an optional reference, since the record store
// does not enforce it.
func checkCatalogRef(ctx context.Context, repo existsChecker, id *uuid.UUID, notFound error) error {
	if id == nil {
		return nil
	}
	ok, err := repo.Exists(ctx, *id)
	if err != nil {
		return fmt.Errorf("failed to check reference: %w", err)
	}
	if !ok {
		return notFound
	}
	return nil
}

func getCatalog[T any, PT repository.CatalogEntity[T]](ctx context.Context, repo *repository.CatalogRepository[T, PT], id uuid.UUID, notFound error) (PT, error) {
	entity, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to get catalog entry: %w", err)
	}
	return entity, nil
}

// CatalogService manages organizations, funders, calls and indicators.
// Reads are open to every authenticated caller; writes need an administrator.
type CatalogService struct {
	orgRepo       *repository.OrganizationRepository
	funderRepo    *repository.FunderRepository
	callRepo      *repository.CallRepository
	indicatorRepo *repository.IndicatorRepository
	logger        *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	orgRepo *repository.OrganizationRepository,
	funderRepo *repository.FunderRepository,
	callRepo *repository.CallRepository,
	indicatorRepo *repository.IndicatorRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		orgRepo:       orgRepo,
		funderRepo:    funderRepo,
		callRepo:      callRepo,
		indicatorRepo: indicatorRepo,
		logger:        logger,
	}
}

// ============================================================================
// Organizations
// ============================================================================

func (s *CatalogService) CreateOrganization(ctx context.Context, req *domain.OrganizationRequest) (*domain.Organization, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	org := &domain.Organization{}
	applyOrganization(org, req)
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	s.logger.Info("organization created", zap.String("id", org.ID.String()), zap.String("name", org.Name))
	return org, nil
}

func (s *CatalogService) GetOrganization(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	return getCatalog(ctx, s.orgRepo, id, ErrOrganizationNotFound)
}

func (s *CatalogService) ListOrganizations(ctx context.Context, search string) ([]domain.Organization, error) {
	return s.orgRepo.List(ctx, search)
}

func (s *CatalogService) UpdateOrganization(ctx context.Context, id uuid.UUID, req *domain.OrganizationRequest) (*domain.Organization, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	org, err := getCatalog(ctx, s.orgRepo, id, ErrOrganizationNotFound)
	if err != nil {
		return nil, err
	}
	applyOrganization(org, req)
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

func applyOrganization(org *domain.Organization, req *domain.OrganizationRequest) {
	org.Name = strings.TrimSpace(req.Name)
	org.Acronym = strings.TrimSpace(req.Acronym)
	org.TaxID = strings.TrimSpace(req.TaxID)
	org.Email = strings.ToLower(strings.TrimSpace(req.Email))
	org.Website = strings.TrimSpace(req.Website)
}

// ============================================================================
// Funders
// ============================================================================

func (s *CatalogService) CreateFunder(ctx context.Context, req *domain.FunderRequest) (*domain.Funder, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	funder := &domain.Funder{Name: strings.TrimSpace(req.Name), Acronym: strings.TrimSpace(req.Acronym)}
	if err := s.funderRepo.Create(ctx, funder); err != nil {
		return nil, fmt.Errorf("failed to create funder: %w", err)
	}
	s.logger.Info("funder created", zap.String("id", funder.ID.String()), zap.String("name", funder.Name))
	return funder, nil
}

func (s *CatalogService) GetFunder(ctx context.Context, id uuid.UUID) (*domain.Funder, error) {
	return getCatalog(ctx, s.funderRepo, id, ErrFunderNotFound)
}

func (s *CatalogService) ListFunders(ctx context.Context, search string) ([]domain.Funder, error) {
	return s.funderRepo.List(ctx, search)
}

func (s *CatalogService) UpdateFunder(ctx context.Context, id uuid.UUID, req *domain.FunderRequest) (*domain.Funder, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	funder, err := getCatalog(ctx, s.funderRepo, id, ErrFunderNotFound)
	if err != nil {
		return nil, err
	}
	funder.Name = strings.TrimSpace(req.Name)
	funder.Acronym = strings.TrimSpace(req.Acronym)
	if err := s.funderRepo.Update(ctx, funder); err != nil {
		return nil, fmt.Errorf("failed to update funder: %w", err)
	}
	return funder, nil
}

// ============================================================================
// Calls
// ============================================================================

func (s *CatalogService) CreateCall(ctx context.Context, req *domain.CallRequest) (*domain.Call, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := checkCatalogRef(ctx, s.funderRepo, &req.FunderID, ErrFunderNotFound); err != nil {
		return nil, err
	}
	call := &domain.Call{
		Code:     strings.TrimSpace(req.Code),
		Name:     strings.TrimSpace(req.Name),
		FunderID: req.FunderID,
		Year:     req.Year,
	}
	if err := s.callRepo.Create(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to create call: %w", err)
	}
	s.logger.Info("call created", zap.String("id", call.ID.String()), zap.String("code", call.Code))
	return call, nil
}

func (s *CatalogService) GetCall(ctx context.Context, id uuid.UUID) (*domain.Call, error) {
	return getCatalog(ctx, s.callRepo, id, ErrCallNotFound)
}

func (s *CatalogService) ListCalls(ctx context.Context, search string) ([]domain.Call, error) {
	return s.callRepo.List(ctx, search)
}

func (s *CatalogService) UpdateCall(ctx context.Context, id uuid.UUID, req *domain.CallRequest) (*domain.Call, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	call, err := getCatalog(ctx, s.callRepo, id, ErrCallNotFound)
	if err != nil {
		return nil, err
	}
	if err := checkCatalogRef(ctx, s.funderRepo, &req.FunderID, ErrFunderNotFound); err != nil {
		return nil, err
	}
	call.Code = strings.TrimSpace(req.Code)
	call.Name = strings.TrimSpace(req.Name)
	call.FunderID = req.FunderID
	call.Year = req.Year
	if err := s.callRepo.Update(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to update call: %w", err)
	}
	return call, nil
}

// ============================================================================
// Indicators
// ============================================================================

func (s *CatalogService) CreateIndicator(ctx context.Context, req *domain.IndicatorRequest) (*domain.Indicator, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	indicator := &domain.Indicator{}
	applyIndicator(indicator, req)
	if err := s.indicatorRepo.Create(ctx, indicator); err != nil {
		return nil, fmt.Errorf("failed to create indicator: %w", err)
	}
	s.logger.Info("indicator created", zap.String("id", indicator.ID.String()), zap.String("code", indicator.Code))
	return indicator, nil
}

func (s *CatalogService) GetIndicator(ctx context.Context, id uuid.UUID) (*domain.Indicator, error) {
	return getCatalog(ctx, s.indicatorRepo, id, ErrIndicatorNotFound)
}

func (s *CatalogService) ListIndicators(ctx context.Context, search string) ([]domain.Indicator, error) {
	return s.indicatorRepo.List(ctx, search)
}

func (s *CatalogService) UpdateIndicator(ctx context.Context, id uuid.UUID, req *domain.IndicatorRequest) (*domain.Indicator, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	indicator, err := getCatalog(ctx, s.indicatorRepo, id, ErrIndicatorNotFound)
	if err != nil {
		return nil, err
	}
	applyIndicator(indicator, req)
	if err := s.indicatorRepo.Update(ctx, indicator); err != nil {
		return nil, fmt.Errorf("failed to update indicator: %w", err)
	}
	return indicator, nil
}

func applyIndicator(indicator *domain.Indicator, req *domain.IndicatorRequest) {
	indicator.Code = strings.TrimSpace(req.Code)
	indicator.Name = strings.TrimSpace(req.Name)
	indicator.Unit = strings.TrimSpace(req.Unit)
	indicator.Description = req.Description
}
