package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PersonService manages people and their project memberships. Membership is
// recorded on the person only.
type PersonService struct {
	personRepo  *repository.PersonRepository
	projectRepo *repository.ProjectRepository
	orgRepo     *repository.OrganizationRepository
	logger      *zap.Logger
}

// NewPersonService creates a new PersonService
func NewPersonService(
	personRepo *repository.PersonRepository,
	projectRepo *repository.ProjectRepository,
	orgRepo *repository.OrganizationRepository,
	logger *zap.Logger,
) *PersonService {
	return &PersonService{
		personRepo:  personRepo,
		projectRepo: projectRepo,
		orgRepo:     orgRepo,
		logger:      logger,
	}
}

func normalizeRoles(roles []domain.Role) (domain.StringList, error) {
	if len(roles) == 0 {
		return nil, invalidInput("a person needs at least one role")
	}
	out := make(domain.StringList, 0, len(roles))
	for _, r := range roles {
		if !r.IsValid() {
			return nil, invalidInput("unknown role %q", r)
		}
		if !out.Contains(string(r)) {
			out = append(out, string(r))
		}
	}
	return out, nil
}

func (s *PersonService) checkEmail(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.personRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != self {
		return ErrDuplicateEmail
	}
	return nil
}

func (s *PersonService) get(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

// Create registers a person. New people start as invited unless a status is given.
func (s *PersonService) Create(ctx context.Context, req *domain.PersonRequest) (*domain.Person, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	person := &domain.Person{Status: domain.PersonStatusInvited}
	if err := s.apply(ctx, person, req); err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, person.Email, uuid.Nil); err != nil {
		return nil, err
	}
	person.ProjectCodes = domain.StringList{}

	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	s.logger.Info("person created",
		zap.String("id", person.ID.String()),
		zap.String("email", person.Email),
		zap.Strings("roles", person.Roles),
	)
	return person, nil
}

// GetByID returns a person. Staff see everyone; others only themselves.
func (s *PersonService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	user := auth.CurrentUser(ctx)
	if !user.IsStaff() && user.PersonID != id {
		return nil, ErrPermissionDenied
	}
	return s.get(ctx, id)
}

// List returns people matching filters
func (s *PersonService) List(ctx context.Context, filters repository.PersonFilters) ([]domain.Person, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	people, err := s.personRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

// Update edits a person's identity, roles and status
func (s *PersonService) Update(ctx context.Context, id uuid.UUID, req *domain.PersonRequest) (*domain.Person, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	person, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, person, req); err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, person.Email, person.ID); err != nil {
		return nil, err
	}
	if err := s.personRepo.Update(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	return person, nil
}

func (s *PersonService) apply(ctx context.Context, person *domain.Person, req *domain.PersonRequest) error {
	roles, err := normalizeRoles(req.Roles)
	if err != nil {
		return err
	}
	if req.Status != "" {
		if !req.Status.IsValid() {
			return invalidInput("unknown status %q", req.Status)
		}
		person.Status = req.Status
	}
	if err := checkCatalogRef(ctx, s.orgRepo, req.OrganizationID, ErrOrganizationNotFound); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return invalidInput("email is required")
	}

	person.Name = strings.TrimSpace(req.Name)
	person.Email = email
	person.Phone = strings.TrimSpace(req.Phone)
	person.Roles = roles
	person.OrganizationID = req.OrganizationID
	return nil
}

// AssignProject adds a project to a person's memberships
func (s *PersonService) AssignProject(ctx context.Context, id uuid.UUID, code string) (*domain.Person, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.GetByCode(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	person, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if person.ProjectCodes.Contains(code) {
		return person, nil
	}

	codes := append(domain.StringList{}, person.ProjectCodes...)
	codes = append(codes, code)
	if err := s.personRepo.SetProjectCodes(ctx, id, codes); err != nil {
		return nil, fmt.Errorf("failed to assign project: %w", err)
	}
	person.ProjectCodes = codes

	s.logger.Info("person assigned to project",
		zap.String("person_id", id.String()),
		zap.String("code", code),
	)
	return person, nil
}

// UnassignProject removes a project from a person's memberships
func (s *PersonService) UnassignProject(ctx context.Context, id uuid.UUID, code string) (*domain.Person, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	person, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !person.ProjectCodes.Contains(code) {
		return nil, fmt.Errorf("%w: person is not assigned to %s", ErrNotFound, code)
	}

	codes := make(domain.StringList, 0, len(person.ProjectCodes))
	for _, c := range person.ProjectCodes {
		if c != code {
			codes = append(codes, c)
		}
	}
	if err := s.personRepo.SetProjectCodes(ctx, id, codes); err != nil {
		return nil, fmt.Errorf("failed to unassign project: %w", err)
	}
	person.ProjectCodes = codes
	return person, nil
}
