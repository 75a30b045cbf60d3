package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/mapper"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/storage"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/workplan"
	"go.uber.org/zap"
)

// FileUpload is one file received from a client
type FileUpload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// FileService passes uploads through to the object store and records the
// resulting attachment on the owning node. A store failure leaves the
// project untouched; a failed record after a successful upload leaves the
// object orphaned.
type FileService struct {
	editor  *projectEditor
	store   storage.ObjectStore
	folders *storage.Folders
	clock   Clock
	logger  *zap.Logger
}

// NewFileService creates a new FileService
func NewFileService(
	projectRepo *repository.ProjectRepository,
	store storage.ObjectStore,
	rootFolder string,
	clock Clock,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		editor:  &projectEditor{projectRepo: projectRepo, logger: logger},
		store:   store,
		folders: storage.NewFolders(store, rootFolder),
		clock:   clock,
		logger:  logger,
	}
}

// prepare loads a project the caller may edit before anything is uploaded
func (s *FileService) prepare(ctx context.Context, code string) (*domain.Project, error) {
	project, err := s.editor.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if !auth.CurrentUser(ctx).CanEdit(code) {
		return nil, ErrPermissionDenied
	}
	return project, nil
}

func (s *FileService) upload(ctx context.Context, p *domain.Project, up FileUpload, folderPath ...string) (domain.FileDTO, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(up.Filename), `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return domain.FileDTO{}, invalidInput("file name is required")
	}
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	folderID, err := s.folders.Ensure(ctx, p, folderPath...)
	if err != nil {
		return domain.FileDTO{}, fmt.Errorf("%w: %w", ErrExternal, err)
	}
	fileID, size, err := s.store.Upload(ctx, folderID, name, contentType, up.Data)
	if err != nil {
		return domain.FileDTO{}, fmt.Errorf("%w: %w", ErrExternal, err)
	}

	s.logger.Info("file uploaded",
		zap.String("code", p.Code),
		zap.String("folder", folderID),
		zap.String("file_id", fileID),
		zap.Int64("size", size),
	)

	att := mapper.NewAttachment(fileID, name, s.store.PublicURL(fileID), contentType, size, s.clock.now())
	return mapper.ToFileDTO(att, folderID), nil
}

// UploadContract stores a signed contract of the project
func (s *FileService) UploadContract(ctx context.Context, edit Edit, up FileUpload) (*domain.EditResponse[domain.FileDTO], error) {
	project, err := s.prepare(ctx, edit.Code)
	if err != nil {
		return nil, err
	}
	file, err := s.upload(ctx, project, up, storage.FolderContracts)
	if err != nil {
		return nil, err
	}

	saved, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		contracts, err := workplan.Append(p.Contracts, file.Attachment)
		if err != nil {
			return nil, err
		}
		p.Contracts = contracts
		return []repository.ProjectField{repository.FieldContracts}, nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.FileDTO]{Data: file, Version: saved.Version}, nil
}

// UploadMapFile stores a map of the project area
func (s *FileService) UploadMapFile(ctx context.Context, edit Edit, up FileUpload) (*domain.EditResponse[domain.FileDTO], error) {
	project, err := s.prepare(ctx, edit.Code)
	if err != nil {
		return nil, err
	}
	file, err := s.upload(ctx, project, up, storage.FolderLocations)
	if err != nil {
		return nil, err
	}

	saved, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		files, err := workplan.Append(p.Locations.MapFiles, file.Attachment)
		if err != nil {
			return nil, err
		}
		p.Locations.MapFiles = files
		return []repository.ProjectField{repository.FieldLocations}, nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.FileDTO]{Data: file, Version: saved.Version}, nil
}

// UploadReportFile attaches a document or, with asPhoto, a gallery photo to
// an activity report. Files land in the folder of the report's number.
func (s *FileService) UploadReportFile(ctx context.Context, edit Edit, rp ReportPath, up FileUpload, asPhoto bool, caption string) (*domain.EditResponse[domain.FileDTO], error) {
	project, err := s.prepare(ctx, edit.Code)
	if err != nil {
		return nil, err
	}
	report, err := findReport(project.WorkPlan, rp)
	if err != nil {
		return nil, err
	}
	file, err := s.upload(ctx, project, up, storage.FolderReports, storage.ReportFolder(report.ReportNumber))
	if err != nil {
		return nil, err
	}

	saved, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		components, err := workplan.UpdateActivityReport(p.WorkPlan, rp.ComponentID, rp.DeliverableID, rp.ActivityID, rp.ReportID,
			func(r domain.ActivityReport) (domain.ActivityReport, error) {
				if asPhoto {
					r.Photos = append(append([]domain.Photo{}, r.Photos...), domain.Photo{Attachment: file.Attachment, Caption: caption})
					return r, nil
				}
				attachments, err := workplan.Append(r.Attachments, file.Attachment)
				if err != nil {
					return r, err
				}
				r.Attachments = attachments
				return r, nil
			})
		if err != nil {
			return nil, err
		}
		p.WorkPlan = components
		return []repository.ProjectField{repository.FieldWorkPlan}, nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.FileDTO]{Data: file, Version: saved.Version}, nil
}

// UploadExpenseReceipt attaches a receipt to an expense. Each expense has
// its own folder named by its opaque id.
func (s *FileService) UploadExpenseReceipt(ctx context.Context, edit Edit, lineID, expenseID string, up FileUpload) (*domain.EditResponse[domain.FileDTO], error) {
	project, err := s.prepare(ctx, edit.Code)
	if err != nil {
		return nil, err
	}
	line, ok := workplan.Find(project.BudgetLines, lineID)
	if !ok {
		return nil, fmt.Errorf("%w: budget line %s", ErrNodeNotFound, lineID)
	}
	if _, ok := workplan.Find(line.Entries, expenseID); !ok {
		return nil, fmt.Errorf("%w: expense %s", ErrNodeNotFound, expenseID)
	}

	file, err := s.upload(ctx, project, up, storage.FolderExpenses, expenseID)
	if err != nil {
		return nil, err
	}

	saved, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		lines, err := workplan.UpdateExpense(p.BudgetLines, lineID, expenseID, func(e domain.Expense) (domain.Expense, error) {
			attachments, err := workplan.Append(e.Attachments, file.Attachment)
			if err != nil {
				return e, err
			}
			e.Attachments = attachments
			return e, nil
		})
		if err != nil {
			return nil, err
		}
		p.BudgetLines = lines
		return []repository.ProjectField{repository.FieldBudgetLines}, nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.FileDTO]{Data: file, Version: saved.Version}, nil
}

// Download opens a stored object. Objects inside a project folder are only
// served to callers who can view that project.
func (s *FileService) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	user := auth.CurrentUser(ctx)
	if code, ok := s.folders.ProjectCodeOf(fileID); ok {
		if !user.CanView(code) {
			return nil, ErrPermissionDenied
		}
	} else if !user.IsStaff() {
		return nil, ErrPermissionDenied
	}
	rc, err := s.store.Download(ctx, fileID)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrExternal, err)
	}
	return rc, nil
}

func findReport(components []domain.Component, rp ReportPath) (domain.ActivityReport, error) {
	notFound := func(what, id string) error {
		return fmt.Errorf("%w: %s %s", ErrNodeNotFound, what, id)
	}
	c, ok := workplan.Find(components, rp.ComponentID)
	if !ok {
		return domain.ActivityReport{}, notFound("component", rp.ComponentID)
	}
	d, ok := workplan.Find(c.Deliverables, rp.DeliverableID)
	if !ok {
		return domain.ActivityReport{}, notFound("deliverable", rp.DeliverableID)
	}
	a, ok := workplan.Find(d.Activities, rp.ActivityID)
	if !ok {
		return domain.ActivityReport{}, notFound("activity", rp.ActivityID)
	}
	r, ok := workplan.Find(a.Reports, rp.ReportID)
	if !ok {
		return domain.ActivityReport{}, notFound("report", rp.ReportID)
	}
	return r, nil
}
