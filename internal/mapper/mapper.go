package mapper

import (
	"fmt"
	"time"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/status"
)

// ToProjectDTO converts Project to ProjectDTO. Nil subtrees become empty
// lists so clients never see null arrays.
func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	lines := make([]domain.BudgetLineDTO, 0, len(project.BudgetLines))
	for _, l := range project.BudgetLines {
		lines = append(lines, domain.BudgetLineDTO{BudgetLine: l, Spent: l.Spent()})
	}

	return domain.ProjectDTO{
		ID:               project.ID,
		Code:             project.Code,
		Acronym:          project.Acronym,
		Name:             project.Name,
		OrganizationID:   project.OrganizationID,
		CallID:           project.CallID,
		GeneralObjective: project.GeneralObjective,
		DurationMonths:   project.DurationMonths,
		ContractStart:    project.ContractStart,
		ContractEnd:      project.ContractEnd,
		Status:           project.Status,
		Version:          project.Version,
		Installments:     nonNil(project.Installments),
		WorkPlan:         nonNil(project.WorkPlan),
		BudgetLines:      lines,
		Indicators:       nonNil(project.Indicators),
		ImpactsShortTerm: nonNil(project.ImpactsShortTerm),
		ImpactsLongTerm:  nonNil(project.ImpactsLongTerm),
		Locations:        project.Locations,
		Contracts:        nonNil(project.Contracts),
		CreatedAt:        domain.TimestampString(project.CreatedAt),
		UpdatedAt:        domain.TimestampString(project.UpdatedAt),
	}
}

// ToProjectSummaryDTO converts Project to its list representation
func ToProjectSummaryDTO(project *domain.Project) domain.ProjectSummaryDTO {
	return domain.ProjectSummaryDTO{
		ID:             project.ID,
		Code:           project.Code,
		Acronym:        project.Acronym,
		Name:           project.Name,
		OrganizationID: project.OrganizationID,
		CallID:         project.CallID,
		ContractStart:  project.ContractStart,
		ContractEnd:    project.ContractEnd,
		Status:         project.Status,
		Version:        project.Version,
	}
}

// ToProjectStatusDTO converts an engine result to a dashboard row
func ToProjectStatusDTO(project *domain.Project, r status.Result) domain.ProjectStatusDTO {
	dto := domain.ProjectStatusDTO{
		Code:           project.Code,
		Acronym:        project.Acronym,
		Name:           project.Name,
		Status:         r.Status,
		NextEventLabel: r.NextEventLabel,
		DayOffset:      r.DayOffset,
		Warning:        r.Warning,
	}
	if r.NextEventDate != nil {
		dto.NextEventDate = domain.FormatDate(*r.NextEventDate)
	}
	return dto
}

// ToReportReviewDTO converts a review aggregate
func ToReportReviewDTO(r status.ReportReview) domain.ReportReviewDTO {
	return domain.ReportReviewDTO{
		ReportNumber: r.ReportNumber,
		Status:       string(r.Status),
		Total:        r.Total(),
		Accepted:     r.Accepted,
		Rejected:     r.Rejected,
		Open:         r.Open,
	}
}

// ToFileDTO pairs an attachment with the folder it was stored in
func ToFileDTO(a domain.Attachment, folderID string) domain.FileDTO {
	return domain.FileDTO{Attachment: a, FolderID: folderID}
}

// NewAttachment builds the attachment record of a freshly uploaded object
func NewAttachment(fileID, name, url, contentType string, size int64, at time.Time) domain.Attachment {
	return domain.Attachment{
		FileID:      fileID,
		Name:        name,
		URL:         url,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  domain.TimestampString(at),
	}
}

// FormatError wraps an error with entity and operation context
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
