package domain

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Project DTOs
// ============================================================================

// ProjectDTO is the full project document as exposed over the API
type ProjectDTO struct {
	ID               uuid.UUID          `json:"id"`
	Code             string             `json:"code"`
	Acronym          string             `json:"acronym"`
	Name             string             `json:"name"`
	OrganizationID   *uuid.UUID         `json:"organizationId,omitempty"`
	CallID           *uuid.UUID         `json:"callId,omitempty"`
	GeneralObjective string             `json:"generalObjective,omitempty"`
	DurationMonths   int                `json:"durationMonths"`
	ContractStart    string             `json:"contractStart,omitempty"`
	ContractEnd      string             `json:"contractEnd,omitempty"`
	Status           string             `json:"status,omitempty"`
	Version          int                `json:"version"`
	Installments     []Installment      `json:"installments"`
	WorkPlan         []Component        `json:"workPlan"`
	BudgetLines      []BudgetLineDTO    `json:"budgetLines"`
	Indicators       []ProjectIndicator `json:"indicators"`
	ImpactsShortTerm []Impact           `json:"impactsShortTerm"`
	ImpactsLongTerm  []Impact           `json:"impactsLongTerm"`
	Locations        Locations          `json:"locations"`
	Contracts        []Attachment       `json:"contracts"`
	Schedule         *ProjectStatusDTO  `json:"schedule,omitempty"`
	CreatedAt        string             `json:"createdAt"`
	UpdatedAt        string             `json:"updatedAt"`
}

// ProjectSummaryDTO is the list representation of a project
type ProjectSummaryDTO struct {
	ID             uuid.UUID  `json:"id"`
	Code           string     `json:"code"`
	Acronym        string     `json:"acronym"`
	Name           string     `json:"name"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty"`
	CallID         *uuid.UUID `json:"callId,omitempty"`
	ContractStart  string     `json:"contractStart,omitempty"`
	ContractEnd    string     `json:"contractEnd,omitempty"`
	Status         string     `json:"status,omitempty"`
	Version        int        `json:"version"`
}

// BudgetLineDTO adds the spent total to a budget line
type BudgetLineDTO struct {
	BudgetLine
	Spent float64 `json:"spent"`
}

// CreateProjectRequest registers a project with its identity and descriptive fields
type CreateProjectRequest struct {
	Code             string     `json:"code" validate:"required,max=50"`
	Acronym          string     `json:"acronym" validate:"required,max=50"`
	Name             string     `json:"name" validate:"required,max=300"`
	OrganizationID   *uuid.UUID `json:"organizationId,omitempty"`
	CallID           *uuid.UUID `json:"callId,omitempty"`
	GeneralObjective string     `json:"generalObjective,omitempty"`
	DurationMonths   int        `json:"durationMonths" validate:"gte=0,lte=240"`
	ContractStart    string     `json:"contractStart,omitempty" validate:"omitempty,date"`
	ContractEnd      string     `json:"contractEnd,omitempty" validate:"omitempty,date"`
}

// UpdateProjectRequest edits the descriptive fields of a project. The code is immutable.
type UpdateProjectRequest struct {
	Acronym          string     `json:"acronym" validate:"required,max=50"`
	Name             string     `json:"name" validate:"required,max=300"`
	OrganizationID   *uuid.UUID `json:"organizationId,omitempty"`
	CallID           *uuid.UUID `json:"callId,omitempty"`
	GeneralObjective string     `json:"generalObjective,omitempty"`
	DurationMonths   int        `json:"durationMonths" validate:"gte=0,lte=240"`
	ContractStart    string     `json:"contractStart,omitempty" validate:"omitempty,date"`
	ContractEnd      string     `json:"contractEnd,omitempty" validate:"omitempty,date"`
}

// UpdateProjectStatusRequest sets or clears the cancellation override
type UpdateProjectStatusRequest struct {
	Cancelled bool `json:"cancelled"`
}

// InstallmentInput is one row of a schedule being (re)defined
type InstallmentInput struct {
	Number        int     `json:"number" validate:"gte=1"`
	DueDate       string  `json:"dueDate" validate:"required,date"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	ReportDueDate string  `json:"reportDueDate,omitempty" validate:"omitempty,date"`
}

// SetInstallmentsRequest replaces the disbursement schedule
type SetInstallmentsRequest struct {
	Installments []InstallmentInput `json:"installments" validate:"dive"`
}

// SubmitReportRequest records the submission date of a progress report
type SubmitReportRequest struct {
	SubmittedDate string `json:"submittedDate,omitempty" validate:"omitempty,date"`
}

// ============================================================================
// Status DTOs
// ============================================================================

// ProjectStatusDTO is one dashboard row produced by the status engine
type ProjectStatusDTO struct {
	Code           string `json:"code"`
	Acronym        string `json:"acronym"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	NextEventLabel string `json:"nextEventLabel,omitempty"`
	NextEventDate  string `json:"nextEventDate,omitempty"`
	DayOffset      *int   `json:"dayOffset,omitempty"`
	Warning        string `json:"warning,omitempty"`
}

// DashboardDTO is the status board over every visible project
type DashboardDTO struct {
	Today    string             `json:"today"`
	Rows     []ProjectStatusDTO `json:"rows"`
	Counts   map[string]int     `json:"counts"`
	Warnings int                `json:"warnings"`
}

// ReportReviewDTO aggregates the review state of everything filed under one report number
type ReportReviewDTO struct {
	ReportNumber int    `json:"reportNumber"`
	Status       string `json:"status"`
	Total        int    `json:"total"`
	Accepted     int    `json:"accepted"`
	Rejected     int    `json:"rejected"`
	Open         int    `json:"open"`
}

// ============================================================================
// Work plan requests
// ============================================================================

// ComponentRequest creates or renames a component
type ComponentRequest struct {
	ID   string `json:"id,omitempty" validate:"omitempty,max=64"`
	Name string `json:"name" validate:"required,max=300"`
}

// DeliverableRequest creates or edits a deliverable
type DeliverableRequest struct {
	ID              string   `json:"id,omitempty" validate:"omitempty,max=64"`
	Name            string   `json:"name" validate:"required,max=300"`
	DonorIndicators []string `json:"donorIndicators,omitempty"`
}

// MonitoringRowsRequest replaces the project indicators of a deliverable
type MonitoringRowsRequest struct {
	Rows []MonitoringRow `json:"rows" validate:"dive"`
}

// ActivityRequest creates or edits an activity
type ActivityRequest struct {
	ID        string `json:"id,omitempty" validate:"omitempty,max=64"`
	Name      string `json:"name" validate:"required,max=500"`
	StartDate string `json:"startDate,omitempty" validate:"omitempty,date"`
	EndDate   string `json:"endDate,omitempty" validate:"omitempty,date"`
}

// ActivityReportRequest creates or edits an activity report
type ActivityReportRequest struct {
	ReportNumber int    `json:"reportNumber" validate:"gte=1"`
	Narrative    string `json:"narrative" validate:"required"`
	When         string `json:"when,omitempty"`
	Where        string `json:"where,omitempty"`
}

// ReviewRequest sets the review state of a report or expense
type ReviewRequest struct {
	Status ReviewStatus `json:"status" validate:"required,oneof=open accepted rejected"`
	Note   string       `json:"note,omitempty"`
}

// ============================================================================
// Budget requests
// ============================================================================

// BudgetLineRequest creates or edits a budget line
type BudgetLineRequest struct {
	Category      string  `json:"category" validate:"required,max=200"`
	ExpenseName   string  `json:"expenseName" validate:"required,max=300"`
	PlannedAmount float64 `json:"plannedAmount" validate:"gte=0"`
}

// ExpenseRequest creates or edits an expense entry
type ExpenseRequest struct {
	ReportNumber int     `json:"reportNumber" validate:"gte=1"`
	Date         string  `json:"date" validate:"required,date"`
	Description  string  `json:"description" validate:"required,max=1000"`
	Supplier     string  `json:"supplier,omitempty" validate:"max=300"`
	TaxID        string  `json:"taxId,omitempty" validate:"max=30"`
	Amount       float64 `json:"amount" validate:"gt=0"`
}

// ============================================================================
// Monitoring requests
// ============================================================================

// ProjectIndicatorRequest sets a project's contribution to a catalog indicator
type ProjectIndicatorRequest struct {
	ContributionValue       float64 `json:"contributionValue" validate:"gte=0"`
	ContributionDescription string  `json:"contributionDescription,omitempty"`
	IntermediateResult      string  `json:"intermediateResult,omitempty"`
	FinalResult             string  `json:"finalResult,omitempty"`
}

// ImpactRequest creates or edits an impact statement
type ImpactRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// ============================================================================
// People and catalogs
// ============================================================================

// PersonRequest creates or edits a person
type PersonRequest struct {
	Name           string       `json:"name" validate:"required,max=200"`
	Email          string       `json:"email" validate:"required,email,max=255"`
	Phone          string       `json:"phone,omitempty" validate:"max=50"`
	Roles          []Role       `json:"roles" validate:"required,min=1,dive,oneof=administrator staff beneficiary visitor"`
	Status         PersonStatus `json:"status,omitempty" validate:"omitempty,oneof=active invited inactive"`
	OrganizationID *uuid.UUID   `json:"organizationId,omitempty"`
}

// OrganizationRequest creates or edits a partner organization
type OrganizationRequest struct {
	Name    string `json:"name" validate:"required,max=300"`
	Acronym string `json:"acronym,omitempty" validate:"max=50"`
	TaxID   string `json:"taxId,omitempty" validate:"max=30"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
}

// FunderRequest creates or edits a funder
type FunderRequest struct {
	Name    string `json:"name" validate:"required,max=300"`
	Acronym string `json:"acronym,omitempty" validate:"max=50"`
}

// CallRequest creates or edits a call for proposals
type CallRequest struct {
	Code     string    `json:"code" validate:"required,max=50"`
	Name     string    `json:"name" validate:"required,max=300"`
	FunderID uuid.UUID `json:"funderId" validate:"required"`
	Year     int       `json:"year" validate:"gte=2000,lte=2100"`
}

// IndicatorRequest creates or edits a catalog indicator
type IndicatorRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=300"`
	Unit        string `json:"unit,omitempty" validate:"max=50"`
	Description string `json:"description,omitempty"`
}

// FileDTO describes an uploaded object and where it was attached
type FileDTO struct {
	Attachment
	FolderID string `json:"folderId"`
}

// TimestampString renders timestamps in API responses
func TimestampString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// PaginatedResponse wraps one page of a listing
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// EditResponse returns an edited node together with the project version the
// edit produced. Clients send the version back in If-Match.
type EditResponse[T any] struct {
	Data    T   `json:"data"`
	Version int `json:"version"`
}

// AuthUserDTO describes the authenticated caller
type AuthUserDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Roles        []Role    `json:"roles"`
	ProjectCodes []string  `json:"projectCodes"`
	IsSystem     bool      `json:"isSystem"`
	CanEditAll   bool      `json:"canEditAll"`
}
