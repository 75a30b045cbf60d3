package domain

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// EnsureID assigns a fresh identifier when the record has none yet.
func (b *BaseModel) EnsureID() {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
}

// ProjectStatusCancelled is the only stored status override; it short-circuits
// every schedule derivation.
const ProjectStatusCancelled = "Cancelled"

// Project is the root document of a grant. Nested subtrees are persisted as
// JSON columns so that each edit replaces exactly one column.
type Project struct {
	BaseModel
	Code             string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Acronym          string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name             string            `gorm:"type:varchar(300);not null"`
	OrganizationID   *uuid.UUID        `gorm:"type:uuid;index;column:organization_id"`
	CallID           *uuid.UUID        `gorm:"type:uuid;index;column:call_id"`
	GeneralObjective string            `gorm:"type:text;column:general_objective"`
	DurationMonths   int               `gorm:"not null;default:0;column:duration_months"`
	ContractStart    string            `gorm:"type:varchar(10);column:contract_start"`
	ContractEnd      string            `gorm:"type:varchar(10);column:contract_end"`
	Status           string            `gorm:"type:varchar(30)"`
	Version          int               `gorm:"not null;default:1"`
	Installments     Installments      `gorm:"type:jsonb"`
	WorkPlan         Components        `gorm:"type:jsonb;column:work_plan"`
	BudgetLines      BudgetLines       `gorm:"type:jsonb;column:budget_lines"`
	Indicators       ProjectIndicators `gorm:"type:jsonb"`
	ImpactsShortTerm Impacts           `gorm:"type:jsonb;column:impacts_short_term"`
	ImpactsLongTerm  Impacts           `gorm:"type:jsonb;column:impacts_long_term"`
	Locations        Locations         `gorm:"type:jsonb"`
	Contracts        Attachments       `gorm:"type:jsonb"`
}

// IsCancelled reports whether the stored override cancels the project.
func (p *Project) IsCancelled() bool {
	return p.Status == ProjectStatusCancelled
}

// FolderName is the object-store folder holding every file of the project.
func (p *Project) FolderName() string {
	return p.Code + " - " + p.Acronym
}

// Installment is one disbursement tranche, optionally paired with a progress report.
type Installment struct {
	Number              int     `json:"number"`
	DueDate             string  `json:"dueDate"`
	Amount              float64 `json:"amount"`
	ReportDueDate       string  `json:"reportDueDate,omitempty"`
	ReportSubmittedDate string  `json:"reportSubmittedDate,omitempty"`
	ReportMonitored     bool    `json:"reportMonitored,omitempty"`
}

// ReviewStatus is the acceptance state of an activity report or expense entry.
type ReviewStatus string

const (
	ReviewOpen     ReviewStatus = "open"
	ReviewAccepted ReviewStatus = "accepted"
	ReviewRejected ReviewStatus = "rejected"
)

// IsValid checks if the ReviewStatus is a valid enum value
func (rs ReviewStatus) IsValid() bool {
	switch rs {
	case ReviewOpen, ReviewAccepted, ReviewRejected:
		return true
	}
	return false
}

// Attachment references a file held by the object store.
type Attachment struct {
	FileID      string `json:"fileId"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
	UploadedAt  string `json:"uploadedAt,omitempty"`
}

// NodeID implements workplan.Node
func (a Attachment) NodeID() string { return a.FileID }

// Photo is an attachment shown in a report gallery.
type Photo struct {
	Attachment
	Caption string `json:"caption,omitempty"`
}

// ActivityReport is the narrative reported for one activity in one reporting period.
type ActivityReport struct {
	ID           string       `json:"id"`
	ReportNumber int          `json:"reportNumber"`
	Narrative    string       `json:"narrative"`
	When         string       `json:"when,omitempty"`
	Where        string       `json:"where,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	Photos       []Photo      `json:"photos,omitempty"`
	ReviewStatus ReviewStatus `json:"reviewStatus"`
	ReviewNote   string       `json:"reviewNote,omitempty"`
}

// NodeID implements workplan.Node
func (r ActivityReport) NodeID() string { return r.ID }

// Activity is the leaf of the work plan.
type Activity struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	StartDate string           `json:"startDate,omitempty"`
	EndDate   string           `json:"endDate,omitempty"`
	Reports   []ActivityReport `json:"reports,omitempty"`
}

// NodeID implements workplan.Node
func (a Activity) NodeID() string { return a.ID }

// MonitoringRow is a project-specific indicator tracked under a deliverable.
type MonitoringRow struct {
	ID        string `json:"id"`
	Indicator string `json:"indicator"`
	Baseline  string `json:"baseline,omitempty"`
	Target    string `json:"target,omitempty"`
	Achieved  string `json:"achieved,omitempty"`
	Source    string `json:"source,omitempty"`
}

// NodeID implements workplan.Node
func (m MonitoringRow) NodeID() string { return m.ID }

// Deliverable groups activities associated with donor-facing indicators.
type Deliverable struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	DonorIndicators   []string        `json:"donorIndicators,omitempty"`
	Activities        []Activity      `json:"activities,omitempty"`
	ProjectIndicators []MonitoringRow `json:"projectIndicators,omitempty"`
}

// NodeID implements workplan.Node
func (d Deliverable) NodeID() string { return d.ID }

// Component is the top level of the work plan.
type Component struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Deliverables []Deliverable `json:"deliverables,omitempty"`
}

// NodeID implements workplan.Node
func (c Component) NodeID() string { return c.ID }

// Expense is one spending entry under a budget line.
type Expense struct {
	ID           string       `json:"id"`
	ExpenseID    string       `json:"expenseId"`
	ReportNumber int          `json:"reportNumber"`
	Date         string       `json:"date"`
	Description  string       `json:"description"`
	Supplier     string       `json:"supplier,omitempty"`
	TaxID        string       `json:"taxId,omitempty"`
	Amount       float64      `json:"amount"`
	ReviewStatus ReviewStatus `json:"reviewStatus"`
	ReviewNote   string       `json:"reviewNote,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
}

// NodeID implements workplan.Node
func (e Expense) NodeID() string { return e.ID }

// BudgetLine is a planned budget item and the expenses reported against it.
type BudgetLine struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	ExpenseName   string    `json:"expenseName"`
	PlannedAmount float64   `json:"plannedAmount"`
	Entries       []Expense `json:"entries,omitempty"`
}

// NodeID implements workplan.Node
func (b BudgetLine) NodeID() string { return b.ID }

// Spent sums the amounts of every entry on the line.
func (b BudgetLine) Spent() float64 {
	var total float64
	for _, e := range b.Entries {
		total += e.Amount
	}
	return total
}

// ProjectIndicator is the project's contribution to a catalog indicator.
type ProjectIndicator struct {
	IndicatorID             string  `json:"indicatorId"`
	ContributionValue       float64 `json:"contributionValue"`
	ContributionDescription string  `json:"contributionDescription,omitempty"`
	IntermediateResult      string  `json:"intermediateResult,omitempty"`
	FinalResult             string  `json:"finalResult,omitempty"`
}

// NodeID implements workplan.Node
func (pi ProjectIndicator) NodeID() string { return pi.IndicatorID }

// ImpactTerm selects the short- or long-term impact list of a project.
type ImpactTerm string

const (
	ImpactShortTerm ImpactTerm = "short"
	ImpactLongTerm  ImpactTerm = "long"
)

// IsValid checks if the ImpactTerm is a valid enum value
func (t ImpactTerm) IsValid() bool {
	return t == ImpactShortTerm || t == ImpactLongTerm
}

// Impact is one expected project impact statement.
type Impact struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NodeID implements workplan.Node
func (i Impact) NodeID() string { return i.ID }

// LocationRef is a reference/label pair from a geographic catalog.
type LocationRef struct {
	Ref   string `json:"ref" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// Locality is a free-form place, optionally pinned by coordinates.
type Locality struct {
	Ref       string   `json:"ref"`
	Label     string   `json:"label" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// Locations is the geographic footprint of a project.
type Locations struct {
	States              []LocationRef `json:"states,omitempty" validate:"dive"`
	Municipalities      []LocationRef `json:"municipalities,omitempty" validate:"dive"`
	Localities          []Locality    `json:"localities,omitempty" validate:"dive"`
	ProtectedAreas      []LocationRef `json:"protectedAreas,omitempty" validate:"dive"`
	EcologicalCorridors []LocationRef `json:"ecologicalCorridors,omitempty" validate:"dive"`
	KBAs                []LocationRef `json:"kbas,omitempty" validate:"dive"`
	MapFiles            []Attachment  `json:"mapFiles,omitempty" validate:"-"`
}
