package domain

import "github.com/google/uuid"

// Organization is a partner institution that executes projects
type Organization struct {
	BaseModel
	Name    string `gorm:"type:varchar(300);not null;index" json:"name"`
	Acronym string `gorm:"type:varchar(50)" json:"acronym"`
	TaxID   string `gorm:"type:varchar(30);column:tax_id" json:"taxId"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Website string `gorm:"type:varchar(500)" json:"website"`
}

// Funder is a donor financing one or more calls
type Funder struct {
	BaseModel
	Name    string `gorm:"type:varchar(300);not null;index" json:"name"`
	Acronym string `gorm:"type:varchar(50)" json:"acronym"`
}

// Call is a public call for proposals (edital) under which projects are contracted
type Call struct {
	BaseModel
	Code     string    `gorm:"type:varchar(50);not null;index" json:"code"`
	Name     string    `gorm:"type:varchar(300);not null" json:"name"`
	FunderID uuid.UUID `gorm:"type:uuid;not null;index;column:funder_id" json:"funderId"`
	Year     int       `gorm:"not null" json:"year"`
}

// Indicator is a program-level indicator projects contribute to
type Indicator struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);not null;index" json:"code"`
	Name        string `gorm:"type:varchar(300);not null" json:"name"`
	Unit        string `gorm:"type:varchar(50)" json:"unit"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName returns the table name for Indicator
func (Indicator) TableName() string {
	return "indicators_catalog"
}
