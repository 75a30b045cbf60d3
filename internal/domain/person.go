package domain

import "github.com/google/uuid"

// Role is a person's permission profile in the back office
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleStaff         Role = "staff"
	RoleBeneficiary   Role = "beneficiary"
	RoleVisitor       Role = "visitor"
)

// IsValid checks if the Role is a valid enum value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdministrator, RoleStaff, RoleBeneficiary, RoleVisitor:
		return true
	}
	return false
}

// PersonStatus is the account state of a person
type PersonStatus string

const (
	PersonStatusActive   PersonStatus = "active"
	PersonStatusInvited  PersonStatus = "invited"
	PersonStatusInactive PersonStatus = "inactive"
)

// IsValid checks if the PersonStatus is a valid enum value
func (s PersonStatus) IsValid() bool {
	switch s {
	case PersonStatusActive, PersonStatusInvited, PersonStatusInactive:
		return true
	}
	return false
}

// Person is a user of the back office. Project membership is stored here only;
// projects keep no reverse index.
type Person struct {
	BaseModel
	Name           string       `gorm:"type:varchar(200);not null" json:"name"`
	Email          string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone          string       `gorm:"type:varchar(50)" json:"phone"`
	Roles          StringList   `gorm:"type:jsonb;not null" json:"roles"`
	Status         PersonStatus `gorm:"type:varchar(20);not null;default:'invited';index" json:"status"`
	ProjectCodes   StringList   `gorm:"type:jsonb;column:project_codes" json:"projectCodes"`
	OrganizationID *uuid.UUID   `gorm:"type:uuid;column:organization_id" json:"organizationId"`
}

// HasRole checks if the person holds a role
func (p *Person) HasRole(role Role) bool {
	return p.Roles.Contains(string(role))
}
