package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Document subtrees are stored as JSON text. Postgres columns are jsonb; SQLite
// keeps the declared type name and stores text.

// Installments is the JSON column holding a project's disbursement schedule
type Installments []Installment

// Components is the JSON column holding the work plan
type Components []Component

// BudgetLines is the JSON column holding the budget
type BudgetLines []BudgetLine

// ProjectIndicators is the JSON column holding catalog indicator contributions
type ProjectIndicators []ProjectIndicator

// Impacts is the JSON column holding one impact list
type Impacts []Impact

// Attachments is a JSON column of object-store references
type Attachments []Attachment

// StringList is a JSON column of plain strings
type StringList []string

func (v Installments) Value() (driver.Value, error)      { return jsonValue(v) }
func (v *Installments) Scan(src interface{}) error       { return jsonScan(src, v) }
func (v Components) Value() (driver.Value, error)        { return jsonValue(v) }
func (v *Components) Scan(src interface{}) error         { return jsonScan(src, v) }
func (v BudgetLines) Value() (driver.Value, error)       { return jsonValue(v) }
func (v *BudgetLines) Scan(src interface{}) error        { return jsonScan(src, v) }
func (v ProjectIndicators) Value() (driver.Value, error) { return jsonValue(v) }
func (v *ProjectIndicators) Scan(src interface{}) error  { return jsonScan(src, v) }
func (v Impacts) Value() (driver.Value, error)           { return jsonValue(v) }
func (v *Impacts) Scan(src interface{}) error            { return jsonScan(src, v) }
func (v Attachments) Value() (driver.Value, error)       { return jsonValue(v) }
func (v *Attachments) Scan(src interface{}) error        { return jsonScan(src, v) }
func (v StringList) Value() (driver.Value, error)        { return jsonValue(v) }
func (v *StringList) Scan(src interface{}) error         { return jsonScan(src, v) }
func (v Locations) Value() (driver.Value, error)         { return jsonValue(v) }
func (v *Locations) Scan(src interface{}) error          { return jsonScan(src, v) }

// Contains reports whether s is present in the list
func (v StringList) Contains(s string) bool {
	for _, item := range v {
		if item == s {
			return true
		}
	}
	return false
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func jsonScan(src interface{}, dst interface{}) error {
	var data []byte
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported json column source type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode json column: %w", err)
	}
	return nil
}
