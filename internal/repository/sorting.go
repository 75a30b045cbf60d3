package repository

import "strings"

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries. An empty Field
// keeps the listing's natural order.
type SortConfig struct {
	Field string // API field name
	Order SortOrder
}

// ParseSortOrder parses a string into SortOrder, defaulting to asc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(strings.TrimSpace(s)) == "desc" {
		return SortOrderDesc
	}
	return SortOrderAsc
}

// BuildOrderClause maps an API field name to its column through fieldMap.
// Fields outside the whitelist fall back to defaultColumn.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "ASC"
	if config.Order == SortOrderDesc {
		order = "DESC"
	}
	return column + " " + order
}

// projectSortFields whitelists the sortable project columns. Contract dates
// are stored as DD/MM/YYYY text and do not sort chronologically.
var projectSortFields = map[string]string{
	"code":          "code",
	"acronym":       "acronym",
	"name":          "name",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}
