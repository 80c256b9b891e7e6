package domain

import (
	"fmt"
	"sort"
)

// Column identifies a roster column.
type Column string

const (
	ColumnName      Column = "name"
	ColumnEmail     Column = "email"
	ColumnPhone     Column = "phone"
	ColumnCompany   Column = "company"
	ColumnStatus    Column = "status"
	ColumnCreatedAt Column = "created_at"
)

// ColumnSpec describes a roster column.
type ColumnSpec struct {
	Key      Column
	Sortable bool
}

// Columns is the roster column catalogue in display order.
var Columns = []ColumnSpec{
	{Key: ColumnName, Sortable: true},
	{Key: ColumnEmail, Sortable: true},
	{Key: ColumnPhone, Sortable: false},
	{Key: ColumnCompany, Sortable: true},
	{Key: ColumnStatus, Sortable: true},
	{Key: ColumnCreatedAt, Sortable: true},
}

// IsValid checks if the column is part of the catalogue.
func (c Column) IsValid() bool {
	for _, spec := range Columns {
		if spec.Key == c {
			return true
		}
	}
	return false
}

// IsSortable reports whether the roster can be ordered by this column.
func (c Column) IsSortable() bool {
	for _, spec := range Columns {
		if spec.Key == c {
			return spec.Sortable
		}
	}
	return false
}

// String returns the string representation of the column.
func (c Column) String() string {
	return string(c)
}

// ParseColumn parses a column name. Empty input yields the empty column (unsorted).
func ParseColumn(value string) (Column, error) {
	if value == "" {
		return "", nil
	}
	c := Column(value)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid column: %s", value)
	}
	return c, nil
}

// SortOrder specifies the sort direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// IsValid checks if the sort order is valid.
func (s SortOrder) IsValid() bool {
	switch s {
	case SortOrderAsc, SortOrderDesc:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sort order.
func (s SortOrder) String() string {
	return string(s)
}

// Flip returns the opposite direction.
func (s SortOrder) Flip() SortOrder {
	if s == SortOrderDesc {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// ParseSortOrder parses a string into a SortOrder. Empty input yields ascending.
func ParseSortOrder(order string) (SortOrder, error) {
	if order == "" {
		return SortOrderAsc, nil
	}
	o := SortOrder(order)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid sort order: %s", order)
	}
	return o, nil
}

// SortClients returns a copy of clients ordered by column.
// The sort is stable: clients with equal keys keep their input order in both directions.
// A non-sortable or empty column returns an unmodified copy.
func SortClients(clients []Client, column Column, order SortOrder) []Client {
	sorted := make([]Client, len(clients))
	copy(sorted, clients)
	if len(sorted) < 2 || !column.IsSortable() {
		return sorted
	}

	desc := order == SortOrderDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		c := compareByColumn(sorted[i], sorted[j], column)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

// compareByColumn returns -1, 0 or 1. Strings compare byte-wise, so casing matters.
func compareByColumn(a, b Client, column Column) int {
	switch column {
	case ColumnCreatedAt:
		return a.CreatedTime().Compare(b.CreatedTime())
	default:
		return compareStrings(columnValue(a, column), columnValue(b, column))
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// columnValue returns the textual value of a client column.
func columnValue(c Client, column Column) string {
	switch column {
	case ColumnName:
		return c.Name
	case ColumnEmail:
		return c.Email
	case ColumnPhone:
		return c.Phone
	case ColumnCompany:
		return c.Company
	case ColumnStatus:
		return string(c.Status)
	case ColumnCreatedAt:
		return c.CreatedAt
	default:
		return ""
	}
}
