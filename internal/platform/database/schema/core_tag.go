// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package schema

// CoreTagTable represents the 'core.tag' table
type CoreTagTable struct {
	Table     string
	ID        string
	Name      string
	Count     string
	CreatedAt string
	UpdatedAt string
}

// CoreTag is the schema definition for core.tag
var CoreTag = CoreTagTable{
	Table:     "core.tag",
	ID:        "id",
	Name:      "name",
	Count:     "count",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t CoreTagTable) Columns() []string {
	return []string{t.ID, t.Name, t.Count, t.CreatedAt, t.UpdatedAt}
}
