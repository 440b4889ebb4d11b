// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

// Package schema holds table and column names for every HWSphere table so
// that SQL is assembled from constants rather than string literals.
package schema

import "strings"

// List joins columns for a SELECT or INSERT column list.
func List(columns []string) string {
	return strings.Join(columns, ", ")
}
