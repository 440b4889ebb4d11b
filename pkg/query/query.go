// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

// Package query parses list-valued form and query-string parameters.
package query

import (
	"strings"
)

// StringSlice parses a single comma-separated value into a trimmed slice of
// strings. Empty entries are dropped.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Values flattens repeated parameters ("tags=a&tags=b,c") into one trimmed list.
func Values(vals []string) []string {
	var res []string
	for _, v := range vals {
		res = append(res, StringSlice(v)...)
	}
	return res
}
