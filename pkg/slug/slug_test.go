// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BryanPineda21/HWSphere/pkg/slug"
)

/*
TestFrom verifies accent stripping and hyphen collapsing.
*/
func TestFrom(t *testing.T) {
	assert.Equal(t, "robot-arm-controle", slug.From("  Robot   Arm: Contrôle "))
	assert.Equal(t, "", slug.From("!!!"))
}

/*
TestFileName verifies stem slugging with extension preservation.
*/
func TestFileName(t *testing.T) {
	tests := map[string]string{
		"Drone Frame v2.STL":    "drone-frame-v2.stl",
		"../../etc/passwd":      "passwd",
		`C:\Users\me\main.py`:   "main.py",
		"notes":                 "notes",
		".env":                  "file.env",
		"Schéma électrique.pdf": "schema-electrique.pdf",
	}

	for input, want := range tests {
		assert.Equal(t, want, slug.FileName(input), input)
	}
}
