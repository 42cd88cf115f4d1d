// SPDX-License-Identifier: MIT

// Package testing holds BDD-ish scaffolding for scenario tests. The helpers
// do nothing but carry the narrative; the descriptions keep long end-to-end
// tests readable.
package testing

func GIVEN(_ string, logic func()) {
	logic()
}

func WHEN(_ string, logic func()) {
	logic()
}

func THEN(logic func()) {
	logic()
}

func IT(_ string, logic func()) {
	logic()
}

func AND(_ string, logic func()) {
	logic()
}

func SETUP(_ string, logic func()) {
	logic()
}
