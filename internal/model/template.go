// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package model

import "regexp"

// SubstitutionPolicy selects how a CommandTemplate's arguments are expanded
// against an InvocationRecord.
type SubstitutionPolicy int

const (
	// SubstitutionNone appends the record's fields as extra arguments, or,
	// when the template has no prefix, treats the record's single field as
	// the whole command line.
	SubstitutionNone SubstitutionPolicy = iota
	// SubstitutionAutoNumbered binds {1},{2},... to Cartesian-product
	// groups and {0}/{} to the whole joined tuple.
	SubstitutionAutoNumbered
	// SubstitutionRegex expands named/numbered capture groups from a
	// user-supplied regex into every argument of the template.
	SubstitutionRegex
)

// CommandTemplate is the command and initial arguments named by the user,
// plus the substitution policy used to expand it against each record.
type CommandTemplate struct {
	ArgvPrefix []string
	Policy     SubstitutionPolicy
	Regex      *regexp.Regexp // non-nil only when Policy == SubstitutionRegex
}
