// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Summary renders the one-line end-of-run summary of §7 ("a one-line
// summary with counts per category is emitted"). Non-zero failure
// categories are folded into a multierror — generalizing the teacher's use
// of go-multierror to join per-child batch errors into folding
// RunStatistics categories instead.
func (s Snapshot) Summary() string {
	var merr *multierror.Error

	if s.FailedStatus > 0 {
		merr = multierror.Append(merr, fmt.Errorf("%d failed", s.FailedStatus))
	}

	if s.TimedOut > 0 {
		merr = multierror.Append(merr, fmt.Errorf("%d timed out", s.TimedOut))
	}

	if s.SpawnErrors > 0 {
		merr = multierror.Append(merr, fmt.Errorf("%d spawn errors", s.SpawnErrors))
	}

	if s.IoErrors > 0 {
		merr = multierror.Append(merr, fmt.Errorf("%d io errors", s.IoErrors))
	}

	if merr == nil {
		return fmt.Sprintf("%d succeeded, 0 failed", s.Succeeded)
	}

	merr.ErrorFormat = joinOneLine

	return fmt.Sprintf("%d succeeded, %s", s.Succeeded, merr.Error())
}

func joinOneLine(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}

	return strings.Join(parts, ", ")
}
