// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package builder implements the Builder pipeline stage (§4.2): for each
// InvocationRecord it applies the CommandTemplate's substitution policy,
// resolves argv[0] through the path cache, and emits a SpawnRequest — or,
// when the record is dropped (regex miss, dry-run) or argv[0] cannot be
// resolved, a SinkItem bypassing the scheduler/runner entirely.
package builder

import (
	"context"
	"strings"
	"time"

	"parun/internal/ctxlog"
	"parun/internal/model"
	"parun/internal/pathcache"
)

// Builder assembles SpawnRequests from InvocationRecords.
type Builder struct {
	Template  model.CommandTemplate
	Shell     bool
	ShellPath string
	Timeout   time.Duration
	Discard   model.DiscardPolicy
	DryRun    bool
	Resolver  pathcache.Resolver
}

// Run consumes in until it is closed, emitting SpawnRequests onto requests
// and skip markers / SpawnError OutputRecords onto sink. It returns when in
// is closed or ctx is cancelled and closes neither channel itself: sink is
// shared with the scheduler, so the caller closes requests once Run returns
// and closes sink once every producer onto it has exited.
func (b *Builder) Run(
	ctx context.Context,
	in <-chan model.InvocationRecord,
	requests chan<- model.SpawnRequest,
	sink chan<- model.SinkItem,
) {
	shellPath := b.ShellPath
	if shellPath == "" {
		shellPath = DefaultShellPath
	}

	for {
		var rec model.InvocationRecord

		var ok bool

		select {
		case rec, ok = <-in:
			if !ok {
				return
			}
		case <-ctx.Done():
			return
		}

		b.build(ctx, rec, shellPath, requests, sink)
	}
}

func (b *Builder) build(
	ctx context.Context,
	rec model.InvocationRecord,
	shellPath string,
	requests chan<- model.SpawnRequest,
	sink chan<- model.SinkItem,
) {
	logger := ctxlog.Logger(ctx).With("stage", "builder", "id", rec.ID, "origin", rec.Origin.String())

	argv, ok := b.assemble(ctx, rec)
	if !ok {
		logger.Warn("dropping record", "error", model.ErrRegexNoMatch)
		b.sendSkip(ctx, rec.ID, sink)

		return
	}

	if len(argv) == 0 {
		logger.Warn("record produced an empty command, dropping")
		b.sendSkip(ctx, rec.ID, sink)

		return
	}

	if b.Shell {
		argv = []string{shellPath, "-c", shellJoin(argv)}
	}

	if b.DryRun {
		logger.Info("dry run", "command", strings.Join(argv, " "))
		b.sendSkip(ctx, rec.ID, sink)

		return
	}

	resolved, err := b.Resolver.Resolve(ctx, argv[0])
	if err != nil {
		logger.Warn("could not resolve executable", "executable", argv[0], "error", err)
		b.sendSpawnError(ctx, rec, err, sink)

		return
	}

	argv[0] = resolved

	req := model.SpawnRequest{
		ID:      rec.ID,
		Origin:  rec.Origin,
		Argv:    argv,
		Shell:   false, // already wrapped above; the runner never wraps again
		Timeout: b.Timeout,
		Discard: b.Discard,
	}

	select {
	case requests <- req:
	case <-ctx.Done():
	}
}

// assemble builds the pre-shell argv for rec, or returns ok=false when a
// configured regex failed to match (§4.2).
func (b *Builder) assemble(ctx context.Context, rec model.InvocationRecord) ([]string, bool) {
	switch b.Template.Policy {
	case model.SubstitutionRegex:
		subs, matched := buildRegexSubstitutions(b.Template.Regex, rec.Joined())
		if !matched {
			return nil, false
		}

		return applySubstitutions(ctx, b.Template.ArgvPrefix, subs, rec.Origin), true

	case model.SubstitutionAutoNumbered:
		subs := buildAutoNumberedSubstitutions(rec)
		return applySubstitutions(ctx, b.Template.ArgvPrefix, subs, rec.Origin), true

	default: // model.SubstitutionNone
		return b.assembleNone(rec), true
	}
}

// assembleNone implements §4.2 "Command assembly" for the no-substitution
// policy: append the record's fields as extra args, or, when the template
// has no prefix, treat the record's single field as the whole command line
// (split on whitespace unless shell mode, in which case it is passed
// through untouched for the shell to parse).
func (b *Builder) assembleNone(rec model.InvocationRecord) []string {
	if len(b.Template.ArgvPrefix) == 0 {
		joined := rec.Joined()
		if b.Shell {
			return []string{joined}
		}

		return strings.Fields(joined)
	}

	argv := make([]string, 0, len(b.Template.ArgvPrefix)+len(rec.RawFields))
	argv = append(argv, b.Template.ArgvPrefix...)
	argv = append(argv, rec.RawFields...)

	return argv
}

// sendSkip and sendSpawnError both commit an outcome for rec's ID — a skip
// marker or a terminal OutputRecord — so, per §5 "no record is lost", they
// always deliver to the sink rather than racing a select against ctx.Done.
func (b *Builder) sendSkip(_ context.Context, id model.InvocationID, sink chan<- model.SinkItem) {
	sink <- model.SinkItem{Skip: &model.SkipMarker{ID: id}}
}

func (b *Builder) sendSpawnError(_ context.Context, rec model.InvocationRecord, err error, sink chan<- model.SinkItem) {
	sink <- model.SinkItem{Output: &model.OutputRecord{
		ID:     rec.ID,
		Origin: rec.Origin,
		Outcome: model.Outcome{
			Kind: model.SpawnError,
			Code: -1,
			Err:  err,
		},
	}}
}
