// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package cliapp

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"time"

	"github.com/urfave/cli/v3"

	"parun/internal/model"
	"parun/internal/progressbar"
	"parun/internal/source"
)

// ErrNoTemplate is returned when no positional arguments were given at all
// (§6: "the utility accepts a command template ... positionally").
var ErrNoTemplate = errors.New("no command template given")

// Config is the validated, immutable configuration for one run, built once
// in the action function and passed by value into each stage constructor
// (§9 "Global singletons": "parsed configuration is read-only after
// startup").
type Config struct {
	Template model.CommandTemplate

	StreamMode    bool
	Groups        [][]string
	InputFiles    []string
	NullSeparator bool

	Shell     bool
	ShellPath string

	Timeout time.Duration
	Discard model.DiscardPolicy

	ProgressBar   bool
	ProgressStyle progressbar.Style
	KeepOrder     bool
	DryRun        bool
	ExitOnError   bool

	Jobs             int64
	ChannelCapacity  int
	DisablePathCache bool
}

// BuildConfig validates cmd's flags and positional arguments into a Config.
// Argument-parse failures are returned as errors the caller should report
// via cli.Exit(msg, 2) (§6 "Argument-parse failures use 2").
func BuildConfig(cmd *cli.Command) (Config, error) {
	positional := cmd.Args().Slice()
	if len(positional) == 0 {
		return Config{}, ErrNoTemplate
	}

	prefix, groups, streamMode := splitTemplateAndGroups(positional)

	cfg := Config{
		StreamMode:       streamMode,
		Groups:           groups,
		InputFiles:       cmd.StringSlice(inputFileFlag),
		NullSeparator:    cmd.Bool(nullSeparatorFlag),
		Shell:            cmd.Bool(shellFlag),
		ShellPath:        cmd.String(shellPathFlag),
		ProgressBar:      cmd.Bool(progressBarFlag),
		KeepOrder:        cmd.Bool(keepOrderFlag),
		DryRun:           cmd.Bool(dryRunFlag),
		ExitOnError:      cmd.Bool(exitOnErrorFlag),
		Jobs:             jobsOrDefault(int64(cmd.Int(jobsFlag))),
		ChannelCapacity:  cmd.Int(channelCapacityFlag),
		DisablePathCache: cmd.Bool(disablePathCacheFlag),
	}

	if cfg.ChannelCapacity <= 0 {
		cfg.ChannelCapacity = int(cfg.Jobs) * 2
	}

	if secs := cmd.Float(timeoutSecondsFlag); secs > 0 {
		cfg.Timeout = time.Duration(secs * float64(time.Second))
	}

	discard, err := parseDiscard(cmd.String(discardOutputFlag))
	if err != nil {
		return Config{}, err
	}

	cfg.Discard = discard

	if cfg.ProgressBar {
		style, err := progressbar.StyleFromEnv(os.LookupEnv)
		if err != nil {
			return Config{}, err
		}

		cfg.ProgressStyle = style
	}

	policy := model.SubstitutionNone
	if !streamMode {
		policy = model.SubstitutionAutoNumbered
	}

	var re *regexp.Regexp

	if pattern := cmd.String(regexFlag); pattern != "" {
		re, err = regexp.Compile(pattern)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", model.ErrRegexCompile, err)
		}

		policy = model.SubstitutionRegex
	}

	cfg.Template = model.CommandTemplate{ArgvPrefix: prefix, Policy: policy, Regex: re}

	return cfg, nil
}

func jobsOrDefault(n int64) int64 {
	if n > 0 {
		return n
	}

	return int64(runtime.NumCPU())
}

func parseDiscard(value string) (model.DiscardPolicy, error) {
	switch value {
	case "":
		return model.DiscardNone, nil
	case "stdout":
		return model.DiscardStdout, nil
	case "stderr":
		return model.DiscardStderr, nil
	case "all":
		return model.DiscardAll, nil
	default:
		return model.DiscardNone, fmt.Errorf("--discard-output: unrecognized value %q (want stdout, stderr, or all)", value)
	}
}

// splitTemplateAndGroups separates the command template (argv_prefix) from
// any `:::`-delimited argument groups among the positional arguments
// (§4.1). Stream mode is selected when no Separator token appears at all,
// in which case every positional argument is part of the template.
func splitTemplateAndGroups(positional []string) (prefix []string, groups [][]string, streamMode bool) {
	if !source.HasGroups(positional) {
		return positional, nil, true
	}

	idx := 0
	for idx < len(positional) && positional[idx] != source.Separator {
		idx++
	}

	prefix = positional[:idx]

	split := source.SplitGroups(positional[idx:])
	// positional[idx] is always the Separator itself, so SplitGroups's
	// first group is always empty; drop it.
	groups = split[1:]

	return prefix, groups, false
}
