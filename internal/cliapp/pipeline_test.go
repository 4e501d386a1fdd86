// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package cliapp

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"parun/internal/model"
)

func requireOnPath(t *testing.T, name string) {
	t.Helper()

	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available on PATH: %v", name, err)
	}
}

func TestRunStreamModeEchoesEachStdinLine(t *testing.T) {
	t.Parallel()
	requireOnPath(t, "echo")

	cfg := Config{
		StreamMode:      true,
		Template:        model.CommandTemplate{ArgvPrefix: []string{"echo"}, Policy: model.SubstitutionNone},
		Jobs:            2,
		ChannelCapacity: 4,
	}

	stdin := strings.NewReader("one\ntwo\nthree\n")

	var stdout, stderr bytes.Buffer

	snapshot := Run(context.Background(), cfg, stdin, &stdout, &stderr)

	require.Equal(t, int64(3), snapshot.Succeeded)
	require.Equal(t, int64(0), snapshot.FailedStatus)
	require.Contains(t, stdout.String(), "one")
	require.Contains(t, stdout.String(), "two")
	require.Contains(t, stdout.String(), "three")
}

func TestRunArgumentModeNonzeroExitCountsAsFailure(t *testing.T) {
	t.Parallel()
	requireOnPath(t, "false")

	cfg := Config{
		Template:        model.CommandTemplate{ArgvPrefix: []string{"false"}, Policy: model.SubstitutionNone},
		Groups:          [][]string{{"x"}},
		Jobs:            1,
		ChannelCapacity: 2,
	}

	var stdout, stderr bytes.Buffer

	snapshot := Run(context.Background(), cfg, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, int64(1), snapshot.FailedStatus)
	require.Equal(t, int64(0), snapshot.Succeeded)
}

func TestRunKeepOrderEmitsInInputOrder(t *testing.T) {
	t.Parallel()
	requireOnPath(t, "echo")

	cfg := Config{
		StreamMode:      true,
		KeepOrder:       true,
		Template:        model.CommandTemplate{ArgvPrefix: []string{"echo"}, Policy: model.SubstitutionNone},
		Jobs:            4,
		ChannelCapacity: 8,
	}

	stdin := strings.NewReader("1\n2\n3\n4\n5\n")

	var stdout, stderr bytes.Buffer

	snapshot := Run(context.Background(), cfg, stdin, &stdout, &stderr)

	require.Equal(t, int64(5), snapshot.Succeeded)

	lines := strings.Fields(stdout.String())
	require.Equal(t, []string{"1", "2", "3", "4", "5"}, lines)
}

func TestRunDryRunSpawnsNothing(t *testing.T) {
	t.Parallel()
	requireOnPath(t, "echo")

	cfg := Config{
		StreamMode:      true,
		DryRun:          true,
		Template:        model.CommandTemplate{ArgvPrefix: []string{"echo"}, Policy: model.SubstitutionNone},
		Jobs:            2,
		ChannelCapacity: 4,
	}

	stdin := strings.NewReader("a\nb\n")

	var stdout, stderr bytes.Buffer

	snapshot := Run(context.Background(), cfg, stdin, &stdout, &stderr)

	require.Equal(t, int64(0), snapshot.Spawned)
	require.Empty(t, stdout.String())
}
