// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

package pathcache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parun/internal/pathcache"
)

func TestResolveBypassesCacheForPathSeparator(t *testing.T) {
	t.Parallel()

	var calls int32

	c := pathcache.NewWithLookup(func(name string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "/resolved/" + name, nil
	})

	got, err := c.Resolve(context.Background(), "./local/script.sh")
	require.NoError(t, err)
	require.Equal(t, "./local/script.sh", got)
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestResolveCachesHit(t *testing.T) {
	t.Parallel()

	var calls int32

	c := pathcache.NewWithLookup(func(name string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "/usr/bin/" + name, nil
	})

	for i := 0; i < 1000; i++ {
		got, err := c.Resolve(context.Background(), "echo")
		require.NoError(t, err)
		require.Equal(t, "/usr/bin/echo", got)
	}

	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "platform lookup should run exactly once for 1000 hits")
}

func TestResolveNotFound(t *testing.T) {
	t.Parallel()

	c := pathcache.NewWithLookup(func(name string) (string, error) {
		return "", assert.AnError
	})

	_, err := c.Resolve(context.Background(), "doesnotexist")
	require.Error(t, err)
	require.ErrorIs(t, err, pathcache.ErrNotFound)
}

func TestResolveConcurrentMissesCoalesce(t *testing.T) {
	t.Parallel()

	var calls int32

	release := make(chan struct{})

	c := pathcache.NewWithLookup(func(name string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "/usr/bin/" + name, nil
	})

	var wg sync.WaitGroup

	const n = 20

	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()

			got, err := c.Resolve(context.Background(), "sleep")
			require.NoError(t, err)
			require.Equal(t, "/usr/bin/sleep", got)
		}()
	}

	close(release)
	wg.Wait()

	require.LessOrEqual(t, atomic.LoadInt32(&calls), int32(n))
}

func TestDisabledResolvesFreshEveryTime(t *testing.T) {
	t.Parallel()

	var calls int32

	d := pathcache.Disabled{Lookup: func(name string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "/usr/bin/" + name, nil
	}}

	for i := 0; i < 3; i++ {
		_, err := d.Resolve(context.Background(), "echo")
		require.NoError(t, err)
	}

	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
