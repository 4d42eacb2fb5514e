// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package workerspool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLimitsParallelism(t *testing.T) {
	const maxParallelism = 2
	pool := New().SetMaxParallelism(maxParallelism)
	var running, peak, done atomic.Int32
	tasks := make([]func() error, 8)
	for ii := range tasks {
		tasks[ii] = func() error {
			current := running.Add(1)
			for {
				old := peak.Load()
				if current <= old || peak.CompareAndSwap(old, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			done.Add(1)
			return nil
		}
	}
	require.NoError(t, pool.Run(tasks...))
	assert.Equal(t, int32(len(tasks)), done.Load())
	assert.LessOrEqual(t, peak.Load(), int32(maxParallelism))
}

func TestRunErrors(t *testing.T) {
	errFirst, errSecond := errors.New("first"), errors.New("second")
	for _, parallelism := range []int{0, 1, 3, -1} {
		pool := New().SetMaxParallelism(parallelism)
		var count atomic.Int32
		err := pool.Run(
			func() error { count.Add(1); return nil },
			func() error { count.Add(1); return errFirst },
			func() error { count.Add(1); return errSecond },
		)
		assert.ErrorIs(t, err, errFirst, "parallelism=%d", parallelism)
		assert.Equal(t, int32(3), count.Load(), "all tasks run with parallelism=%d", parallelism)
	}
	assert.NoError(t, New().Run())
}
