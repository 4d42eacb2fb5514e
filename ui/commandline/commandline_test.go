// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package commandline

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.23ms", FormatDuration(1234567*time.Nanosecond))
	assert.Equal(t, "2.00s", FormatDuration(2*time.Second))
	assert.Equal(t, "1.50µs", FormatDuration(1500*time.Nanosecond))
	assert.Equal(t, "1h2m3s", FormatDuration(time.Hour+2*time.Minute+3*time.Second))
}

func TestProgressBar(t *testing.T) {
	maxUpdateFrequency = time.Millisecond
	var buf bytes.Buffer
	pBar := NewProgressBar(&buf, 3)
	for range 3 {
		pBar.Step(Metric{"Flipped", "no"})
	}
	pBar.Done()
	assert.GreaterOrEqual(t, pBar.MedianStepDuration(), time.Duration(0))
	out := buf.String()
	require.Contains(t, out, "Flipped")
	require.Contains(t, out, "Median step duration")
	require.Contains(t, out, "3 of 3")
}

func TestNewPlainTable(t *testing.T) {
	table := NewPlainTable(true).Headers("Name", "Value")
	table.Row("patch", "64x64")
	rendered := table.Render()
	assert.Contains(t, rendered, "Name")
	assert.Contains(t, rendered, "64x64")
}
