// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package images

import (
	"testing"

	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannelsAxisConfig(t *testing.T) {
	config, err := ParseChannelsAxisConfig("channels_first")
	require.NoError(t, err)
	assert.Equal(t, ChannelsFirst, config)
	config, err = ParseChannelsAxisConfig("Channels_Last")
	require.NoError(t, err)
	assert.Equal(t, ChannelsLast, config)
	assert.Equal(t, "channels_last", config.String())

	_, err = ParseChannelsAxisConfig("channels_middle")
	require.ErrorIs(t, err, ErrInvalidLayout)
	require.ErrorIs(t, ChannelsAxisConfig(7).Check(), ErrInvalidLayout)

	var fromText ChannelsAxisConfig
	require.NoError(t, fromText.UnmarshalText([]byte("channels_last")))
	assert.Equal(t, ChannelsLast, fromText)
}

func TestAxes(t *testing.T) {
	s := shapes.Make(dtypes.Float32, 2, 3, 4, 5)
	axis, err := GetChannelsAxis(s, ChannelsFirst)
	require.NoError(t, err)
	assert.Equal(t, 1, axis)
	axis, err = GetChannelsAxis(s, ChannelsLast)
	require.NoError(t, err)
	assert.Equal(t, 3, axis)
	_, err = GetChannelsAxis(s, ChannelsAxisConfig(2))
	require.ErrorIs(t, err, ErrInvalidLayout)

	spatial, err := GetSpatialAxes(s, ChannelsFirst)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, spatial)
	spatial, err = GetSpatialAxes(s, ChannelsLast)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, spatial)
	_, err = GetSpatialAxes(shapes.Make(dtypes.Float32, 2, 3), ChannelsLast)
	require.Error(t, err)

	d, err := GetDims(s, ChannelsFirst)
	require.NoError(t, err)
	assert.Equal(t, Dims{BatchSize: 2, Channels: 3, Height: 4, Width: 5}, d)
	assert.Equal(t, []int{2, 4, 5, 3}, d.Shape(ChannelsLast))
	d, err = GetDims(s, ChannelsLast)
	require.NoError(t, err)
	assert.Equal(t, Dims{BatchSize: 2, Height: 3, Width: 4, Channels: 5}, d)
	_, err = GetDims(s, ChannelsAxisConfig(2))
	require.ErrorIs(t, err, ErrInvalidLayout)
	_, err = GetDims(shapes.Make(dtypes.Float32, 3, 4, 5), ChannelsFirst)
	require.Error(t, err)
}

func TestChannelsLastRoundTrip(t *testing.T) {
	first := tensors.FromShape(shapes.Make(dtypes.Float32, 2, 3, 4, 5))
	first.MutableFlatData(func(flat []float32) {
		for ii := range flat {
			flat[ii] = float32(ii)
		}
	})
	last, err := ToChannelsLast(first, ChannelsFirst)
	require.NoError(t, err)
	require.NoError(t, last.Shape().Check(dtypes.Float32, 2, 4, 5, 3))
	assert.Equal(t, first.Value(1, 2, 0, 4), last.Value(1, 0, 4, 2))

	same, err := ToChannelsLast(last, ChannelsLast)
	require.NoError(t, err)
	assert.Same(t, last, same)

	back, err := FromChannelsLast(last, ChannelsFirst)
	require.NoError(t, err)
	assert.True(t, first.Equal(back))

	_, err = ToChannelsLast(first, ChannelsAxisConfig(9))
	require.ErrorIs(t, err, ErrInvalidLayout)
}
