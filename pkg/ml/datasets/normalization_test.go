// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"testing"

	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModality(t *testing.T) {
	m, err := ParseModality("image")
	require.NoError(t, err)
	assert.Equal(t, ModalityImage, m)
	m, err = ParseModality("AUDIO")
	require.NoError(t, err)
	assert.Equal(t, ModalityAudio, m)
	assert.Equal(t, "audio", m.String())

	_, err = ParseModality("video")
	require.ErrorIs(t, err, ErrInvalidModality)
	_, err = Modality(5).Range()
	require.ErrorIs(t, err, ErrInvalidModality)
}

// rawDomain returns a tensor with every integer value in [0, maxValue].
func rawDomain(maxValue int) *tensors.Tensor {
	values := make([]float32, maxValue+1)
	for ii := range values {
		values[ii] = float32(ii)
	}
	return tensors.FromFlatDataAndDimensions(values, len(values))
}

func TestNormalizeImage(t *testing.T) {
	x := tensors.FromFlatDataAndDimensions([]float32{0, 127.5, 255}, 3)
	n, err := Normalize(x, ModalityImage)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{-1, 0, 1}, n.CopyFlatData(), 1e-6)

	raw := rawDomain(255)
	n, err = Normalize(raw, ModalityImage)
	require.NoError(t, err)
	stats := n.Stats()
	assert.InDelta(t, -1.0, stats.Min, 1e-6)
	assert.InDelta(t, 1.0, stats.Max, 1e-6)
	back, err := Denormalize(n, ModalityImage)
	require.NoError(t, err)
	assert.True(t, raw.InDelta(back, 1e-4), "round trip: %s", back)
}

func TestNormalizeAudio(t *testing.T) {
	raw := rawDomain(721)
	n, err := Normalize(raw, ModalityAudio)
	require.NoError(t, err)
	stats := n.Stats()
	assert.InDelta(t, 0.0, stats.Min, 1e-6)
	assert.InDelta(t, 1.0, stats.Max, 1e-6)
	back, err := Denormalize(n, ModalityAudio)
	require.NoError(t, err)
	assert.True(t, raw.InDelta(back, 1e-3), "round trip: %s", back)
}

func TestNormalizeInvalid(t *testing.T) {
	x := tensors.FromScalarAndDimensions(1, 2)
	_, err := Normalize(x, Modality(9))
	require.ErrorIs(t, err, ErrInvalidModality)
	_, err = Denormalize(x, Modality(9))
	require.ErrorIs(t, err, ErrInvalidModality)
	_, err = Normalize(nil, ModalityImage)
	require.Error(t, err)
}
