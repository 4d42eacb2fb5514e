// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(dtypes.Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, 8, int(shape0.Memory()))

	shape1 := Make(dtypes.Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, 4*4*3*2, int(shape1.Memory()))
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())

	require.Panics(t, func() { _ = Make(dtypes.Float32, 3, 0) })
}

func TestDim(t *testing.T) {
	shape := Make(dtypes.Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestEqualAndClone(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	s2 := s.Clone()
	require.True(t, s.Equal(s2))
	s2.Dimensions[0] = 5
	require.False(t, s.Equal(s2))
	require.Equal(t, 2, s.Dimensions[0], "Clone must not share dimensions")
	require.False(t, s.Equal(Make(dtypes.Float16, 2, 3)))
	require.True(t, s.EqualDimensions(Make(dtypes.Float16, 2, 3)))
}

func TestCheck(t *testing.T) {
	s := Make(dtypes.Float32, 8, 3, 64, 64)
	require.NoError(t, s.Check(dtypes.Float32, 8, 3, 64, 64))
	require.NoError(t, s.Check(dtypes.Float32, -1, 3, -1, -1))
	require.Error(t, s.Check(dtypes.Float16, 8, 3, 64, 64))
	require.Error(t, s.Check(dtypes.Float32, 8, 3, 64))
	require.Error(t, s.Check(dtypes.Float32, 8, 1, 64, 64))
	require.NoError(t, s.CheckRank(4))
	require.Error(t, s.CheckRank(3))
}
