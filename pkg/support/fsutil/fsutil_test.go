// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTilde(t *testing.T) {
	usr, err := user.Current()
	if err != nil {
		t.Skipf("no current user: %v", err)
	}
	got, err := ReplaceTilde("~/data/facades_data.h5")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(usr.HomeDir, "data/facades_data.h5"), got)

	got, err = ReplaceTilde("/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", got)

	_, err = ReplaceTilde("~user_that_does_not_exist_42/x")
	require.Error(t, err)
}

func TestExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.h5")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	got, err := ExistingFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	exists, err := FileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = ExistingFile(dir)
	require.Error(t, err)
	_, err = ExistingFile(filepath.Join(dir, "missing.h5"))
	require.Error(t, err)
	exists, err = FileExists(filepath.Join(dir, "missing.h5"))
	require.NoError(t, err)
	assert.False(t, exists)
}
