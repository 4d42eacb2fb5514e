// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package fsutil contains utilities for working with the file system.
package fsutil

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FileExists returns whether the file or directory exists or an error if something went wrong in the filesystem.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to FileExists(%q)", path)
}

// ReplaceTilde replaces a leading "~" or "~user" in path by the user's home directory.
// Returns path if it doesn't start with "~".
//
// It returns an error if `path` has an unknown user (e.g: `~unknown/...`).
func ReplaceTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	userName, rest, _ := strings.Cut(path[1:], "/")
	var usr *user.User
	var err error
	if userName == "" {
		usr, err = user.Current()
	} else {
		usr, err = user.Lookup(userName)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to lookup home directory for user in path %q", path)
	}
	return filepath.Join(usr.HomeDir, rest), nil
}

// ExistingFile expands a leading "~" in path, and checks that it exists and is not a directory.
func ExistingFile(path string) (string, error) {
	expanded, err := ReplaceTilde(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return "", errors.Wrapf(err, "cannot access %q", expanded)
	}
	if info.IsDir() {
		return "", errors.Errorf("%q is a directory, wanted a file", expanded)
	}
	return expanded, nil
}
