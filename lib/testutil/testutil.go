// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// The helpers fail the test via t.Fatalf rather than returning errors,
// since fixture setup failures are not recoverable. This package has
// no other in-repo dependencies so every package can use it.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes a fixture file under dir and returns its path. The
// file is cleaned up with the test's temporary directory; pass
// t.TempDir() as dir.
//
//	path := testutil.WriteFile(t, t.TempDir(), "fields.fd", fdSource)
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating fixture directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}
