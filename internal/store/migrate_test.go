// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMigrate implements migrateIface with scripted results.
type fakeMigrate struct {
	upErr      error
	downErr    error
	version    uint
	dirty      bool
	versionErr error
	srcErr     error
	dbErr      error
}

func (f *fakeMigrate) Up() error                    { return f.upErr }
func (f *fakeMigrate) Down() error                  { return f.downErr }
func (f *fakeMigrate) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }
func (f *fakeMigrate) Close() (src error, db error) { return f.srcErr, f.dbErr }

func TestMigratorUp(t *testing.T) {
	t.Run("succeeds", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{}}
		assert.NoError(t, m.Up())
	})

	t.Run("no pending migrations is not an error", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{upErr: migrate.ErrNoChange}}
		assert.NoError(t, m.Up())
	})

	t.Run("real failures surface", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{upErr: errors.New("connection refused")}}
		assert.Error(t, m.Up())
	})
}

func TestMigratorDown(t *testing.T) {
	t.Run("nothing to roll back is not an error", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{downErr: migrate.ErrNoChange}}
		assert.NoError(t, m.Down())
	})

	t.Run("real failures surface", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{downErr: errors.New("connection refused")}}
		assert.Error(t, m.Down())
	})
}

func TestMigratorVersion(t *testing.T) {
	t.Run("returns the current version", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{version: 3, dirty: false}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(3), version)
		assert.False(t, dirty)
	})

	t.Run("no migrations applied reports zero", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{versionErr: migrate.ErrNilVersion}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(0), version)
		assert.False(t, dirty)
	})
}

func TestMigratorClose(t *testing.T) {
	t.Run("closes cleanly", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{}}
		assert.NoError(t, m.Close())
	})

	t.Run("source close failure surfaces", func(t *testing.T) {
		m := &Migrator{m: &fakeMigrate{srcErr: errors.New("already closed")}}
		assert.Error(t, m.Close())
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	// Every up migration needs a matching down migration.
	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case len(e.Name()) > 7 && e.Name()[len(e.Name())-7:] == ".up.sql":
			ups++
		case len(e.Name()) > 9 && e.Name()[len(e.Name())-9:] == ".down.sql":
			downs++
		}
	}
	assert.Equal(t, ups, downs)
	assert.Positive(t, ups)
}
