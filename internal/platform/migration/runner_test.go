// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vereinskasse/kiosk/internal/platform/migration"
)

func TestPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://kiosk:pw@db:5432/kasse":   "pgx5://kiosk:pw@db:5432/kasse",
		"postgresql://kiosk@db/kasse":         "pgx5://kiosk@db/kasse",
		"pgx5://kiosk@db/kasse":               "pgx5://kiosk@db/kasse",
		"host=db user=kiosk dbname=kasse":     "host=db user=kiosk dbname=kasse",
	}

	for input, want := range tests {
		assert.Equal(t, want, migration.Pgx5DSN(input), input)
	}
}
