package postgres

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The settlement insert relies on index inference against the partial
// unique index on original_reference_number. Postgres only infers a
// partial index when the conflict target carries the same predicate,
// so the statement must spell it out or fail with 42P10 at runtime.
func TestInsertSettlementConflictTargetMatchesPartialIndex(t *testing.T) {
	assert.Contains(t, insertSettlementSQL,
		"ON CONFLICT (original_reference_number) WHERE original_reference_number IS NOT NULL DO NOTHING")
}

func TestSchemaDefinesPartialSettlementIndex(t *testing.T) {
	schema, err := os.ReadFile("schema.sql")
	require.NoError(t, err)

	ddl := string(schema)
	idx := strings.Index(ddl, "idx_transactions_original_ref")
	require.Greater(t, idx, 0)
	assert.Contains(t, ddl[idx:], "WHERE original_reference_number IS NOT NULL")
}
