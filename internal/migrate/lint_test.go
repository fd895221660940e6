package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint_FlagsDestructiveStatements(t *testing.T) {
	sql := `-- drop the legacy table
DROP TABLE legacy_scores;
ALTER TABLE athlete DROP COLUMN nickname;
TRUNCATE measurement;
DELETE FROM invitation;
`

	findings := Lint(sql)
	require.Len(t, findings, 4)

	rules := make([]string, 0, len(findings))
	for _, f := range findings {
		rules = append(rules, f.Rule)
		assert.Equal(t, SeverityError, f.Severity)
	}
	assert.Equal(t, []string{"drop-table", "drop-column", "truncate", "delete-without-where"}, rules)
	assert.Equal(t, 2, findings[0].Line, "comment lines are skipped but still counted")
	assert.True(t, HasErrors(findings))
}

func TestLint_Warnings(t *testing.T) {
	sql := `ALTER TABLE measurement ALTER COLUMN value TYPE numeric(8,3);
ALTER TABLE athlete ADD COLUMN weight int NOT NULL;
`

	findings := Lint(sql)
	require.Len(t, findings, 2)
	assert.Equal(t, "alter-column-type", findings[0].Rule)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Equal(t, "not-null-without-default", findings[1].Rule)
	assert.False(t, HasErrors(findings))
}

func TestLint_SafePatternsPass(t *testing.T) {
	sql := `CREATE TABLE measurement (id uuid PRIMARY KEY);
ALTER TABLE athlete ADD COLUMN weight int NOT NULL DEFAULT 0;
DELETE FROM invitation WHERE expires_at < now();
-- TRUNCATE measurement; (commented out)
`

	assert.Empty(t, Lint(sql))
}
