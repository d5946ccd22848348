package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/optionsbot/internal/compiler"
	"github.com/aretw0/optionsbot/internal/testutils"
	"github.com/aretw0/optionsbot/pkg/schema"
)

func lint(t *testing.T, src string, extra schema.Schema) []string {
	t.Helper()
	prog, err := compiler.Parse(src)
	require.NoError(t, err)

	var out []string
	for _, f := range Lint(prog, extra) {
		out = append(out, f.String())
	}
	return out
}

func TestLint_SampleProgramIsClean(t *testing.T) {
	assert.Empty(t, lint(t, testutils.SampleProgram, nil))
}

func TestLint_HeaderRules(t *testing.T) {
	src := strings.Replace(testutils.SampleProgram, "ipoBuy = 100", "ipoBuy = 150", 1)

	findings := lint(t, src, nil)
	require.Len(t, findings, 1)
	assert.True(t, strings.HasPrefix(findings[0], "line 1:"), findings[0])
	assert.Contains(t, findings[0], `"ipoBuy"`)
}

func TestLint_MissingVariablesHaveNoPosition(t *testing.T) {
	findings := lint(t, "[]{}", nil)

	assert.Len(t, findings, len(schema.Header()))
	for _, f := range findings {
		assert.Contains(t, f, "required")
	}
}

func TestLint_ExtraRules(t *testing.T) {
	src := strings.Replace(testutils.SampleProgram, "[", "[bonus = 20 ", 1)

	assert.Empty(t, lint(t, src, nil))
	findings := lint(t, src, schema.Schema{"bonus": schema.Range(0, 10)})
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "bonus")
}

func TestLint_Branches(t *testing.T) {
	src := strings.Replace(testutils.SampleProgram, "{e_0.1: buy(80%)",
		"{e_0.1: buy(80%) | e_0.9: quit() | e_else: buy(10%) | c_0.1: sell(5 - 1 share)", 1)

	findings := lint(t, src, nil)
	require.Len(t, findings, 2)
	assert.Contains(t, findings[0], "buy branch is never drawn")
	assert.Contains(t, findings[1], "sell price range 5 - 1 is written high to low")
}

func TestLint_NestedRaise(t *testing.T) {
	src := strings.Replace(testutils.SampleProgram, "c_0.1: fail()", "c_1: fail() | c_0.1: raise(3 - 2 fmv diluting 1 - 2% wait 1 - 2 months then {})", 1)

	findings := lint(t, src, nil)
	require.Len(t, findings, 4, findings)
	assert.Contains(t, findings[0], "raise branch is never drawn")
	assert.Contains(t, findings[1], "raise fmv range 3 - 2 is written high to low")
	assert.Contains(t, findings[2], "sell branch is never drawn")
	assert.Contains(t, findings[3], "ipo branch is never drawn")
}
