package serialization_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/optionsbot/internal/compiler"
	"github.com/aretw0/optionsbot/internal/testutils"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/serialization"
)

const nestedProgram = `[b=2 a=1]{
  c_0.5: raise(1 - 1 fmv diluting 0 - 0% wait 1 - 1 months then {
    c_1: raise(2 - 2 fmv diluting 5 - 5% wait 1 - 1 months then {c_1: fail()})
  })
  | e_else: raise(3 - 3 fmv diluting 0 - 0% wait 1 - 1 months then {c_1: ipo(1 - 2 share)})
}`

var ignorePositions = cmp.FilterPath(func(p cmp.Path) bool {
	return p.Last().String() == ".Pos"
}, cmp.Ignore())

func parse(t *testing.T, src string) *domain.Program {
	t.Helper()
	prog, err := compiler.Parse(src)
	require.NoError(t, err)
	return prog
}

func variableNames(doc *serialization.Document) []string {
	var names []string
	for pair := doc.Variables.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func actions(s serialization.Stage) []domain.ActionKind {
	out := make([]domain.ActionKind, len(s.Current))
	for i, b := range s.Current {
		out[i] = b.Target.Action
	}
	return out
}

func TestSerialize_FlattensPreOrder(t *testing.T) {
	doc := serialization.Serialize(parse(t, nestedProgram))

	require.Len(t, doc.States, 4)
	assert.Equal(t, []domain.ActionKind{domain.KindRaise, domain.KindRaise}, actions(doc.States[0]))
	assert.Equal(t, []domain.ActionKind{domain.KindRaise}, actions(doc.States[1]))
	assert.Equal(t, []domain.ActionKind{domain.KindFail}, actions(doc.States[2]))
	assert.Equal(t, []domain.ActionKind{domain.KindIPO}, actions(doc.States[3]))

	first := doc.States[0].Current[0]
	assert.True(t, first.IsCompany)
	assert.False(t, first.IsElse)
	assert.Equal(t, 0.5, first.Proba.Value)
	assert.Equal(t, serialization.Accepted, first.Target.NextBranches)

	second := doc.States[0].Current[1]
	assert.False(t, second.IsCompany, "employee branches are not company branches")
	assert.True(t, second.IsElse)
	assert.True(t, second.Proba.Else)

	assert.Equal(t, []string{"b", "a"}, variableNames(doc))
}

func TestSerialize_TargetFields(t *testing.T) {
	doc := serialization.Serialize(parse(t, testutils.SampleProgram))
	root := doc.States[0].Current

	buy := root[0].Target
	require.NotNil(t, buy.PercentAmount)
	assert.Equal(t, 80.0, *buy.PercentAmount)
	assert.Nil(t, buy.Low)

	ipo := root[1].Target
	require.NotNil(t, ipo.Low)
	assert.Equal(t, 500000000.0, *ipo.Low)
	assert.Equal(t, 1000000000.0, *ipo.High)
	assert.Equal(t, domain.UnitsTotal, ipo.Units)

	raise := root[3].Target
	assert.Equal(t, 2.0, *raise.FMVLow)
	assert.Equal(t, 20.0, *raise.DiluteHigh, "dilution stays as written")
	assert.Equal(t, 24.0, *raise.DelayHigh)
}

func TestRoundTrip_SerializeDeserialize(t *testing.T) {
	for name, src := range map[string]string{
		"nested": nestedProgram,
		"sample": testutils.SampleProgram,
		"empty":  "[]{}",
	} {
		t.Run(name, func(t *testing.T) {
			prog := parse(t, src)

			text, err := serialization.Deserialize(serialization.Serialize(prog))
			require.NoError(t, err)

			again := parse(t, text)
			if diff := cmp.Diff(prog, again, ignorePositions); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip_Compiles(t *testing.T) {
	text, err := serialization.Deserialize(serialization.Serialize(parse(t, testutils.SampleProgram)))
	require.NoError(t, err)

	_, err = compiler.Compile(parse(t, text))
	assert.NoError(t, err)
}

func TestDeserialize_CompactText(t *testing.T) {
	text, err := serialization.Deserialize(serialization.Serialize(parse(t,
		`[x=1.5]{e_0.1: buy(80%) | c_else: raise(1 - 2 fmv diluting 10 - 20% wait 3 - 4 months then {c_0.5: sell(1 - 2 total)})}`)))
	require.NoError(t, err)

	assert.Equal(t,
		"[x=1.5]{e_0.1:buy(80%)|c_else:raise(1-2fmv diluting 10-20% wait 3-4months then {c_0.5:sell(1-2 total)})}",
		text)
}

func TestProgram_StageMismatch(t *testing.T) {
	doc := serialization.Serialize(parse(t, nestedProgram))

	doc.States = doc.States[:3]
	_, err := serialization.Deserialize(doc)
	assert.ErrorIs(t, err, domain.ErrStageMismatch)

	doc.States = nil
	_, err = doc.Program()
	assert.ErrorIs(t, err, domain.ErrStageMismatch)
}

func TestProgram_MissingField(t *testing.T) {
	doc := serialization.Serialize(parse(t, "[]{c_1: sell(1 - 2 share)}"))
	doc.States[0].Current[0].Target.High = nil

	_, err := doc.Program()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"high"`)
}

func TestProgram_UnknownAction(t *testing.T) {
	doc := serialization.Serialize(parse(t, "[]{c_1: fail()}"))
	doc.States[0].Current[0].Target.Action = "explode"

	_, err := doc.Program()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode")
}

func TestJSON_RoundTrip(t *testing.T) {
	doc := serialization.Serialize(parse(t, nestedProgram))

	data, err := serialization.ToJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"proba": "else"`)
	assert.Contains(t, string(data), `"nextBranches": "accepted"`)
	assert.Regexp(t, `(?s)"b": 2,.*"a": 1`, string(data), "variables keep their order")

	back, err := serialization.FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, variableNames(back))

	prog, err := back.Program()
	require.NoError(t, err)
	if diff := cmp.Diff(parse(t, nestedProgram), prog, ignorePositions); diff != "" {
		t.Errorf("json round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	doc := serialization.Serialize(parse(t, nestedProgram))

	data, err := serialization.ToYAML(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "proba: else")

	back, err := serialization.FromYAML(data)
	require.NoError(t, err)

	prog, err := back.Program()
	require.NoError(t, err)
	if diff := cmp.Diff(parse(t, nestedProgram), prog, ignorePositions); diff != "" {
		t.Errorf("yaml round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromJSON_RejectsBadProba(t *testing.T) {
	_, err := serialization.FromJSON([]byte(`{"variables":{},"states":[{"current":[{"proba":"sometimes","target":{"action":"fail"}}]}]}`))
	assert.Error(t, err)
}

func TestDecodeMap(t *testing.T) {
	raw := map[string]any{
		"variables": map[string]any{
			"zeta":            1,
			"alpha":           2,
			domain.VarSellBuy: 90,
			domain.VarIPOBuy:  "100",
		},
		"states": []any{
			map[string]any{"current": []any{
				map[string]any{"proba": 0.25, "isCompany": true, "target": map[string]any{"action": "ipo", "low": 1, "high": 2, "units": "share"}},
				map[string]any{"proba": "else", "isElse": true, "isCompany": true, "target": map[string]any{"action": "fail"}},
			}},
		},
	}

	doc, err := serialization.DecodeMap(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{domain.VarIPOBuy, domain.VarSellBuy, "alpha", "zeta"}, variableNames(doc))
	require.Len(t, doc.States, 1)
	assert.Equal(t, 0.25, doc.States[0].Current[0].Proba.Value)
	assert.True(t, doc.States[0].Current[1].Proba.Else)

	text, err := serialization.Deserialize(doc)
	require.NoError(t, err)
	assert.Equal(t, "[ipoBuy=100 sellBuy=90 alpha=2 zeta=1]{c_0.25:ipo(1-2 share)|c_else:fail()}", text)
}
