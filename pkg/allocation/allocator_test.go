package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebalancer/pkg/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func leaf(symbol, percent string) models.AllocationNode {
	return models.AllocationNode{Symbol: symbol, Percent: d(percent)}
}

func model(symbol, percent string, children ...models.AllocationNode) models.AllocationNode {
	return models.AllocationNode{Symbol: symbol, Percent: d(percent), Children: children}
}

func assertAmount(t *testing.T, target Target, symbol, want string) {
	t.Helper()
	got, ok := target.Amount(symbol)
	require.True(t, ok, "missing %s", symbol)
	assert.True(t, got.Equal(d(want)), "%s: got %s want %s", symbol, got, want)
}

func TestAllocate_FlatModel(t *testing.T) {
	// 1000 split 60/40 between a stock fund and a bond fund.
	target, err := Allocate(d("1000"), []models.AllocationNode{leaf("VTI", "60"), leaf("BND", "40")}, Strict)
	require.NoError(t, err)

	require.Len(t, target, 2)
	assert.Equal(t, "VTI", target[0].Symbol)
	assert.Equal(t, "BND", target[1].Symbol)
	assertAmount(t, target, "VTI", "600")
	assertAmount(t, target, "BND", "400")
	assert.True(t, target.Total().Equal(d("1000")))
}

func TestAllocate_NestedCompositionIsMultiplicative(t *testing.T) {
	nodes := []models.AllocationNode{
		model("growth", "70", leaf("QQQ", "25"), leaf("VUG", "75")),
		leaf("BND", "30"),
	}

	target, err := Allocate(d("2000"), nodes, Strict)
	require.NoError(t, err)

	assertAmount(t, target, "QQQ", "350")  // 2000 * 70% * 25%
	assertAmount(t, target, "VUG", "1050") // 2000 * 70% * 75%
	assertAmount(t, target, "BND", "600")
	_, ok := target.Amount("growth")
	assert.False(t, ok, "model names never reach the target")
	assert.True(t, target.Total().Equal(d("2000")))
}

func TestAllocate_ThreeLevelsConserveCash(t *testing.T) {
	nodes := []models.AllocationNode{
		model("equity", "50",
			model("us", "50", leaf("VTI", "100")),
			leaf("VXUS", "50"),
		),
		leaf("BND", "50"),
	}

	target, err := Allocate(d("1000"), nodes, Strict)
	require.NoError(t, err)

	assertAmount(t, target, "VTI", "250")
	assertAmount(t, target, "VXUS", "250")
	assertAmount(t, target, "BND", "500")
	assert.True(t, target.Total().Equal(d("1000")))
}

func TestAllocate_ReferencedModelExpandsWhereUsed(t *testing.T) {
	// "bonds" is defined once at the top with weight 0 and reused inside
	// "balanced". Only the referencing branch carries weight.
	nodes := []models.AllocationNode{
		model("bonds", "0", leaf("BND", "50"), leaf("TIP", "50")),
		model("balanced", "100", leaf("VTI", "60"), leaf("bonds", "40")),
	}

	target, err := Allocate(d("1000"), nodes, Strict)
	require.NoError(t, err)

	assertAmount(t, target, "VTI", "600")
	assertAmount(t, target, "BND", "200")
	assertAmount(t, target, "TIP", "200")
	assert.Len(t, target, 3)
}

func TestAllocate_DuplicateSymbolsAggregate(t *testing.T) {
	nodes := []models.AllocationNode{
		model("core", "50", leaf("VTI", "80"), leaf("BND", "20")),
		model("income", "50", leaf("BND", "60"), leaf("VYM", "40")),
	}

	target, err := Allocate(d("1000"), nodes, Strict)
	require.NoError(t, err)

	assertAmount(t, target, "BND", "400") // 100 + 300
	assert.Len(t, target, 3)

	// Swapping branch order must not change any amount.
	reversed, err := Allocate(d("1000"), []models.AllocationNode{nodes[1], nodes[0]}, Strict)
	require.NoError(t, err)
	for _, a := range target {
		assertAmount(t, reversed, a.Symbol, a.Amount.String())
	}
}

func TestAllocate_ZeroWeightBranchesEmitNothing(t *testing.T) {
	nodes := []models.AllocationNode{
		leaf("VTI", "100"),
		leaf("GLD", "0"),
		model("crypto", "0", leaf("BITO", "90")), // unbalanced, but inactive
	}

	target, err := Allocate(d("500"), nodes, Strict)
	require.NoError(t, err)

	require.Len(t, target, 1)
	assertAmount(t, target, "VTI", "500")
}

func TestAllocate_ZeroTotalLevelNeverFails(t *testing.T) {
	nodes := []models.AllocationNode{
		model("cash", "100", leaf("VTI", "0"), leaf("BND", "0")),
	}

	target, err := Allocate(d("1000"), nodes, Strict)
	require.NoError(t, err)
	assert.Empty(t, target)
}

func TestAllocate_StrictRejectsUnderweightLevel(t *testing.T) {
	nodes := []models.AllocationNode{leaf("VTI", "50"), leaf("BND", "40")}

	_, err := Allocate(d("1000"), nodes, Strict)

	var imbalance *ImbalanceError
	require.ErrorAs(t, err, &imbalance)
	assert.True(t, imbalance.Total.Equal(d("90")))
	assert.Empty(t, imbalance.Path)
	assert.Contains(t, err.Error(), "top level")
}

func TestAllocate_ImbalanceNamesNestedLevel(t *testing.T) {
	nodes := []models.AllocationNode{
		model("growth", "100", leaf("QQQ", "60"), leaf("VUG", "60")),
	}

	_, err := Allocate(d("1000"), nodes, Lenient)

	var imbalance *ImbalanceError
	require.ErrorAs(t, err, &imbalance)
	assert.Equal(t, []string{"growth"}, imbalance.Path)
	assert.True(t, imbalance.Total.Equal(d("120")))
	assert.Contains(t, err.Error(), "model growth")
}

func TestAllocate_LenientLeavesRemainderInCash(t *testing.T) {
	nodes := []models.AllocationNode{leaf("VTI", "50"), leaf("BND", "40")}

	target, err := Allocate(d("1000"), nodes, Lenient)
	require.NoError(t, err)

	assertAmount(t, target, "VTI", "500")
	assertAmount(t, target, "BND", "400")
	assert.True(t, target.Total().Equal(d("900")))
}

func TestAllocate_FractionalWeightsStayExact(t *testing.T) {
	nodes := []models.AllocationNode{leaf("A", "33.33"), leaf("B", "33.33"), leaf("C", "33.34")}

	target, err := Allocate(d("300"), nodes, Strict)
	require.NoError(t, err)

	assertAmount(t, target, "A", "99.99")
	assertAmount(t, target, "C", "100.02")
	assert.True(t, target.Total().Equal(d("300")))
}

func TestAllocate_CycleFails(t *testing.T) {
	nodes := []models.AllocationNode{
		model("a", "100", leaf("VTI", "50"), leaf("b", "50")),
		model("b", "0", leaf("a", "100")),
	}

	_, err := Allocate(d("1000"), nodes, Strict)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "b", "a"}, cycle.Path)
}

func TestDistribute_ReturnsRawContributions(t *testing.T) {
	items := []models.AllocationNode{leaf("VTI", "50"), leaf("VTI", "50")}

	contributions, err := Distribute(d("100"), items, d("40"), models.NewRegistry(items), Strict)
	require.NoError(t, err)

	require.Len(t, contributions, 2)
	assert.True(t, contributions[0].Amount.Equal(d("20")))
	assert.True(t, Merge(contributions)[0].Amount.Equal(d("40")))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)

	p, err = ParsePolicy(" Lenient ")
	require.NoError(t, err)
	assert.Equal(t, Lenient, p)

	_, err = ParsePolicy("loose")
	assert.Error(t, err)
}

func TestAllocate_ExampleModelFile(t *testing.T) {
	doc, err := models.Load("../../models.example.json")
	require.NoError(t, err)

	target, err := Allocate(d("10000"), doc.Models, Strict)
	require.NoError(t, err)

	assert.True(t, target.Total().Equal(d("10000")))
	assertAmount(t, target, "VTI", "4200")
	assertAmount(t, target, "BND", "2135") // 70% of (10.5% + 20%)
	assertAmount(t, target, "TIP", "915")
	assertAmount(t, target, "BRK.B", "1000")
}

func TestAllocate_RejectsWeightsOutsideRange(t *testing.T) {
	cases := map[string][]models.AllocationNode{
		"negative leaf":  {leaf("VTI", "150"), leaf("BND", "-50")},
		"over 100":       {leaf("VTI", "100.01"), leaf("BND", "-0.01")},
		"negative model": {model("m", "-100", leaf("X", "100")), leaf("Y", "200")},
	}

	for name, nodes := range cases {
		for _, policy := range []Policy{Strict, Lenient} {
			t.Run(name+"/"+string(policy), func(t *testing.T) {
				target, err := Allocate(d("1000"), nodes, policy)

				var weight *WeightRangeError
				require.ErrorAs(t, err, &weight)
				assert.Empty(t, weight.Path)
				assert.Nil(t, target)
			})
		}
	}
}

func TestAllocate_WeightRangeNamesNestedNode(t *testing.T) {
	nodes := []models.AllocationNode{
		model("growth", "100", leaf("QQQ", "120"), leaf("VUG", "-20")),
	}

	_, err := Allocate(d("1000"), nodes, Lenient)

	var weight *WeightRangeError
	require.ErrorAs(t, err, &weight)
	assert.Equal(t, []string{"growth"}, weight.Path)
	assert.Equal(t, "QQQ", weight.Symbol)
	assert.True(t, weight.Percent.Equal(d("120")))
	assert.Contains(t, err.Error(), "model growth")
}
