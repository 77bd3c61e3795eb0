package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pivotFixture() []Line {
	orders := []OrderRow{
		{Row: 2, Serial: "1001", Date: "2026-08-01", Company: "Acme", Product: "Widget", Quantity: "100"},
		{Row: 3, Serial: "1002", Date: "2026-08-01", Company: "Acme", Product: "Gadget", Quantity: "50"},
		{Row: 4, Serial: "1003", Date: "2026-08-02", Company: "Beta Corp", Product: "Widget", Quantity: "30"},
		{Row: 5, Serial: "1004", Date: "2026-08-02", Company: "Beta Corp", Product: "Widget", Quantity: "20"},
		// fully dispatched, must not appear anywhere
		{Row: 6, Serial: "1005", Date: "2026-08-03", Company: "Gamma", Product: "Sprocket", Quantity: "10"},
	}
	dispatches := []DispatchRow{
		{Product: "Widget", Quantity: "40", Serial: "1001"},
		{Product: "Sprocket", Quantity: "10", Serial: "1005"},
	}
	return Reconcile(orders, DispatchTotals(dispatches))
}

func TestBuildPivot(t *testing.T) {
	p := BuildPivot(pivotFixture(), "", "")

	assert.Equal(t, []string{"Acme", "Beta Corp"}, p.Parties)
	assert.Equal(t, []string{"Gadget", "Widget"}, p.Products)

	require.Len(t, p.Cells, 2)
	// Acme: Gadget 50, Widget 60
	assert.Equal(t, []int{50, 60}, p.Cells[0])
	// Beta Corp: no Gadget (zero fill), Widget rows summed 30+20
	assert.Equal(t, []int{0, 50}, p.Cells[1])
}

func TestBuildPivot_RowSumMatchesCompanyPending(t *testing.T) {
	lines := pivotFixture()
	p := BuildPivot(lines, "", "")

	for i, party := range p.Parties {
		rowSum := 0
		for _, v := range p.Cells[i] {
			rowSum += v
		}
		want := 0
		for _, l := range Pending(lines) {
			if l.Company == party {
				want += l.Remaining
			}
		}
		assert.Equal(t, want, rowSum, "party %s", party)
	}
}

func TestBuildPivot_Idempotent(t *testing.T) {
	lines := pivotFixture()
	first := BuildPivot(lines, "", "")
	second := BuildPivot(lines, "", "")
	assert.Equal(t, first, second)
}

func TestBuildPivot_SubstringFilters(t *testing.T) {
	lines := pivotFixture()

	t.Run("product filter", func(t *testing.T) {
		p := BuildPivot(lines, "gadg", "")
		assert.Equal(t, []string{"Gadget"}, p.Products)
		assert.Equal(t, []string{"Acme"}, p.Parties)
	})

	t.Run("party filter is case-insensitive", func(t *testing.T) {
		p := BuildPivot(lines, "", "BETA")
		assert.Equal(t, []string{"Beta Corp"}, p.Parties)
		assert.Equal(t, []string{"Widget"}, p.Products)
		assert.Equal(t, [][]int{{50}}, p.Cells)
	})

	t.Run("comma list matches any token", func(t *testing.T) {
		p := BuildPivot(lines, "gadget,sprocket", "")
		// sprocket is fully dispatched, only gadget survives
		assert.Equal(t, []string{"Gadget"}, p.Products)
	})

	t.Run("no match yields empty pivot", func(t *testing.T) {
		p := BuildPivot(lines, "doohickey", "")
		assert.Empty(t, p.Parties)
		assert.Empty(t, p.Products)
		assert.Empty(t, p.Cells)
	})
}
