package orders

import (
	"sort"
	"strings"
)

// Pivot is the company x product matrix of summed pending quantities.
// Parties and Products are lexicographically sorted; Cells is row-major
// by party with zero fill for absent combinations.
type Pivot struct {
	Products []string `json:"products"`
	Parties  []string `json:"parties"`
	Cells    [][]int  `json:"pivot"`
}

// BuildPivot aggregates pending quantities by exact (unnormalized)
// company and product text, after applying the comma-separated,
// case-insensitive substring filters. An empty filter list matches
// everything; otherwise any token being a substring is enough.
func BuildPivot(lines []Line, productFilter, partyFilter string) Pivot {
	productTokens := filterTokens(productFilter)
	partyTokens := filterTokens(partyFilter)

	data := make(map[string]map[string]int)
	for _, l := range lines {
		if l.Remaining <= 0 {
			continue
		}
		if !matchesAny(l.Product, productTokens) || !matchesAny(l.Company, partyTokens) {
			continue
		}
		if data[l.Company] == nil {
			data[l.Company] = make(map[string]int)
		}
		data[l.Company][l.Product] += l.Remaining
	}

	productSet := make(map[string]struct{})
	parties := make([]string, 0, len(data))
	for company, byProduct := range data {
		parties = append(parties, company)
		for product := range byProduct {
			productSet[product] = struct{}{}
		}
	}
	sort.Strings(parties)

	products := make([]string, 0, len(productSet))
	for product := range productSet {
		products = append(products, product)
	}
	sort.Strings(products)

	cells := make([][]int, len(parties))
	for i, party := range parties {
		row := make([]int, len(products))
		for j, product := range products {
			row[j] = data[party][product]
		}
		cells[i] = row
	}

	return Pivot{Products: products, Parties: parties, Cells: cells}
}

func filterTokens(filter string) []string {
	var tokens []string
	for _, t := range strings.Split(strings.ToLower(filter), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func matchesAny(target string, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	lowered := strings.ToLower(target)
	for _, t := range tokens {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}
