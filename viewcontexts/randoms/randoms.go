// Package randoms provides the view-context module of the randoms
// controller: aggregates over the generated people and a page title.
package randoms

import (
	"errors"
	"fmt"
	"sort"

	"github.com/GoCodeAlone/logicalview/internal/people"
	"github.com/GoCodeAlone/logicalview/viewcontext"
)

// ModuleName is the symbolic name of the randoms view context.
const ModuleName = "RandomsViewContext"

// ErrNoPeople is returned by aggregates that are undefined for an empty list.
var ErrNoPeople = errors.New("randoms: no people")

// Vowels counted by VowelCounts. Upper-case vowels are not counted.
const Vowels = "aeiou"

// MinMax is the lowest and the highest spender.
type MinMax struct {
	Min people.Person
	Max people.Person
}

// VowelCount is the number of times a vowel occurs across all names.
type VowelCount struct {
	Letter string
	Count  int
}

// SumSpend returns the total spend. An empty list sums to zero.
func SumSpend(list []people.Person) float64 {
	var sum float64
	for _, p := range list {
		sum += p.Spend
	}
	return sum
}

// AvgSpend returns the mean spend.
func AvgSpend(list []people.Person) (float64, error) {
	if len(list) == 0 {
		return 0, ErrNoPeople
	}
	return SumSpend(list) / float64(len(list)), nil
}

// MinMaxSpenders returns the lowest and highest spenders. Ties keep the
// first occurrence.
func MinMaxSpenders(list []people.Person) (MinMax, error) {
	if len(list) == 0 {
		return MinMax{}, ErrNoPeople
	}
	mm := MinMax{Min: list[0], Max: list[0]}
	for _, p := range list[1:] {
		if p.Spend < mm.Min.Spend {
			mm.Min = p
		}
		if p.Spend > mm.Max.Spend {
			mm.Max = p
		}
	}
	return mm, nil
}

// VowelCounts counts the lower-case vowels across all names, sorted by
// letter. Matching is case-sensitive: "Ada" contributes one "a".
func VowelCounts(list []people.Person) []VowelCount {
	counts := make(map[rune]int)
	for _, p := range list {
		for _, r := range p.Name {
			switch r {
			case 'a', 'e', 'i', 'o', 'u':
				counts[r]++
			}
		}
	}

	out := make([]VowelCount, 0, len(counts))
	for r, n := range counts {
		out = append(out, VowelCount{Letter: string(r), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Letter < out[j].Letter })
	return out
}

// Winner reports whether id is the winning id.
func Winner(id, winnerID string) bool {
	return id == winnerID
}

// Title returns the index page title for n people.
func Title(n int) string {
	return fmt.Sprintf("%d Random People - LogicalView", n)
}

// Module returns the randoms view-context module. List helpers take the
// people list; title and winner read the view locals the way the
// controller renders them.
func Module() *viewcontext.Module {
	return viewcontext.NewModule(ModuleName).
		Define("sum_spend", func(c *viewcontext.Call) (any, error) {
			list, err := viewcontext.Arg[[]people.Person](c, 0)
			if err != nil {
				return nil, err
			}
			return c.View.Memo(viewcontext.MemoKey(c.Name, list), func() (any, error) {
				return SumSpend(list), nil
			})
		}).
		Define("avg_spend", func(c *viewcontext.Call) (any, error) {
			list, err := viewcontext.Arg[[]people.Person](c, 0)
			if err != nil {
				return nil, err
			}
			return c.View.Memo(viewcontext.MemoKey(c.Name, list), func() (any, error) {
				if len(list) == 0 {
					return nil, ErrNoPeople
				}
				sum, err := c.View.Call("sum_spend", list)
				if err != nil {
					return nil, err
				}
				total, ok := sum.(float64)
				if !ok {
					return nil, fmt.Errorf("%w: sum_spend returned %T", viewcontext.ErrArgumentType, sum)
				}
				return total / float64(len(list)), nil
			})
		}).
		Define("minmax_spenders", func(c *viewcontext.Call) (any, error) {
			list, err := viewcontext.Arg[[]people.Person](c, 0)
			if err != nil {
				return nil, err
			}
			return c.View.Memo(viewcontext.MemoKey(c.Name, list), func() (any, error) {
				return MinMaxSpenders(list)
			})
		}).
		Define("vowel_counts", func(c *viewcontext.Call) (any, error) {
			list, err := viewcontext.Arg[[]people.Person](c, 0)
			if err != nil {
				return nil, err
			}
			return VowelCounts(list), nil
		}).
		Define("winner", func(c *viewcontext.Call) (any, error) {
			id, err := viewcontext.Arg[string](c, 0)
			if err != nil {
				return nil, err
			}
			locals, err := c.Locals(1)
			if err != nil {
				return nil, err
			}
			winnerID, _ := locals["winner_id"].(string)
			return Winner(id, winnerID), nil
		}).
		Define("title", func(c *viewcontext.Call) (any, error) {
			if c.View.Controller == nil || c.View.Controller.ActionName() != "index" {
				return c.Super()
			}
			locals, err := c.Locals(0)
			if err != nil {
				return nil, err
			}
			list, ok := locals["randoms"].([]people.Person)
			if !ok {
				return nil, fmt.Errorf("%w: title needs randoms in locals", viewcontext.ErrMissingArgument)
			}
			return Title(len(list)), nil
		})
}
