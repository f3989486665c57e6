package network

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// FilterEquipment keeps routes flown with any of the given aircraft codes.
// The equipment field is a space separated list, so codes only match whole
// tokens: "73" does not match "738". No codes means no filtering.
func FilterEquipment(routes *RouteTable, codes []string) *RouteTable {
	patterns := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c != "" {
			patterns = append(patterns, " "+c+" ")
		}
	}
	if len(patterns) == 0 {
		return routes
	}

	m := ahocorasick.NewStringMatcher(patterns)
	eq := routes.df.Col(ColEquipment)
	keep := make([]int, 0, routes.Len())
	for i := 0; i < routes.Len(); i++ {
		if len(m.Match([]byte(" "+str(eq.Elem(i))+" "))) > 0 {
			keep = append(keep, i)
		}
	}
	return &RouteTable{df: routes.df.Subset(keep)}
}
