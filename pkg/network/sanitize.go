package network

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
)

var idColumns = []string{ColSourceAirportID, ColDestAirportID}

// Sanitize converts the source and destination airport ID columns to floats,
// treating anything that is not a number as missing, and drops every row
// missing either. Surrounding whitespace and forms like "3797.0" are numbers.
// The input table is not modified. Sanitize(Sanitize(t)) equals Sanitize(t).
func Sanitize(routes *RouteTable) *RouteTable {
	df := routes.df.Copy()
	valid := make([]bool, df.Nrow())
	for i := range valid {
		valid[i] = true
	}
	for _, name := range idColumns {
		vals, ok := coerceNumeric(df.Col(name))
		for i := range valid {
			valid[i] = valid[i] && ok[i]
		}
		df = df.Mutate(series.New(vals, series.Float, name))
	}

	keep := make([]int, 0, df.Nrow())
	for i, ok := range valid {
		if ok {
			keep = append(keep, i)
		}
	}
	if len(keep) == df.Nrow() {
		return &RouteTable{df: df}
	}
	return &RouteTable{df: df.Subset(keep)}
}

// coerceNumeric parses every element as a float. Elements that are missing or
// do not parse come back as NaN with ok false.
func coerceNumeric(col series.Series) ([]float64, []bool) {
	vals := make([]float64, col.Len())
	ok := make([]bool, col.Len())
	for i := range vals {
		vals[i] = math.NaN()
		el := col.Elem(i)
		if el.IsNA() {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(el.String()), 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		vals[i], ok[i] = v, true
	}
	return vals, ok
}
