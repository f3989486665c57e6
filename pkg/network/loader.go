package network

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LoadAirports reads headerless airports.dat rows. The ID column becomes the
// table index; the remaining 13 columns are kept in file order. Rows whose ID
// is missing or not an integer are dropped.
func LoadAirports(r io.Reader) (*AirportTable, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(false),
		dataframe.Names(AirportSchema...),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			ColID:       series.Int,
			ColLat:      series.Float,
			ColLong:     series.Float,
			ColAlt:      series.Float,
			ColTimezone: series.Float,
		}),
		dataframe.NaNValues([]string{nullValue, "NA", "NaN", "<nil>"}),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: airports: %v", ErrSchema, df.Err)
	}

	idCol := df.Col(ColID)
	ids := make([]int, 0, df.Nrow())
	keep := make([]int, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		el := idCol.Elem(i)
		if el.IsNA() {
			continue
		}
		id, err := el.Int()
		if err != nil {
			continue
		}
		ids = append(ids, id)
		keep = append(keep, i)
	}
	if len(keep) < df.Nrow() {
		df = df.Subset(keep)
	}
	byID := make(map[int]int, len(ids))
	for i, id := range ids {
		byID[id] = i
	}

	df = df.Drop(ColID)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: airports: %v", ErrSchema, df.Err)
	}
	return &AirportTable{df: df, ids: ids, byID: byID}, nil
}

// LoadRoutes reads headerless routes.dat rows. Every column is kept as the raw
// string; Sanitize does the numeric coercion.
func LoadRoutes(r io.Reader) (*RouteTable, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(false),
		dataframe.Names(RouteSchema...),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: routes: %v", ErrSchema, df.Err)
	}
	return &RouteTable{df: df}, nil
}
