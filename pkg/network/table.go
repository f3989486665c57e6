package network

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Coord is a position in degrees. Missing coordinates are NaN.
type Coord struct {
	Long, Lat float64
}

// MissingCoord is the sentinel stored for unresolved endpoints.
var MissingCoord = Coord{Long: math.NaN(), Lat: math.NaN()}

func (c Coord) Valid() bool {
	return !math.IsNaN(c.Long) && !math.IsNaN(c.Lat)
}

type Airport struct {
	ID       int
	Name     string
	City     string
	Country  string
	IATA     string
	ICAO     string
	Position Coord
	Altitude float64
	Timezone float64
	DST      string
	TzName   string
	Type     string
	Source   string
}

type Route struct {
	Airline   string
	AirlineID string
	Source    string
	SourceID  int
	Dest      string
	DestID    int
	Codeshare string
	Stops     string
	Equipment string

	Start, End Coord
}

// Resolved reports whether both endpoints carry coordinates.
func (r Route) Resolved() bool {
	return r.Start.Valid() && r.End.Valid()
}

// AirportTable is the immutable airport dataset, indexed by airport ID.
type AirportTable struct {
	df   dataframe.DataFrame
	ids  []int
	byID map[int]int
}

func (t *AirportTable) Len() int { return t.df.Nrow() }

// Columns lists the non-index columns in order.
func (t *AirportTable) Columns() []string { return t.df.Names() }

func (t *AirportTable) Frame() dataframe.DataFrame { return t.df.Copy() }

func (t *AirportTable) ByID(id int) (Airport, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Airport{}, false
	}
	return t.row(i), true
}

// Airports returns every row in file order.
func (t *AirportTable) Airports() []Airport {
	out := make([]Airport, t.df.Nrow())
	for i := range out {
		out[i] = t.row(i)
	}
	return out
}

func (t *AirportTable) row(i int) Airport {
	col := func(name string) series.Element { return t.df.Col(name).Elem(i) }
	return Airport{
		ID:       t.ids[i],
		Name:     str(col(ColName)),
		City:     str(col(ColCity)),
		Country:  str(col(ColCountry)),
		IATA:     str(col(ColIATA)),
		ICAO:     str(col(ColICAO)),
		Position: Coord{Long: col(ColLong).Float(), Lat: col(ColLat).Float()},
		Altitude: col(ColAlt).Float(),
		Timezone: col(ColTimezone).Float(),
		DST:      str(col(ColDST)),
		TzName:   str(col(ColTzName)),
		Type:     str(col(ColType)),
		Source:   str(col(ColDataSource)),
	}
}

// RouteTable is the route dataset. Sanitize and Enrich return new tables.
type RouteTable struct {
	df dataframe.DataFrame
}

func (t *RouteTable) Len() int { return t.df.Nrow() }

func (t *RouteTable) Columns() []string { return t.df.Names() }

func (t *RouteTable) Frame() dataframe.DataFrame { return t.df.Copy() }

// Enriched reports whether the coordinate columns are present.
func (t *RouteTable) Enriched() bool {
	names := make(map[string]bool)
	for _, n := range t.df.Names() {
		names[n] = true
	}
	for _, c := range CoordinateColumns {
		if !names[c] {
			return false
		}
	}
	return true
}

// Routes returns every row in table order. Coordinates are MissingCoord
// until the table has been enriched.
func (t *RouteTable) Routes() []Route {
	enriched := t.Enriched()
	out := make([]Route, t.df.Nrow())
	for i := range out {
		col := func(name string) series.Element { return t.df.Col(name).Elem(i) }
		r := Route{
			Airline:   str(col(ColAirline)),
			AirlineID: str(col(ColAirlineID)),
			Source:    str(col(ColSourceAirport)),
			SourceID:  integer(col(ColSourceAirportID)),
			Dest:      str(col(ColDestAirport)),
			DestID:    integer(col(ColDestAirportID)),
			Codeshare: str(col(ColCodeshare)),
			Stops:     str(col(ColStops)),
			Equipment: str(col(ColEquipment)),
			Start:     MissingCoord,
			End:       MissingCoord,
		}
		if enriched {
			r.Start = Coord{Long: col(ColStartLong).Float(), Lat: col(ColStartLat).Float()}
			r.End = Coord{Long: col(ColEndLong).Float(), Lat: col(ColEndLat).Float()}
		}
		out[i] = r
	}
	return out
}

func str(el series.Element) string {
	if el.IsNA() {
		return ""
	}
	return el.String()
}

// integer returns 0 for values that are missing or not yet numeric.
func integer(el series.Element) int {
	if el.IsNA() {
		return 0
	}
	v, err := el.Int()
	if err != nil {
		return 0
	}
	return v
}
