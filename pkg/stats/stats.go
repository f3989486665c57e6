// Package stats summarizes the enriched network per country.
package stats

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/biter777/countries"

	"github.com/sudorandom/flightnet/pkg/network"
)

const unknownCountry = "Unknown"

// Entry is one country row. Code is the ISO 3166 alpha-2 code, empty when the
// dataset's country name is not recognised.
type Entry struct {
	Country string
	Code    string
	Count   int
}

type Summary struct {
	Airports int
	// Joinable is the number of distinct IATA codes routes can resolve through.
	Joinable int
	Routes   int
	Resolved int
	Missing  int

	AirportsByCountry []Entry
	// RoutesByCountry counts routes by the country of their source airport.
	RoutesByCountry []Entry
}

// Summarize counts airports and routes per country, keeping the top entries.
// top <= 0 keeps every country.
func Summarize(ds *network.Dataset, top int) Summary {
	airports := make(map[string]int)
	for _, a := range ds.Airports.Airports() {
		airports[countryName(a.Country)]++
	}

	routes := make(map[string]int)
	all := ds.Routes.Routes()
	for _, r := range all {
		name := unknownCountry
		if a, ok := ds.Airports.ByID(r.SourceID); ok {
			name = countryName(a.Country)
		}
		routes[name]++
	}

	return Summary{
		Airports:          ds.Airports.Len(),
		Joinable:          len(ds.Lookup),
		Routes:            len(all),
		Resolved:          ds.Stats.Resolved,
		Missing:           ds.Stats.Missing,
		AirportsByCountry: ranked(airports, top),
		RoutesByCountry:   ranked(routes, top),
	}
}

func countryName(s string) string {
	if s == "" {
		return unknownCountry
	}
	return s
}

// CountryCode maps a country name to its alpha-2 code, or "" if unrecognised.
func CountryCode(name string) string {
	if name == unknownCountry {
		return ""
	}
	code := countries.ByName(name)
	if code == countries.Unknown {
		return ""
	}
	return code.Alpha2()
}

// ranked sorts by count descending, then name.
func ranked(counts map[string]int, top int) []Entry {
	out := make([]Entry, 0, len(counts))
	for name, n := range counts {
		out = append(out, Entry{Country: name, Code: CountryCode(name), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Country < out[j].Country
	})
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}

func (s Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Airports\t%d\n", s.Airports)
	fmt.Fprintf(tw, "IATA codes\t%d\n", s.Joinable)
	fmt.Fprintf(tw, "Routes\t%d\n", s.Routes)
	fmt.Fprintf(tw, "Resolved\t%d\n", s.Resolved)
	fmt.Fprintf(tw, "Missing\t%d\n", s.Missing)

	for _, section := range []struct {
		title   string
		entries []Entry
	}{
		{"AIRPORTS BY COUNTRY", s.AirportsByCountry},
		{"ROUTES BY SOURCE COUNTRY", s.RoutesByCountry},
	} {
		fmt.Fprintf(tw, "\n%s\tCODE\tCOUNT\n", section.title)
		for _, e := range section.entries {
			code := e.Code
			if code == "" {
				code = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\n", e.Country, code, e.Count)
		}
	}
	return tw.Flush()
}
