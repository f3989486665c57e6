// Package export writes the enriched network as GeoJSON.
package export

import (
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"

	"github.com/sudorandom/flightnet/pkg/network"
)

// FeatureCollection builds one Point per airport with valid coordinates and
// one LineString per resolved route. limit <= 0 exports every route, otherwise
// only the first limit rows of the route table are considered.
func FeatureCollection(ds *network.Dataset, limit int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, a := range ds.Airports.Airports() {
		if !a.Position.Valid() {
			continue
		}
		f := geojson.NewPointFeature([]float64{a.Position.Long, a.Position.Lat})
		f.SetProperty("id", a.ID)
		f.SetProperty("name", a.Name)
		f.SetProperty("city", a.City)
		f.SetProperty("country", a.Country)
		f.SetProperty("iata", a.IATA)
		f.SetProperty("icao", a.ICAO)
		fc.AddFeature(f)
	}

	routes := ds.Routes.Routes()
	if limit > 0 && limit < len(routes) {
		routes = routes[:limit]
	}
	for _, r := range routes {
		if !r.Resolved() {
			continue
		}
		f := geojson.NewLineStringFeature([][]float64{
			{r.Start.Long, r.Start.Lat},
			{r.End.Long, r.End.Lat},
		})
		f.SetProperty("airline", r.Airline)
		f.SetProperty("source", r.Source)
		f.SetProperty("dest", r.Dest)
		f.SetProperty("stops", r.Stops)
		f.SetProperty("equipment", r.Equipment)
		fc.AddFeature(f)
	}
	return fc
}

func Write(w io.Writer, ds *network.Dataset, limit int) error {
	data, err := FeatureCollection(ds, limit).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}
	return nil
}
