package sources

const (
	OpenFlightsAirportsURL = "https://raw.githubusercontent.com/jpatokal/openflights/master/data/airports.dat"
	OpenFlightsRoutesURL   = "https://raw.githubusercontent.com/jpatokal/openflights/master/data/routes.dat"

	WorldGeoJSONURL = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"
)

// File names used inside a dataset directory.
const (
	AirportsFile = "airports.dat"
	RoutesFile   = "routes.dat"
	BasemapFile  = "world.geo.json"
)

// Cache labels per resource.
const (
	airportsLabel = "[airports]"
	routesLabel   = "[routes]"
	basemapLabel  = "[basemap]"
)
