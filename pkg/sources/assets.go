package sources

import _ "embed"

// A trimmed copy of the OpenFlights files so the tool works offline.

//go:embed data/airports.dat
var bundledAirports []byte

//go:embed data/routes.dat
var bundledRoutes []byte
