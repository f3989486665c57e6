// Package network holds the airport and route tables that make up the flight
// network, and the stages that load, clean and geo-enrich them.
package network

import "errors"

// ErrSchema is returned when an input file does not match the fixed column layout.
var ErrSchema = errors.New("dataset does not match schema")

// Airport columns, in file order. ColID is the index and is not kept as a column.
const (
	ColID         = "ID"
	ColName       = "Name"
	ColCity       = "City"
	ColCountry    = "Country"
	ColIATA       = "IATA"
	ColICAO       = "ICAO"
	ColLat        = "Lat"
	ColLong       = "Long"
	ColAlt        = "Alt"
	ColTimezone   = "Timezone"
	ColDST        = "DST"
	ColTzName     = "Tz database time zone"
	ColType       = "type"
	ColDataSource = "source"
)

// Route columns, in file order, followed by the coordinates added by Enrich.
const (
	ColAirline         = "Airline"
	ColAirlineID       = "Airline ID"
	ColSourceAirport   = "Source Airport"
	ColSourceAirportID = "Source Airport ID"
	ColDestAirport     = "Dest Airport"
	ColDestAirportID   = "Dest Airport ID"
	ColCodeshare       = "Codeshare"
	ColStops           = "Stops"
	ColEquipment       = "equipment"

	ColStartLong = "start_long"
	ColStartLat  = "start_lat"
	ColEndLong   = "end_long"
	ColEndLat    = "end_lat"
)

var (
	AirportSchema = []string{
		ColID, ColName, ColCity, ColCountry, ColIATA, ColICAO, ColLat, ColLong, ColAlt,
		ColTimezone, ColDST, ColTzName, ColType, ColDataSource,
	}
	RouteSchema = []string{
		ColAirline, ColAirlineID, ColSourceAirport, ColSourceAirportID,
		ColDestAirport, ColDestAirportID, ColCodeshare, ColStops, ColEquipment,
	}
	CoordinateColumns = []string{ColStartLong, ColStartLat, ColEndLong, ColEndLat}
)

// OpenFlights writes \N for null.
const nullValue = `\N`
