package airports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliceisjustplaying/tidface/internal/domain"
)

const airportsCSV = `icao,iata,name,city,subd,country,elevation,lat,lon,tz,lid
KJFK,JFK,John F Kennedy International Airport,New York,New York,US,13,40.63,-73.77,America/New_York,
KLGA,LGA,LaGuardia Airport,New York,New York,US,20,40.77,-73.87,America/New_York,
EGLL,LHR,Heathrow Airport,London,England,GB,83,51.47,-0.46,Europe/London,
LFPG,,Charles de Gaulle,Paris,,FR,392,49.01,2.55,Europe/Paris,
YSSY,SYD,Sydney Kingsford Smith Airport,Sydney,,AU,21,-33.94,151.18,Australia/Sydney,
`

const ourAirportsCSV = `id,ident,type,name,scheduled_service,iata_code
1,KJFK,large_airport,John F Kennedy,yes,JFK
2,KLGA,large_airport,LaGuardia,yes,LGA
3,EGLL,large_airport,Heathrow,yes,LHR
4,YSSY,medium_airport,Sydney,yes,SYD
5,KXYZ,small_airport,Somewhere,no,XYZ
6,ZZZZ,heliport,Pad,yes,
`

const routesDat = `AA,1,JFK,100,LHR,200,,0,738
AA,1,LHR,200,JFK,100,,0,738
QF,2,SYD,300,JFK,100,,0,744
QF,2,SYD,300,\N,\N,,0,744
`

func TestParseAirports(t *testing.T) {
	rows, err := parseAirports(strings.NewReader(airportsCSV))
	require.NoError(t, err)

	// The IATA-less Paris row is dropped.
	require.Len(t, rows, 4)
	assert.Equal(t, airportRow{code: "JFK", name: "John F Kennedy International Airport", tz: "America/New_York"}, rows[0])
	assert.Equal(t, "Australia/Sydney", rows[3].tz)
}

func TestParseAirports_MissingColumns(t *testing.T) {
	_, err := parseAirports(strings.NewReader("icao,name\nKJFK,JFK\n"))
	assert.Error(t, err)

	_, err = parseAirports(strings.NewReader("iata,name\nJFK,Kennedy\n"))
	assert.Error(t, err, "tz column is mandatory")
}

func TestParseClassifications(t *testing.T) {
	classes, err := parseClassifications(strings.NewReader(ourAirportsCSV))
	require.NoError(t, err)

	assert.Equal(t, domain.ClassMajor, classes["JFK"])
	assert.Equal(t, domain.ClassRegional, classes["SYD"])
	assert.Equal(t, domain.ClassUnknown, classes["XYZ"], "no scheduled service")
	assert.NotContains(t, classes, "", "rows without an IATA code are skipped")
}

func TestParseRouteCounts(t *testing.T) {
	counts, err := parseRouteCounts(strings.NewReader(routesDat))
	require.NoError(t, err)

	assert.Equal(t, uint(3), counts["JFK"])
	assert.Equal(t, uint(2), counts["LHR"])
	assert.Equal(t, uint(2), counts["SYD"])
	assert.NotContains(t, counts, `\N`, "placeholder codes are not counted")
}

func TestMerge(t *testing.T) {
	rows, err := parseAirports(strings.NewReader(airportsCSV))
	require.NoError(t, err)
	classes, err := parseClassifications(strings.NewReader(ourAirportsCSV))
	require.NoError(t, err)
	counts, err := parseRouteCounts(strings.NewReader(routesDat))
	require.NoError(t, err)

	records := merge(rows, classes, counts)
	require.Len(t, records, 4)

	jfk := records[0]
	assert.Equal(t, "JFK", jfk.Code)
	assert.Equal(t, "America/New_York", jfk.TimezoneID)
	assert.Equal(t, domain.ClassMajor, jfk.Class)
	assert.Equal(t, uint(3), jfk.TrafficRank)

	// LGA appears in no route, so it degrades to zero traffic.
	lga := records[1]
	assert.Zero(t, lga.TrafficRank)
	assert.Equal(t, domain.ClassMajor, lga.Class)
}

func TestDirectory_LookupAndDisplayName(t *testing.T) {
	d := NewDirectory([]domain.LocationRecord{
		{Code: "JFK", DisplayName: "John F Kennedy International Airport", TimezoneID: "America/New_York"},
		{Code: "JFK", DisplayName: "duplicate, dropped"},
		{Code: "NON"},
		{Code: ""},
	})

	assert.Equal(t, 2, d.Len())

	rec, ok := d.Lookup("JFK")
	assert.True(t, ok)
	assert.Equal(t, "John F Kennedy International Airport", rec.DisplayName)

	// Unknown codes get a stub so callers never block on absent metadata.
	stub, ok := d.Lookup("ZZZ")
	assert.False(t, ok)
	assert.Equal(t, "ZZZ", stub.Code)
	assert.Equal(t, domain.ClassUnknown, stub.Class)

	assert.Equal(t, "ZZZ", d.DisplayName("ZZZ"))
	assert.Equal(t, "NON", d.DisplayName("NON"), "nameless record falls back to its code")
}
