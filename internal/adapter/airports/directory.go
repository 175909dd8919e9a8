// Package airports assembles the location metadata directory from three
// public datasets: the airportsdata CSV (IATA code, name, IANA zone), the
// OurAirports catalog (airport type and scheduled-service flag), and the
// OpenFlights route list (traffic counts). Locations missing from the latter
// two degrade to unknown classification and zero traffic.
package airports

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/aliceisjustplaying/tidface/internal/domain"
)

// Directory is the read-only location metadata lookup used for allocation.
type Directory struct {
	records []domain.LocationRecord
	byCode  map[string]domain.LocationRecord
}

// NewDirectory builds a Directory from records. Later records with a
// duplicate code are dropped.
func NewDirectory(records []domain.LocationRecord) *Directory {
	d := &Directory{
		byCode: make(map[string]domain.LocationRecord, len(records)),
	}
	for _, rec := range records {
		if rec.Code == "" {
			continue
		}
		if _, ok := d.byCode[rec.Code]; ok {
			continue
		}
		d.byCode[rec.Code] = rec
		d.records = append(d.records, rec)
	}
	return d
}

// Records returns every known location.
func (d *Directory) Records() []domain.LocationRecord {
	return d.records
}

// Lookup returns the record for a code. Missing codes return a stub record
// carrying the code itself, with unknown classification and zero traffic, so
// callers never stall on absent metadata.
func (d *Directory) Lookup(code string) (domain.LocationRecord, bool) {
	if rec, ok := d.byCode[code]; ok {
		return rec, true
	}
	return domain.LocationRecord{Code: code, DisplayName: code}, false
}

// DisplayName returns the display name for a code, falling back to the code.
func (d *Directory) DisplayName(code string) string {
	rec, _ := d.Lookup(code)
	if rec.DisplayName == "" {
		return code
	}
	return rec.DisplayName
}

// Len returns the number of known locations.
func (d *Directory) Len() int {
	return len(d.records)
}

// airportRow is the subset of the airportsdata CSV the directory needs.
type airportRow struct {
	code string
	name string
	tz   string
}

// parseAirports reads the airportsdata CSV (icao,iata,name,city,...,tz,...).
// Rows without an IATA code are ignored; the watch tables key on IATA.
func parseAirports(r io.Reader) ([]airportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read airports header: %w", err)
	}
	col := columnIndex(header)
	iataCol, ok := col["iata"]
	if !ok {
		return nil, fmt.Errorf("airports csv has no iata column")
	}
	nameCol := columnOr(col, "name")
	tzCol, ok := col["tz"]
	if !ok {
		return nil, fmt.Errorf("airports csv has no tz column")
	}

	var rows []airportRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read airports row: %w", err)
		}
		code := field(rec, iataCol)
		if code == "" {
			continue
		}
		rows = append(rows, airportRow{
			code: code,
			name: field(rec, nameCol),
			tz:   field(rec, tzCol),
		})
	}
	return rows, nil
}

// parseClassifications reads the OurAirports CSV and returns classification
// by IATA code.
func parseClassifications(r io.Reader) (map[string]domain.Classification, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read ourairports header: %w", err)
	}
	col := columnIndex(header)
	iataCol, ok := col["iata_code"]
	if !ok {
		return nil, fmt.Errorf("ourairports csv has no iata_code column")
	}
	typeCol := columnOr(col, "type")
	schedCol := columnOr(col, "scheduled_service")

	out := make(map[string]domain.Classification)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ourairports row: %w", err)
		}
		code := field(rec, iataCol)
		if code == "" {
			continue
		}
		out[code] = domain.ClassifyAirport(field(rec, typeCol), field(rec, schedCol) == "yes")
	}
	return out, nil
}

// parseRouteCounts reads OpenFlights routes.dat (headerless; source airport
// in column 2, destination in column 4) and counts appearances per code.
func parseRouteCounts(r io.Reader) (map[string]uint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	counts := make(map[string]uint)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read routes row: %w", err)
		}
		// routes.dat uses \N for missing codes; only real IATA codes count.
		if src := field(rec, 2); len(src) == 3 {
			counts[src]++
		}
		if dst := field(rec, 4); len(dst) == 3 {
			counts[dst]++
		}
	}
	return counts, nil
}

// merge joins the three datasets into the final record set, in airports-CSV
// order.
func merge(rows []airportRow, classes map[string]domain.Classification, traffic map[string]uint) []domain.LocationRecord {
	records := make([]domain.LocationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.LocationRecord{
			Code:        row.code,
			DisplayName: row.name,
			TimezoneID:  row.tz,
			TrafficRank: traffic[row.code],
			Class:       classes[row.code],
		})
	}
	return records
}

// columnOr returns the column index for name, or -1 when absent so field()
// yields empty strings instead of misreading a neighboring column.
func columnOr(col map[string]int, name string) int {
	if i, ok := col[name]; ok {
		return i
	}
	return -1
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	return col
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
