package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"location-api/internal/config"

	"github.com/jackc/pgx/v5"
)

type locationRow struct {
	Postcode  string
	Latitude  float64
	Longitude float64
	Town      string
	County    string
	Street1   string
	Street2   string
	District1 string
	District2 string
}

// Column headers in the UK address CSV. The coordinate columns appear under
// their long export names in some dumps, so both are accepted.
var columnAliases = map[string][]string{
	"postcode":  {"Postcode"},
	"latitude":  {"Latitude", "EXTRA_Decimal degrees latitude"},
	"longitude": {"Longitude", "EXTRA_Decimal degrees longitude"},
	"town":      {"Town"},
	"county":    {"County"},
	"street1":   {"Street1"},
	"street2":   {"Street2"},
	"district1": {"District1"},
	"district2": {"District2"},
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	rows, err := parseCSV(*file)
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(rows))

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	if err := createTableIfNotExists(conn); err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	if err := insertRows(conn, rows); err != nil {
		fmt.Printf("Error inserting records: %v\n", err)
		os.Exit(1)
	}

	if err := verifyImport(conn, len(rows)); err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records\n", len(rows))
}

func parseCSV(filePath string) ([]locationRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []locationRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		// Rows without coordinates keep a (0, 0) sentinel rather than being
		// dropped: an exact postcode lookup should still find them.
		lat, _ := strconv.ParseFloat(field("latitude"), 64)
		lon, _ := strconv.ParseFloat(field("longitude"), 64)

		postcode := strings.ToUpper(field("postcode"))
		if postcode == "" {
			continue
		}

		rows = append(rows, locationRow{
			Postcode:  postcode,
			Latitude:  lat,
			Longitude: lon,
			Town:      field("town"),
			County:    field("county"),
			Street1:   field("street1"),
			Street2:   field("street2"),
			District1: field("district1"),
			District2: field("district2"),
		})
	}

	return rows, nil
}

func resolveColumns(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for name, aliases := range columnAliases {
		for _, alias := range aliases {
			for i, h := range header {
				if strings.EqualFold(strings.TrimSpace(h), alias) {
					index[name] = i
				}
			}
		}
	}
	for _, required := range []string{"postcode", "latitude", "longitude"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("required column %q not found in CSV header", required)
		}
	}
	return index, nil
}

func createTableIfNotExists(conn *pgx.Conn) error {
	// The btree indexes back the exact/prefix text lookups; the composite
	// (latitude, longitude) index backs the bounding-box pre-filter.
	query := `
	CREATE TABLE IF NOT EXISTS locations (
		id BIGSERIAL PRIMARY KEY,
		postcode VARCHAR(10) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		town VARCHAR(255) NOT NULL DEFAULT '',
		county VARCHAR(255) NOT NULL DEFAULT '',
		street1 VARCHAR(255) NOT NULL DEFAULT '',
		street2 VARCHAR(255) NOT NULL DEFAULT '',
		district1 VARCHAR(255) NOT NULL DEFAULT '',
		district2 VARCHAR(255) NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS locations_postcode_idx ON locations (postcode text_pattern_ops);
	CREATE INDEX IF NOT EXISTS locations_town_idx ON locations (upper(town));
	CREATE INDEX IF NOT EXISTS locations_county_idx ON locations (upper(county));
	CREATE INDEX IF NOT EXISTS locations_coords_idx ON locations (latitude, longitude);
	`
	_, err := conn.Exec(context.Background(), query)
	return err
}

func insertRows(conn *pgx.Conn, rows []locationRow) error {
	// Use CopyFrom for bulk insert
	_, err := conn.CopyFrom(
		context.Background(),
		pgx.Identifier{"locations"},
		[]string{"postcode", "latitude", "longitude", "town", "county", "street1", "street2", "district1", "district2"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			r := rows[i]
			return []interface{}{r.Postcode, r.Latitude, r.Longitude, r.Town, r.County, r.Street1, r.Street2, r.District1, r.District2}, nil
		}),
	)
	return err
}

func verifyImport(conn *pgx.Conn, expectedCount int) error {
	var count int
	err := conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM locations").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if count != expectedCount {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expectedCount, count)
	}

	// Check a sample row
	var postcode string
	var lat, lon float64
	err = conn.QueryRow(context.Background(), "SELECT postcode, latitude, longitude FROM locations LIMIT 1").Scan(&postcode, &lat, &lon)
	if err != nil {
		return fmt.Errorf("failed to check sample row: %w", err)
	}

	fmt.Printf("Sample row: %s (%f, %f)\n", postcode, lat, lon)
	return nil
}
