package bizcard

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCSV parses CSV data into rows of string slices.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	return records, nil
}

func ReadCSVFromFile(filename string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// Converts CSV records to a slice of maps keyed by the header row.
// Duplicate headers get a numeric suffix, e.g. "phone", "phone_2".
func ParseCSVToMap(records [][]string) ([]map[string]string, error) {
	if len(records) == 0 {
		return []map[string]string{}, nil
	}

	headers := uniqueHeaders(records[0])
	result := make([]map[string]string, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		row := make(map[string]string)
		for j := 0; j < len(headers); j++ {
			if j < len(records[i]) {
				row[headers[j]] = records[i][j]
			} else {
				row[headers[j]] = ""
			}
		}
		result = append(result, row)
	}

	return result, nil
}

// Trims the header row and renames exact duplicates, e.g. "phone", "phone_2".
func uniqueHeaders(row []string) []string {
	headers := make([]string, len(row))
	headerCount := make(map[string]int)

	for i, header := range row {
		header = strings.TrimSpace(header)
		if count, exists := headerCount[header]; exists {
			headerCount[header]++
			headers[i] = fmt.Sprintf("%s_%d", header, count+2)
		} else {
			headerCount[header] = 0
			headers[i] = header
		}
	}
	return headers
}

// ReadCards reads one card per CSV row, the header names the card fields.
// When several columns name the same field, e.g. "Name" and "name", the leftmost wins.
func ReadCards(r io.Reader) ([]Card, error) {
	records, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}

	rows, err := ParseCSVToMap(records)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Card{}, nil
	}

	headers := uniqueHeaders(records[0])
	cards := make([]Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, cardFromColumns(headers, row))
	}
	return cards, nil
}

func isFontHeader(header string) bool {
	return strings.EqualFold(strings.TrimSpace(header), "font")
}
