// Package gridio loads floor maps from disk.
package gridio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/elektrokombinacija/parkroute/internal/core"
)

// Extensions recognized as floor files.
var Extensions = []string{".txt", ".map", ".csv"}

// LoadDir reads every floor file in dir and builds a grid.
// Files are ordered by the number formed from the digits in their name
// (floor_2.txt before floor_10.txt); names without digits sort as 0.
func LoadDir(dir string) (*core.FloorGrid, []string, error) {
	files, err := FloorFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%s has no floor files: %w", dir, core.ErrMalformedGrid)
	}

	floors := make([][]string, 0, len(files))
	for _, name := range files {
		rows, err := ReadFloorFile(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, err
		}
		floors = append(floors, rows)
	}

	g, err := core.NewFloorGrid(floors)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", dir, err)
	}
	return g, files, nil
}

// FloorFiles lists floor file names in dir in floor order.
func FloorFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read maps dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isFloorFile(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}

	sort.SliceStable(files, func(i, j int) bool {
		ni, nj := floorNumber(files[i]), floorNumber(files[j])
		if ni != nj {
			return ni < nj
		}
		return files[i] < files[j]
	})
	return files, nil
}

// ReadFloorFile parses one floor file; the extension picks the format.
func ReadFloorFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open floor: %w", err)
	}
	defer f.Close()

	rows, err := ParseFloor(f, strings.EqualFold(filepath.Ext(path), ".csv"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// ParseFloor reads one floor. Text input holds one row per line; CSV input
// holds one symbol per field. Trailing blank lines are ignored.
func ParseFloor(r io.Reader, isCSV bool) ([]string, error) {
	var rows []string
	var err error
	if isCSV {
		rows, err = parseCSV(r)
	} else {
		rows, err = parseText(r)
	}
	if err != nil {
		return nil, err
	}

	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty floor: %w", core.ErrMalformedGrid)
	}
	for i, row := range rows {
		if row == "" {
			return nil, fmt.Errorf("row %d is blank: %w", i, core.ErrMalformedGrid)
		}
	}
	return rows, nil
}

func parseText(r io.Reader) ([]string, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		rows = append(rows, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read floor: %w", err)
	}
	return rows, nil
}

func parseCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv floor: %v: %w", err, core.ErrMalformedGrid)
	}

	rows := make([]string, 0, len(records))
	for y, rec := range records {
		var b strings.Builder
		for x, field := range rec {
			field = strings.TrimSpace(field)
			if len(field) != 1 {
				if len(rec) == 1 && field == "" {
					break
				}
				return nil, fmt.Errorf("row %d col %d: field %q is not a single symbol: %w",
					y, x, field, core.ErrMalformedGrid)
			}
			b.WriteString(field)
		}
		rows = append(rows, b.String())
	}
	return rows, nil
}

func isFloorFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func floorNumber(name string) int {
	var digits strings.Builder
	for _, r := range name {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}
