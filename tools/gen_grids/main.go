// Package main provides garage generation for parking search benchmarks.
// Generates deterministic multi-floor maps with configurable parameters.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// GarageParams defines parameters for garage generation.
type GarageParams struct {
	Seed        int64
	Floors      int
	Width       int
	Height      int
	SlotDensity float64 // Fraction of bay cells that become slots
	LadiesRatio float64 // Fraction of slots reserved for ladies
	DisabRatio  float64 // Fraction of slots reserved for disability
	OneWay      bool    // Make the west aisle southbound only
}

// generateGarage builds one symbol matrix per floor.
//
// Layout per floor: walled border, road aisles on rows 1 and H-2 and on
// columns 1, 2 and W-2, parking bays every third row in between. The up
// ramp alternates between the north-east and south-east corners so the
// landing of floor z never collides with the ramp of floor z+1; down ramps
// alternate the same way in column 2.
func generateGarage(p GarageParams) [][]string {
	rng := rand.New(rand.NewSource(p.Seed))
	w, h := p.Width, p.Height

	floors := make([][][]byte, p.Floors)
	for z := range floors {
		rows := make([][]byte, h)
		for y := range rows {
			row := make([]byte, w)
			for x := range row {
				switch {
				case y == 0 || y == h-1 || x == 0 || x == w-1:
					row[x] = '#'
				case p.OneWay && x == 1 && y > 1 && y < h-2:
					row[x] = 'v'
				default:
					row[x] = '.'
				}
			}
			rows[y] = row
		}

		for y := 2; y <= h-3; y++ {
			if (y-2)%3 != 0 {
				continue
			}
			for x := 3; x <= w-3; x++ {
				if rng.Float64() >= p.SlotDensity {
					continue
				}
				r := rng.Float64()
				switch {
				case r < p.LadiesRatio:
					rows[y][x] = 'l'
				case r < p.LadiesRatio+p.DisabRatio:
					rows[y][x] = 'd'
				default:
					rows[y][x] = 'p'
				}
			}
		}

		rows[h-2][w/2] = 'O'
		floors[z] = rows
	}

	floors[0][1][1] = 'C'
	for z := 0; z+1 < p.Floors; z++ {
		row := rampRow(z, h)
		floors[z][row][w-2] = 'U'
		floors[z+1][row][w-2] = 'E'

		down := rampRow(z+1, h)
		floors[z+1][down][2] = 'D'
		floors[z][down][2] = 'X'
	}

	out := make([][]string, p.Floors)
	for z, rows := range floors {
		out[z] = make([]string, h)
		for y, row := range rows {
			out[z][y] = string(row)
		}
	}
	return out
}

func rampRow(z, h int) int {
	if z%2 == 0 {
		return 1
	}
	return h - 2
}

func writeFloors(dir string, floors [][]string, csv bool) ([]string, error) {
	var written []string
	for z, rows := range floors {
		ext, content := ".txt", strings.Join(rows, "\n")+"\n"
		if csv {
			ext = ".csv"
			lines := make([]string, len(rows))
			for i, row := range rows {
				lines[i] = strings.Join(strings.Split(row, ""), ",")
			}
			content = strings.Join(lines, "\n") + "\n"
		}
		name := filepath.Join(dir, fmt.Sprintf("floor_%02d%s", z, ext))
		if err := os.WriteFile(name, []byte(content), 0644); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

func main() {
	seed := flag.Int64("seed", 42, "Random seed for deterministic generation")
	numFloors := flag.Int("floors", 12, "Number of floors")
	width := flag.Int("width", 20, "Floor width (min 7)")
	height := flag.Int("height", 14, "Floor height (min 5)")
	density := flag.Float64("density", 0.6, "Slot density in bays (0-1)")
	ladies := flag.Float64("ladies", 0.1, "Fraction of ladies slots")
	disab := flag.Float64("disability", 0.1, "Fraction of disability slots")
	oneWay := flag.Bool("oneway", false, "Make the west aisle one-way")
	csvOut := flag.Bool("csv", false, "Write comma-separated floors")
	outputDir := flag.String("output", "maps", "Output directory")

	flag.Parse()

	if *width < 7 || *height < 5 || *numFloors < 1 {
		fmt.Fprintf(os.Stderr, "Need at least 1 floor of 7x5\n")
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	params := GarageParams{
		Seed:        *seed,
		Floors:      *numFloors,
		Width:       *width,
		Height:      *height,
		SlotDensity: *density,
		LadiesRatio: *ladies,
		DisabRatio:  *disab,
		OneWay:      *oneWay,
	}

	files, err := writeFloors(*outputDir, generateGarage(params), *csvOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing floors: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated: %d floors (%dx%d) in %s\n", len(files), *width, *height, *outputDir)
}
