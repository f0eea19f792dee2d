// Command genmock writes a deterministic file of synthetic outbreak headlines
// for demos and tests. Vocabulary comes from the default disease catalog and
// gazetteer, so every generated disease and place is one the parser knows.
// The same -seed always produces the same file.
//
// Usage:
//
//	go run ./cmd/genmock -n 500 -seed 42 -out data/mock/generated.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
)

var baseDate = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

// Templates take a disease then a place.
var templates = []string{
	"%s outbreak in %s",
	"%s is Spreading in %s",
	"%s cases rise in %s",
	"Fatal %s case confirmed near %s",
	"%s epidemic declared across %s",
	"Health officials monitor %s in %s",
	"%s vaccination drive in %s",
	"New %s infections increase in %s",
}

// Headlines with no catalog disease, to exercise the Unknown path.
var noise = []string{
	"Stock markets rally in %s",
	"Heavy rains flood roads in %s",
	"Football final draws crowds in %s",
}

type options struct {
	n           int
	seed        uint64
	days        int
	undatedRate float64
	noiseRate   float64
	blankRate   float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var opts options
	out := flag.String("out", "", "output path (default stdout)")
	flag.IntVar(&opts.n, "n", 200, "number of headlines")
	flag.Uint64Var(&opts.seed, "seed", 42, "random seed")
	flag.IntVar(&opts.days, "days", 90, "spread dates over this many days before 2024-04-26")
	flag.Float64Var(&opts.undatedRate, "undated", 0.1, "fraction of headlines without a date prefix")
	flag.Float64Var(&opts.noiseRate, "noise", 0.05, "fraction of headlines naming no disease")
	flag.Float64Var(&opts.blankRate, "blank", 0.01, "fraction of blank lines")
	flag.Parse()

	if opts.n <= 0 || opts.days <= 0 {
		flag.Usage()
		return fmt.Errorf("-n and -days must be positive")
	}

	headlines := generate(opts, domain.DefaultDiseaseCatalog(), domain.DefaultGazetteer())

	if *out == "" {
		return write(os.Stdout, headlines)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := write(f, headlines); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %d headlines: %s", len(headlines), *out)

	printStats(headlines)
	return nil
}

func generate(opts options, catalog *domain.DiseaseCatalog, gazetteer *domain.Gazetteer) []string {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	diseases := catalog.Names()
	sort.Strings(diseases)
	places := gazetteer.Places()
	sort.Strings(places)

	out := make([]string, 0, opts.n)
	for range opts.n {
		if rng.Float64() < opts.blankRate {
			out = append(out, "")
			continue
		}

		place := places[rng.IntN(len(places))]
		var text string
		if rng.Float64() < opts.noiseRate {
			text = fmt.Sprintf(noise[rng.IntN(len(noise))], place)
		} else {
			disease := diseases[rng.IntN(len(diseases))]
			text = fmt.Sprintf(templates[rng.IntN(len(templates))], disease, place)
		}

		if rng.Float64() >= opts.undatedRate {
			d := baseDate.AddDate(0, 0, -rng.IntN(opts.days))
			text = d.Format("2006-01-02") + ": " + text
		}
		out = append(out, text)
	}
	return out
}

func write(w io.Writer, headlines []string) error {
	bw := bufio.NewWriter(w)
	for _, h := range headlines {
		if _, err := bw.WriteString(h + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// printStats parses the generated headlines and prints the counts tests are
// likely to assert on.
func printStats(headlines []string) {
	parser := domain.DefaultParser()
	severity := map[domain.Severity]int{}
	var eastAfrica, uganda, undated, unknown int
	for i, h := range headlines {
		rec := parser.ParseRaw(domain.RawHeadline{Line: i + 1, Text: h})
		severity[rec.Severity]++
		if rec.Region.IsEastAfrica {
			eastAfrica++
		}
		if rec.Region.IsUganda {
			uganda++
		}
		if rec.Date == nil {
			undated++
		}
		if rec.Disease == domain.UnknownDisease {
			unknown++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(headlines))
	fmt.Printf("By severity: high=%d, medium=%d, low=%d\n",
		severity[domain.SeverityHigh], severity[domain.SeverityMedium], severity[domain.SeverityLow])
	fmt.Printf("East Africa: %d, Uganda: %d\n", eastAfrica, uganda)
	fmt.Printf("Undated: %d, Unknown disease: %d\n", undated, unknown)
}
