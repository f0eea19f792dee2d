package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// datePrefixRe matches a leading "YYYY-MM-DD:" token.
var datePrefixRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}):`)

// Parser turns raw headlines into OutbreakRecords using a gazetteer and a
// disease catalog. It holds no mutable state and is safe for concurrent use.
type Parser struct {
	gazetteer *Gazetteer
	catalog   *DiseaseCatalog
	africa    *phraseMatcher
}

// NewParser creates a Parser over the given lookup tables.
func NewParser(g *Gazetteer, c *DiseaseCatalog) *Parser {
	return &Parser{
		gazetteer: g,
		catalog:   c,
		africa:    newAfricaMatcher(g),
	}
}

var defaultParser = sync.OnceValue(func() *Parser {
	return NewParser(DefaultGazetteer(), DefaultDiseaseCatalog())
})

// DefaultParser returns a Parser over the default gazetteer and catalog.
func DefaultParser() *Parser {
	return defaultParser()
}

// ParseHeadline parses text with DefaultParser.
func ParseHeadline(text string) OutbreakRecord {
	return DefaultParser().Parse(text)
}

// Catalog returns the parser's disease catalog.
func (p *Parser) Catalog() *DiseaseCatalog {
	return p.catalog
}

// Gazetteer returns the parser's gazetteer.
func (p *Parser) Gazetteer() *Gazetteer {
	return p.gazetteer
}

// Parse extracts date, disease, location, severity and region from one
// headline. It never fails: unrecognized input yields an undated Low-severity
// record for UnknownDisease with every location flag false.
func (p *Parser) Parse(headline string) OutbreakRecord {
	text := strings.TrimSpace(headline)
	disease := p.catalog.Match(text)
	loc := p.gazetteer.Resolve(text)

	return OutbreakRecord{
		Headline: text,
		Date:     extractDate(text),
		Disease:  disease,
		Location: loc,
		Severity: severityForScore(severityScore(p.catalog.Priority(disease), text)),
		Region:   p.classifyRegion(text, loc),
	}
}

// ParseRaw parses one input line and stamps it with a stable ID.
func (p *Parser) ParseRaw(raw RawHeadline) OutbreakRecord {
	rec := p.Parse(raw.Text)
	rec.ID = generateID(raw.Line, rec.Headline)
	return rec
}

// classifyRegion copies the East Africa and Uganda flags from loc. IsAfrica
// holds for any resolved country, otherwise falls back to the Africa-wide
// name list and then to any recognized African country name.
func (p *Parser) classifyRegion(text string, loc Location) Region {
	return Region{
		IsAfrica:     loc.Country != nil || p.africa.any(text) || namesAfricanCountry(text),
		IsEastAfrica: loc.IsEastAfrica,
		IsUganda:     loc.IsUganda,
	}
}

// extractDate returns the leading date token as UTC midnight, or nil when the
// token is missing or not a real calendar date.
func extractDate(text string) *time.Time {
	m := datePrefixRe.FindStringSubmatch(text)
	if len(m) != 2 {
		return nil
	}
	d, err := time.Parse(time.DateOnly, m[1])
	if err != nil {
		return nil
	}
	return &d
}

// generateID produces a deterministic ID from the line number and headline so
// reprocessing the same file yields the same keys.
func generateID(line int, headline string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", line, headline)))
	return "outbreak-" + hex.EncodeToString(hash[:8])
}
