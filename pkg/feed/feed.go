// Package feed loads the PAN-OS versions feed and reduces it to the newest
// release per release cycle.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/grovetools/panos-eol/pkg/logger"
	"github.com/grovetools/panos-eol/pkg/version"
	"github.com/sirupsen/logrus"
)

const (
	// TimestampLayout is the layout of the released-on field.
	TimestampLayout = "2006/01/02 15:04:05"

	// looseTimestampLayout accepts single-digit month, day and hour.
	looseTimestampLayout = "2006/1/2 15:04:05"

	// DateLayout is the layout of normalized release dates.
	DateLayout = "2006-01-02"
)

// ErrInvalidTimestamp is returned when a released-on value does not match
// TimestampLayout. A bad timestamp means the feed is corrupt, so loading fails.
var ErrInvalidTimestamp = errors.New("invalid released-on timestamp")

// Record is a single entry of the feed.
type Record struct {
	Version    string `json:"version" jsonschema:"required" jsonschema_description:"PAN-OS version, e.g. 12.1.4-h2"`
	ReleasedOn string `json:"released-on" jsonschema:"required" jsonschema_description:"Release timestamp in YYYY/MM/DD HH:MM:SS"`
}

// Entry is the newest known release of a cycle.
type Entry struct {
	Version string `json:"version"`
	Date    string `json:"date"`
}

// Cycles maps a release cycle ("12.1") to its newest release.
type Cycles map[string]Entry

// Keys returns the cycles in ascending numeric order.
func (c Cycles) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return version.CompareCycles(keys[i], keys[j]) < 0
	})
	return keys
}

// Loader reads feeds from disk or any reader.
type Loader struct {
	Logger *logrus.Entry
	// ValidateSchema checks the raw feed against Schema before decoding.
	ValidateSchema bool
}

// NewLoader creates a loader that validates feeds against the schema.
func NewLoader(log *logrus.Entry) *Loader {
	return &Loader{Logger: log, ValidateSchema: true}
}

// Load reads the feed at path.
func (l *Loader) Load(path string) (Cycles, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	cycles, err := l.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed %s: %w", path, err)
	}
	return cycles, nil
}

// Decode reads a JSON array of records from r and keeps, per release cycle,
// the record with the highest version. Records whose version cannot be
// parsed are skipped. When two records of a cycle carry the same version the
// first one wins.
func (l *Loader) Decode(r io.Reader) (Cycles, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}

	if l.ValidateSchema {
		if err := validate(data); err != nil {
			return nil, err
		}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse feed JSON: %w", err)
	}

	log := l.Logger
	if log == nil {
		log = logger.Discard()
	}
	cycles := make(Cycles)
	best := make(map[string]version.Tuple)

	for i, rec := range records {
		parsed, ok := version.Parse(rec.Version)
		if !ok {
			log.WithFields(logrus.Fields{"index": i, "version": rec.Version}).Debug("Skipping unparseable version")
			continue
		}
		cycle, ok := version.ReleaseCycle(rec.Version)
		if !ok {
			continue
		}

		date, err := NormalizeDate(rec.ReleasedOn)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Version, err)
		}

		if current, seen := best[cycle]; seen && !current.Less(parsed) {
			continue
		}
		best[cycle] = parsed
		cycles[cycle] = Entry{Version: rec.Version, Date: date}
		log.WithFields(logrus.Fields{"cycle": cycle, "version": parsed.String()}).Debug("New cycle maximum")
	}

	log.WithFields(logrus.Fields{"records": len(records), "cycles": len(cycles)}).Debug("Loaded feed")
	return cycles, nil
}

// NormalizeDate converts a released-on timestamp into a YYYY-MM-DD date.
func NormalizeDate(ts string) (string, error) {
	t, err := time.Parse(TimestampLayout, ts)
	if err != nil {
		if t, err = time.Parse(looseTimestampLayout, ts); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
		}
	}
	return t.Format(DateLayout), nil
}
