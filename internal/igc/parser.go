package igc

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yegors/flightlog/pkg/logger"
)

// Options selects the input source and the malformed-line policy for a
// single parse.
type Options struct {
	// Path is a filesystem path to an IGC file, read as UTF-8 text.
	// Takes precedence over Content when both are set.
	Path string
	// Content is the raw IGC text.
	Content string
	// SkipMalformed continues past fix lines that fail the fixed-layout
	// match instead of aborting the parse. Recorder hardware is expected
	// to emit well-formed records, so the default is to abort.
	SkipMalformed bool
}

// Parser turns IGC text into a Flight: one header-decoding pass over the
// leading window, then a single line scan that threads the running
// activity/phase markers and the last accepted timestamp into the fix
// decoder.
type Parser struct {
	logger *logger.Logger
}

// NewParser creates a new IGC parser.
func NewParser(logger *logger.Logger) *Parser {
	return &Parser{
		logger: logger.Named("igc-parser"),
	}
}

// Parse reads and decodes one IGC file.
func (p *Parser) Parse(opts Options) (*Flight, error) {
	content, err := resolveSource(opts)
	if err != nil {
		return nil, err
	}

	lines := splitLines(content)
	flight := &Flight{
		Metadata: decodeHeader(lines),
	}

	// Fold state for the body scan.
	var (
		activity *string
		phase    *string
		prev     *time.Time
	)

scan:
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "H"), strings.HasPrefix(line, "A"):
			// Header lines were consumed by decodeHeader.

		case strings.HasPrefix(line, "G"):
			// Security record: opaque signature block, end of fixes.
			security := line
			flight.Metadata.Security = &security
			break scan

		case strings.HasPrefix(line, "L"):
			if strings.Contains(line, "ACTIVITY") {
				activity = markerValue(line, "ACTIVITY")
			} else if strings.Contains(line, "PHASE") {
				phase = markerValue(line, "PHASE")
			}

		case strings.HasPrefix(line, "B"):
			fix, err := decodeFixRecord(line, activity, phase, p.referenceDate(flight.Metadata), prev)
			if err != nil {
				perr := &StructuralParseError{Line: i + 1, Content: line, Err: err}
				if opts.SkipMalformed {
					p.logger.Warn("Skipping malformed fix record",
						logger.Int("line", i+1),
						logger.Error(err))
					continue
				}
				return nil, perr
			}
			if fix == nil {
				flight.VoidFixes++
				continue
			}
			flight.Fixes = append(flight.Fixes, *fix)
			ts := fix.Timestamp
			prev = &ts
		}
	}

	p.logger.Debug("Parsed IGC file",
		logger.Int("fixes", len(flight.Fixes)),
		logger.Int("void_fixes", flight.VoidFixes),
		logger.Int("lines", len(lines)))

	return flight, nil
}

// referenceDate is the calendar day combined with each fix's time-of-day.
// It falls back to the current UTC day only when the header never carried
// a date record.
func (p *Parser) referenceDate(meta FlightMetadata) time.Time {
	if meta.Date != nil {
		return *meta.Date
	}
	return time.Now().UTC()
}

func resolveSource(opts Options) (string, error) {
	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read IGC file: %w", err)
		}
		return string(data), nil
	}
	if opts.Content != "" {
		return opts.Content, nil
	}
	return "", ErrInputMissing
}

// splitLines splits on CRLF or LF line endings.
func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// markerValue extracts the marker payload of an L-record: the text after
// the last colon when present, otherwise the remainder after the keyword.
func markerValue(line, keyword string) *string {
	var value string
	if idx := strings.LastIndex(line, ":"); idx >= 0 {
		value = strings.TrimSpace(line[idx+1:])
	} else {
		idx = strings.Index(line, keyword)
		value = strings.TrimSpace(line[idx+len(keyword):])
	}
	return &value
}
