package io

import (
	"bufio"
	"bytes"
	gio "io"
	"strings"

	"tabio/pkg/model"
)

// Dialect describes how the cells of a delimited file are separated and quoted.
type Dialect struct {
	Delimiter        rune
	Quote            rune
	Escape           rune
	SkipInitialSpace bool
}

// ExcelDialect is the dialect used when sniffing fails.
func ExcelDialect() Dialect {
	return Dialect{Delimiter: ',', Quote: '"'}
}

// Preferred delimiters, best first.
var delimiterCandidates = []rune{',', '\t', ';', '|', ':', ' '}

const (
	sniffMaxLines   = 200
	sniffMinConsist = 0.9
	headerVoteRows  = 20
)

// SniffDialect guesses the dialect of a delimited text sample. The delimiter is
// the candidate whose count per line is the most consistent.
func SniffDialect(sample []byte) (Dialect, error) {
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return ExcelDialect(), model.NewParseError(0, 0, model.ErrFormatSniff, "empty sample")
	}

	d := Dialect{Quote: guessQuote(lines)}
	best := 0.0
	for _, candidate := range delimiterCandidates {
		score := delimiterConsistency(lines, candidate, d.Quote)
		if score > best {
			best, d.Delimiter = score, candidate
		}
	}
	if best < sniffMinConsist {
		return ExcelDialect(), model.NewParseError(0, 0, model.ErrFormatSniff, "no consistent delimiter")
	}
	if d.Delimiter != ' ' {
		d.SkipInitialSpace = followedBySpace(lines, d.Delimiter, d.Quote)
	}
	return d, nil
}

func sampleLines(sample []byte) []string {
	text := strings.ReplaceAll(string(sample), "\r\n", "\n")
	all := strings.Split(text, "\n")
	// the last line of a truncated sample is probably incomplete
	if len(all) > 1 && !bytes.HasSuffix(sample, []byte("\n")) {
		all = all[:len(all)-1]
	}
	var lines []string
	for _, l := range all {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
		if len(lines) == sniffMaxLines {
			break
		}
	}
	return lines
}

// guessQuote picks the quote character that most often encloses a whole
// cell. A quote only counts when a matching quote closes the cell.
func guessQuote(lines []string) rune {
	counts := map[rune]int{}
	for _, l := range lines {
		runes := []rune(l)
		prev := rune(0)
		for i := 0; i < len(runes); i++ {
			c := runes[i]
			if (c == '"' || c == '\'') && (prev == 0 || isCandidate(prev)) {
				if end := closingQuote(runes, i); end > 0 {
					counts[c]++
					i, prev = end, c
					continue
				}
			}
			if c != ' ' {
				prev = c
			}
		}
	}
	if counts['\''] > counts['"'] {
		return '\''
	}
	return '"'
}

// closingQuote returns the index of the quote closing the cell opened at start,
// or -1. The closing quote ends the line or is followed by a delimiter.
func closingQuote(runes []rune, start int) int {
	for j := start + 1; j < len(runes); j++ {
		if runes[j] == runes[start] && (j+1 == len(runes) || isCandidate(runes[j+1])) {
			return j
		}
	}
	return -1
}

func isCandidate(c rune) bool {
	for _, d := range delimiterCandidates {
		if c == d {
			return true
		}
	}
	return false
}

// countOutsideQuotes counts delim in line, ignoring quoted sections.
func countOutsideQuotes(line string, delim, quote rune) int {
	n := 0
	inQuotes := false
	for _, c := range line {
		switch {
		case c == quote:
			inQuotes = !inQuotes
		case c == delim && !inQuotes:
			n++
		}
	}
	return n
}

// delimiterConsistency returns the share of lines in which delim occurs the
// modal number of times, or zero if delim does not occur.
func delimiterConsistency(lines []string, delim, quote rune) float64 {
	frequency := map[int]int{}
	for _, l := range lines {
		if delim == ' ' {
			l = strings.TrimSpace(l)
		}
		frequency[countOutsideQuotes(l, delim, quote)]++
	}
	mode, modeCount := 0, 0
	for count, lineCount := range frequency {
		if lineCount > modeCount || (lineCount == modeCount && count > mode) {
			mode, modeCount = count, lineCount
		}
	}
	if mode == 0 {
		return 0
	}
	return float64(modeCount) / float64(len(lines))
}

func followedBySpace(lines []string, delim, quote rune) bool {
	seen := false
	for _, l := range lines {
		runes := []rune(l)
		inQuotes := false
		for i, c := range runes {
			switch {
			case c == quote:
				inQuotes = !inQuotes
			case c == delim && !inQuotes:
				if i+1 >= len(runes) || runes[i+1] != ' ' {
					return false
				}
				seen = true
			}
		}
	}
	return seen
}

// SniffHeader guesses whether the first row holds column names. Every column of
// the following rows is typed as numeric or by its cell length; a column whose
// type is not consistent is ignored. Each remaining column votes for a header
// when its first cell does not fit the type.
func SniffHeader(rows [][]string) bool {
	if len(rows) < 2 {
		return false
	}
	header := rows[0]

	const numeric = -1
	columnTypes := make(map[int]int, len(header))
	for i := range header {
		columnTypes[i] = -2
	}
	checked := 0
	for _, row := range rows[1:] {
		if checked == headerVoteRows {
			break
		}
		if len(row) != len(header) {
			continue
		}
		checked++
		for col := range columnTypes {
			t := len(row[col])
			if IsNumeric(row[col]) {
				t = numeric
			}
			switch columnTypes[col] {
			case -2:
				columnTypes[col] = t
			case t:
			default:
				delete(columnTypes, col)
			}
		}
	}

	vote := 0
	for col, t := range columnTypes {
		switch t {
		case -2:
			continue
		case numeric:
			if IsNumeric(header[col]) {
				vote--
			} else {
				vote++
			}
		default:
			if len(header[col]) != t {
				vote++
			} else {
				vote--
			}
		}
	}
	return vote > 0
}

// dialect applies the explicit options on top of a sniffed dialect.
func (o Options) dialect(sniffed Dialect) Dialect {
	d := sniffed
	if o.Delimiter != 0 {
		d.Delimiter = o.Delimiter
	}
	if o.Quote != 0 {
		d.Quote = o.Quote
	}
	if o.Escape != 0 {
		d.Escape = o.Escape
	}
	d.SkipInitialSpace = o.SkipInitialSpace.resolve(d.SkipInitialSpace)
	return d
}

// Record is one parsed line of a delimited file. Line is 1-based and points at
// the first physical line of the record.
type Record struct {
	Cells []string
	Line  int
}

// recordReader splits delimited text into records. Unlike encoding/csv it
// supports any quote character and an escape character.
type recordReader struct {
	r       *bufio.Reader
	dialect Dialect
	line    int
}

func newRecordReader(r gio.Reader, d Dialect) *recordReader {
	return &recordReader{r: bufio.NewReader(r), dialect: d}
}

// Read returns the next record. A blank line gives a record without cells.
func (rr *recordReader) Read() (Record, error) {
	rr.line++
	rec := Record{Line: rr.line}

	var field strings.Builder
	read, inQuotes, skipping := false, false, false
	cellStart := true
	endCell := func() {
		rec.Cells = append(rec.Cells, field.String())
		field.Reset()
		cellStart = true
		skipping = rr.dialect.SkipInitialSpace
	}

	for {
		c, _, err := rr.r.ReadRune()
		if err == gio.EOF {
			if !read {
				return rec, gio.EOF
			}
			endCell()
			return rec, nil
		}
		if err != nil {
			return rec, err
		}
		read = true

		switch {
		case rr.dialect.Escape != 0 && c == rr.dialect.Escape:
			next, _, err := rr.r.ReadRune()
			if err != nil {
				field.WriteRune(c)
				continue
			}
			if next == '\n' {
				rr.line++
			}
			field.WriteRune(next)
			cellStart, skipping = false, false
		case inQuotes:
			if c == rr.dialect.Quote {
				next, _, err := rr.r.ReadRune()
				if err == nil && next == rr.dialect.Quote {
					field.WriteRune(c)
					continue
				}
				if err == nil {
					_ = rr.r.UnreadRune()
				}
				inQuotes = false
				continue
			}
			if c == '\n' {
				rr.line++
			}
			field.WriteRune(c)
		case c == rr.dialect.Quote && cellStart:
			inQuotes, cellStart, skipping = true, false, false
		case c == rr.dialect.Delimiter:
			endCell()
		case c == '\r' || c == '\n':
			if c == '\r' {
				if next, _, err := rr.r.ReadRune(); err == nil && next != '\n' {
					_ = rr.r.UnreadRune()
				}
			}
			if len(rec.Cells) == 0 && field.Len() == 0 && cellStart {
				return rec, nil
			}
			endCell()
			return rec, nil
		case c == ' ' && skipping:
		default:
			field.WriteRune(c)
			cellStart, skipping = false, false
		}
	}
}

// readRecords reads every non-blank record.
func readRecords(r gio.Reader, d Dialect) ([]Record, error) {
	rr := newRecordReader(r, d)
	var records []Record
	for {
		rec, err := rr.Read()
		if err == gio.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec.Cells) > 0 {
			records = append(records, rec)
		}
	}
}
