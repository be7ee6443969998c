package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/FACorreiaa/payroll-journal/internal/domain/journal/ledger"
)

var (
	ErrDataBeforeStaff  = errors.New("data line before staff header")
	ErrDataBeforePeriod = errors.New("data line before month header")
)

// LineError is a line that was classified but could not be dispatched.
type LineError struct {
	Line string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("[ERROR: %v] %s", e.Err, e.Line)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Context is the state carried from one line to the next. A zero Year means
// no month header was seen yet, an empty StaffID no staff header.
type Context struct {
	Year    int
	Month   time.Month
	StaffID string
	Sign    ledger.Sign
}

// Result is everything one conversion hands back to its caller.
type Result struct {
	CSV     string   `json:"csv"`
	Errors  []string `json:"errors"`
	Ignored []string `json:"ignored"`
	Debug   []string `json:"debug"`

	Ledger *ledger.Ledger `json:"-"`
}

// Session parses the lines of one or more journals into a single ledger.
// A Session is not safe for concurrent use; create one per conversion.
type Session struct {
	ledger  *ledger.Ledger
	ctx     Context
	errs    []error
	ignored []string
	debug   []string
	counts  map[Role]int
}

// NewSession creates a session with an empty ledger and a positive sign.
func NewSession() *Session {
	return &Session{
		ledger: ledger.New(),
		ctx:    Context{Sign: ledger.Positive},
		counts: make(map[Role]int),
	}
}

// Parse processes one line. It returns false when the line was not
// classified or was a data line that could not be dispatched.
func (s *Session) Parse(text string) bool {
	c := Classify(text)
	s.counts[c.Role]++

	switch c.Role {
	case MonthHeader:
		s.ctx.Year = c.Year
		if c.Month != s.ctx.Month {
			s.ctx.Month = c.Month
			s.debug = append(s.debug, fmt.Sprintf("HDR : month %d/%02d", c.Year, int(c.Month)))
		}
	case StaffHeader:
		s.ledger.Upsert(c.StaffID, c.Name)
		s.ctx.StaffID = c.StaffID
		s.ctx.Sign = ledger.Positive
		s.debug = append(s.debug, fmt.Sprintf("HDR : staff id=%s name=%s", c.StaffID, c.Name))
	case SectionBoundary:
		s.ctx.Sign = ledger.Positive
		s.debug = append(s.debug, "+++ : empty line - reset to positive")
	case NegativeMarker:
		s.ctx.Sign = ledger.Negative
		s.debug = append(s.debug, "--- : start of negative section")
	case DataRow:
		return s.dispatch(text, c.Line)
	default:
		s.ignored = append(s.ignored, text)
		return false
	}
	return true
}

// ParseLines processes lines in order and reports whether any of them was
// processed successfully.
func (s *Session) ParseLines(lines []string) bool {
	parsed := false
	for _, line := range lines {
		parsed = s.Parse(line) || parsed
	}
	return parsed
}

func (s *Session) dispatch(text string, line ledger.Line) bool {
	staff, ok := s.ledger.Staff(s.ctx.StaffID)
	if !ok {
		s.errs = append(s.errs, &LineError{Line: text, Err: ErrDataBeforeStaff})
		return false
	}
	if s.ctx.Year == 0 {
		s.errs = append(s.errs, &LineError{Line: text, Err: ErrDataBeforePeriod})
		return false
	}

	payslip := staff.GetOrCreate(s.ctx.Year, s.ctx.Month)
	s.errs = append(s.errs, payslip.Ingest(line, s.ctx.Sign)...)
	s.debug = append(s.debug, fmt.Sprintf("DATA: code=%s value=%s (days=%s hours=%s from=%s to=%s unit=%s)",
		line.Code, line.Value, line.Days, line.Hours, line.From, line.To, line.Unit))
	return true
}

// AddError records a problem found outside of line parsing, such as a
// document that could not be read.
func (s *Session) AddError(err error) {
	s.errs = append(s.errs, err)
}

// Context returns the current parsing state.
func (s *Session) Context() Context {
	return s.ctx
}

// Ledger returns the ledger the session writes to.
func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

// Problems returns the recorded errors as values.
func (s *Session) Problems() []error {
	return s.errs
}

// Errors returns the recorded errors as messages.
func (s *Session) Errors() []string {
	out := make([]string, len(s.errs))
	for i, err := range s.errs {
		out[i] = err.Error()
	}
	return out
}

// Ignored returns the lines that matched no known shape.
func (s *Session) Ignored() []string {
	return s.ignored
}

// Debug returns the trace of classified lines.
func (s *Session) Debug() []string {
	return s.debug
}

// Count returns how many lines of a role were seen.
func (s *Session) Count(r Role) int {
	return s.counts[r]
}

// Result serializes the ledger and collects the three logs.
func (s *Session) Result() (*Result, error) {
	csv, err := s.ledger.MarshalCSV()
	if err != nil {
		return nil, err
	}
	return &Result{
		CSV:     csv,
		Errors:  nonNil(s.Errors()),
		Ignored: nonNil(s.ignored),
		Debug:   nonNil(s.debug),
		Ledger:  s.ledger,
	}, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
