package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ppiankov/legisref/internal/model"
)

// ErrInvalidBillID is returned by ParseBillID for IDs outside the known bill types
var ErrInvalidBillID = errors.New("invalid bill ID")

// BillTypes lists the normalized bill type prefixes
var BillTypes = []string{"hr", "hres", "hjres", "hconres", "s", "sres", "sjres", "sconres"}

// Citations like "S. 45", "H.R. 45", "H. Con. Res. 12", "S.J.Res. 3".
// Leftmost-first alternation decides between overlapping readings.
var billPattern = regexp.MustCompile(`(?i)((S\.|H\.)(\s?J\.|\s?R\.|\s?Con\.| ?)(\s?Res\.)*\s?\d+)`)

var billIDPattern = regexp.MustCompile(`^(hr|hres|hjres|hconres|s|sres|sjres|sconres)(\d+)-(\d+)(?:-(\w+))?$`)

// BillID is a parsed bill identifier
type BillID struct {
	Type     string `json:"bill_type"`
	Number   int    `json:"number"`
	Congress int    `json:"congress"`
	Version  string `json:"version,omitempty"` // Text version code, e.g. "ih" or "enr"
}

// String renders the canonical ID, including the version code when set
func (b BillID) String() string {
	id := fmt.Sprintf("%s%d-%d", b.Type, b.Number, b.Congress)
	if b.Version != "" {
		id += "-" + b.Version
	}
	return id
}

// Bills extracts bill IDs such as "hr45-118" from text
func Bills(text string, congress int) []string {
	ids := newOrderedSet()

	for _, citation := range billPattern.FindAllString(text, -1) {
		ids.Add(compactCode(citation) + "-" + strconv.Itoa(congress))
	}

	return ids.Items()
}

// compactCode lower-cases a citation and drops whitespace and periods
func compactCode(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// NormalizeBillCode turns a document name such as "H. J. Res. 7" into a
// bill ID. It reports false for codes that are not a known bill type.
func NormalizeBillCode(code string, congress int) (string, bool) {
	compact := compactCode(code)
	split := strings.IndexFunc(compact, unicode.IsDigit)
	if split <= 0 {
		return "", false
	}

	billType, number := compact[:split], compact[split:]
	if !isBillType(billType) {
		return "", false
	}
	if _, err := strconv.Atoi(number); err != nil {
		return "", false
	}

	return billType + number + "-" + strconv.Itoa(congress), true
}

// ParseBillID splits "hr3590-111" or "hr3590-111-enr" into its parts
func ParseBillID(id string) (BillID, error) {
	m := billIDPattern.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return BillID{}, fmt.Errorf("%w: %q", ErrInvalidBillID, id)
	}

	number, err := strconv.Atoi(m[2])
	if err != nil {
		return BillID{}, fmt.Errorf("%w: %q: %v", ErrInvalidBillID, id, err)
	}
	congress, err := strconv.Atoi(m[3])
	if err != nil {
		return BillID{}, fmt.Errorf("%w: %q: %v", ErrInvalidBillID, id, err)
	}

	return BillID{
		Type:     m[1],
		Number:   number,
		Congress: congress,
		Version:  m[4],
	}, nil
}

func isBillType(t string) bool {
	for _, known := range BillTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AmendmentID formats an amendment as "<chamber>amdt<number>-<congress>"
func AmendmentID(chamber model.Chamber, number, congress int) string {
	return fmt.Sprintf("%samdt%d-%d", chamber.Letter(), number, congress)
}

// NominationID formats a nomination document name such as "PN12-1" as
// "PN12-01-113". Names without a part suffix get only the congress.
func NominationID(name string, congress int) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "")

	if pieces := strings.Split(name, "-"); len(pieces) > 1 {
		part, err := strconv.Atoi(pieces[1])
		if err == nil {
			name = fmt.Sprintf("%s-%02d", pieces[0], part)
		}
	}

	return fmt.Sprintf("%s-%d", name, congress)
}
