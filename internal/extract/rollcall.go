package extract

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ppiankov/legisref/internal/calendar"
	"github.com/ppiankov/legisref/internal/model"
)

// Matches "Roll no. 123" and "Roll Call 123". The dot after "no" matches any
// character, so "Roll no: 12" counts too.
var rollPattern = regexp.MustCompile(`(?i)Roll (?:no.|Call) (\d+)`)

// RollCalls extracts roll-call vote IDs such as "h123-2023" from text
func RollCalls(text string, chamber model.Chamber, year int) []string {
	ids := newOrderedSet()

	for _, m := range rollPattern.FindAllStringSubmatch(text, -1) {
		ids.Add(rollID(chamber, m[1], year))
	}

	return ids.Items()
}

func rollID(chamber model.Chamber, number string, year int) string {
	return chamber.Letter() + number + "-" + strconv.Itoa(year)
}

// RollID builds the roll ID for a vote number in a congress session, using
// the session's legislative year
func RollID(chamber model.Chamber, number, congress, session int) (string, error) {
	year, err := calendar.YearForSession(congress, session)
	if err != nil {
		return "", fmt.Errorf("roll %d: %w", number, err)
	}
	return rollID(chamber, strconv.Itoa(number), year), nil
}
