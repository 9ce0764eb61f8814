package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/legisref/internal/model"
)

// ErrUnsupportedChamber is returned when resolving names outside the House
var ErrUnsupportedChamber = errors.New("legislator resolution supports the House only")

// Directory looks up legislators matching a filter
type Directory interface {
	Find(ctx context.Context, filter model.Filter) ([]model.Legislator, error)
}

// An honorific, up to two capitalized name tokens, an optional ", First",
// and an optional state as "of XX" or "(XX)".
var mentionPattern = regexp.MustCompile(
	`(?P<title>M(?:rs|s|r)\.)\s` +
		`(?P<last>(?:\s?[A-Z][A-Za-z-]+){0,2})` +
		`(?:,\s?(?P<first>[A-Z][A-Za-z-]+))?` +
		`(?:\sof\s(?P<state>[A-Z]{2})|\s?\((?P<pstate>[A-Z]{2})\))?`,
)

var (
	groupTitle  = mentionPattern.SubexpIndex("title")
	groupLast   = mentionPattern.SubexpIndex("last")
	groupFirst  = mentionPattern.SubexpIndex("first")
	groupState  = mentionPattern.SubexpIndex("state")
	groupPState = mentionPattern.SubexpIndex("pstate")
)

// Mode selects how per-mention results are folded into a Resolution
type Mode int

const (
	// AllMentions counts every mention that resolved to at least one record
	AllMentions Mode = iota
	// LastMentionOnly counts only the final mention in the text
	LastMentionOnly
)

// Resolver matches honorific name mentions against a legislator directory
type Resolver struct {
	dir    Directory
	mode   Mode
	logger *zap.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLastMentionOnly keeps only the last mention's matches
func WithLastMentionOnly() Option {
	return func(r *Resolver) {
		r.mode = LastMentionOnly
	}
}

// WithMode sets the fold mode directly
func WithMode(mode Mode) Option {
	return func(r *Resolver) {
		r.mode = mode
	}
}

// WithLogger sets the logger used for per-mention debug output
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver backed by dir
func NewResolver(dir Directory, opts ...Option) *Resolver {
	r := &Resolver{
		dir:    dir,
		mode:   AllMentions,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mentions finds candidate legislator mentions and the House query for each.
// Mentions without any name token are dropped.
func Mentions(text string) []model.Mention {
	var mentions []model.Mention

	for _, loc := range mentionPattern.FindAllStringSubmatchIndex(text, -1) {
		group := func(i int) string {
			if loc[2*i] < 0 {
				return ""
			}
			return text[loc[2*i]:loc[2*i+1]]
		}

		// Extra whitespace after the title lands inside the name group
		last := strings.TrimSpace(group(groupLast))
		if last == "" {
			continue
		}

		title := group(groupTitle)
		filter := model.Filter{
			Chamber:   model.ChamberHouse,
			Gender:    genderForTitle(title),
			LastName:  last,
			FirstName: group(groupFirst),
			State:     group(groupState),
		}
		if filter.State == "" {
			filter.State = group(groupPState)
		}

		mentions = append(mentions, model.Mention{
			Raw:    text[loc[0]:loc[1]],
			Filter: filter,
			Title:  title,
			Offset: loc[0],
		})
	}

	return mentions
}

func genderForTitle(title string) model.Gender {
	if title == "Mr." {
		return model.GenderMale
	}
	return model.GenderFemale
}

// Resolve looks up every mention in text and folds the matches into names
// and bioguide IDs, both deduplicated in first-seen order
func (r *Resolver) Resolve(ctx context.Context, text string, chamber model.Chamber) (*model.Resolution, error) {
	if chamber != model.ChamberHouse {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedChamber, chamber)
	}

	mentions := Mentions(text)
	results := make([]model.MentionResult, 0, len(mentions))

	for _, mention := range mentions {
		matches, err := r.dir.Find(ctx, mention.Filter)
		if err != nil {
			return nil, fmt.Errorf("look up %q: %w", mention.Raw, err)
		}

		r.logger.Debug("resolved mention",
			zap.String("mention", mention.Raw),
			zap.String("filter", mention.Filter.String()),
			zap.Int("matches", len(matches)),
		)

		results = append(results, model.MentionResult{
			Mention: mention,
			Matches: matches,
		})
	}

	return fold(results, r.mode), nil
}

func fold(results []model.MentionResult, mode Mode) *model.Resolution {
	names := newOrderedSet()
	ids := newOrderedSet()

	counted := results
	if mode == LastMentionOnly && len(results) > 0 {
		counted = results[len(results)-1:]
	}

	for _, res := range counted {
		if len(res.Matches) == 0 {
			continue
		}
		names.Add(res.Mention.Raw)
		for _, l := range res.Matches {
			ids.Add(l.BioguideID)
		}
	}

	return &model.Resolution{
		Names:       names.Items(),
		BioguideIDs: ids.Items(),
		Mentions:    results,
	}
}
