package availability

import (
	"bytes"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

type Candidate struct {
	StaffID        uuid.UUID
	Name           string
	Locales        []string
	AvailableCount int
}

type StaffOption struct {
	StaffID        uuid.UUID
	Name           string
	LanguageMatch  bool
	AvailableCount int
}

// RankStaff orders candidates for an "any staff" request. With a client
// locale, speakers of that language come first, then higher availability,
// then name and id. Without one, candidates are ordered by id and all are
// reported as matching.
func RankStaff(candidates []Candidate, locale string) []StaffOption {
	locale = strings.TrimSpace(locale)
	opts := make([]StaffOption, len(candidates))
	for i, c := range candidates {
		opts[i] = StaffOption{
			StaffID:        c.StaffID,
			Name:           c.Name,
			LanguageMatch:  locale == "" || SpeaksLocale(c.Locales, locale),
			AvailableCount: c.AvailableCount,
		}
	}

	if locale == "" {
		sort.SliceStable(opts, func(i, j int) bool {
			return lessID(opts[i].StaffID, opts[j].StaffID)
		})
		return opts
	}

	sort.SliceStable(opts, func(i, j int) bool {
		a, b := opts[i], opts[j]
		if a.LanguageMatch != b.LanguageMatch {
			return a.LanguageMatch
		}
		if a.AvailableCount != b.AvailableCount {
			return a.AvailableCount > b.AvailableCount
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return lessID(a.StaffID, b.StaffID)
	})
	return opts
}

// SpeaksLocale compares base languages, so "pt-BR" matches a staff "pt".
func SpeaksLocale(spoken []string, locale string) bool {
	want, wantOK := baseOf(locale)
	for _, s := range spoken {
		if wantOK {
			if got, ok := baseOf(s); ok && got == want {
				return true
			}
			continue
		}
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(locale)) {
			return true
		}
	}
	return false
}

func baseOf(s string) (language.Base, bool) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return language.Base{}, false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return language.Base{}, false
	}
	return base, true
}

func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
