// Package feed builds the discovery predicate and pagination for the user feed.
package feed

import (
	"strconv"
	"strings"

	"devtinder/internal/models"
)

// Age filter bounds. Out-of-range values are clamped, not rejected.
const (
	MinFilterAge = 18
	MaxFilterAge = 100
)

// GenderAll disables the gender filter.
const GenderAll = "all"

// Params holds the raw query string values of GET /user/feed.
type Params struct {
	Page   string `query:"page"`
	Limit  string `query:"limit"`
	Skills string `query:"skills"`
	MinAge string `query:"minAge"`
	MaxAge string `query:"maxAge"`
	Gender string `query:"gender"`
}

// Query is the discovery predicate: exclusion AND every active filter.
type Query struct {
	ExcludedIDs []string
	Skills      []string // lowercased, OR-ed, matched as substrings
	MinAge      *int
	MaxAge      *int
	Gender      string // lowercased, empty when inactive
}

// Build returns the predicate for userID. involved must hold every connection request that
// has userID as either endpoint, whatever its status.
func Build(userID string, involved []models.ConnectionRequest, p Params) Query {
	q := Query{ExcludedIDs: exclusionSet(userID, involved)}
	q.Skills = ParseSkills(p.Skills)
	q.MinAge, q.MaxAge = parseAgeRange(p.MinAge, p.MaxAge)
	q.Gender = parseGender(p.Gender)
	return q
}

func exclusionSet(userID string, involved []models.ConnectionRequest) []string {
	seen := map[string]struct{}{userID: {}}
	ids := []string{userID}
	for _, r := range involved {
		for _, id := range []string{r.FromUserID, r.ToUserID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// ParseSkills splits a comma separated list, trimming and dropping empty entries.
func ParseSkills(raw string) []string {
	var skills []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func parseAgeRange(minRaw, maxRaw string) (*int, *int) {
	var minAge, maxAge *int
	if v, err := strconv.Atoi(strings.TrimSpace(minRaw)); err == nil {
		if v < MinFilterAge {
			v = MinFilterAge
		}
		minAge = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(maxRaw)); err == nil {
		if v > MaxFilterAge {
			v = MaxFilterAge
		}
		maxAge = &v
	}
	return minAge, maxAge
}

func parseGender(raw string) string {
	g := models.NormalizeGender(raw)
	if g == "" || g == GenderAll || !models.IsValidGender(g) {
		return ""
	}
	return g
}

// Excludes reports whether id is in the exclusion set.
func (q Query) Excludes(id string) bool {
	for _, ex := range q.ExcludedIDs {
		if ex == id {
			return true
		}
	}
	return false
}

// Matches evaluates the predicate against a single user.
func (q Query) Matches(u *models.User) bool {
	if q.Excludes(u.ID) {
		return false
	}
	if q.MinAge != nil && u.Age < *q.MinAge {
		return false
	}
	if q.MaxAge != nil && u.Age > *q.MaxAge {
		return false
	}
	if q.Gender != "" && u.Gender != q.Gender {
		return false
	}
	if len(q.Skills) > 0 && !hasAnySkill(u.Skills, q.Skills) {
		return false
	}
	return true
}

// hasAnySkill reports whether any skill contains any wanted fragment, ignoring case.
func hasAnySkill(have []string, want []string) bool {
	for _, h := range have {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, w := range want {
			if strings.Contains(h, w) {
				return true
			}
		}
	}
	return false
}

// Filters is the echo of the active filters returned with a feed page.
type Filters struct {
	Skills []string `json:"skills"`
	MinAge *int     `json:"minAge"`
	MaxAge *int     `json:"maxAge"`
	Gender *string  `json:"gender"`
}

// Filters returns the active filters for the response body.
func (q Query) Filters() Filters {
	f := Filters{Skills: q.Skills, MinAge: q.MinAge, MaxAge: q.MaxAge}
	if f.Skills == nil {
		f.Skills = []string{}
	}
	if q.Gender != "" {
		g := models.DisplayGender(q.Gender)
		f.Gender = &g
	}
	return f
}
