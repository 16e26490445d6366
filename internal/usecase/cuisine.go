package usecase

import (
	"strings"
)

// Cuisine narrows a lookup to one regional cuisine. The query is widened with
// dish and region terms and the records that come back are kept only when
// their description names the region.
type Cuisine struct {
	Name             string
	QueryTerms       []string
	DescriptionTerms []string
}

var asianCuisine = Cuisine{
	Name:             "asian",
	QueryTerms:       []string{"malaysian", "asian", "southeast", "nasi", "rendang", "satay", "laksa"},
	DescriptionTerms: []string{"asian", "chinese", "malaysian", "thai", "indonesian"},
}

// cuisinesByHint maps normalized cuisine hints to profiles.
var cuisinesByHint = map[string]Cuisine{
	"asian":           asianCuisine,
	"southeast asian": asianCuisine,
	"malaysian":       asianCuisine,
	"chinese":         asianCuisine,
	"thai":            asianCuisine,
	"indonesian":      asianCuisine,
}

// LookupCuisine finds the profile for a cuisine hint such as "Malaysian".
func LookupCuisine(hint string) (Cuisine, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(hint)), " ")
	cuisine, ok := cuisinesByHint[key]
	return cuisine, ok
}

// ExpandQuery appends the cuisine's search terms to name,
// e.g. "fried rice malaysian OR asian OR ...".
func (c Cuisine) ExpandQuery(name string) string {
	if len(c.QueryTerms) == 0 {
		return name
	}
	return name + " " + strings.Join(c.QueryTerms, " OR ")
}

// Matches reports whether a record description belongs to the cuisine.
func (c Cuisine) Matches(description string) bool {
	return containsAny(strings.ToLower(description), c.DescriptionTerms)
}
