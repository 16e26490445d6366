package domain

// FoodGuess is one food item named by the vision classifier.
type FoodGuess struct {
	Name                 string  `json:"name"`
	EstimatedWeightGrams float64 `json:"estimatedWeightGrams,omitempty"`
	Confidence           float64 `json:"confidence"`
	CuisineHint          string  `json:"cuisineHint,omitempty"`
	PreparationMethod    string  `json:"preparationMethod,omitempty"`
	Category             string  `json:"category,omitempty"`
}

// NutrientValue is an amount with its unit, as reported by a source.
type NutrientValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// NormalizedNutrients holds the nutrients recognized in a source record.
// A nil field means the record did not report that nutrient.
type NormalizedNutrients struct {
	Calories      *NutrientValue `json:"calories,omitempty"`
	Protein       *NutrientValue `json:"protein,omitempty"`
	Carbohydrates *NutrientValue `json:"carbohydrates,omitempty"`
	Fat           *NutrientValue `json:"fat,omitempty"`
	Fiber         *NutrientValue `json:"fiber,omitempty"`
}

// SourceIdentifiers identifies a record inside its source database.
type SourceIdentifiers struct {
	PrimaryID   string `json:"primaryId"`
	SecondaryID string `json:"secondaryId,omitempty"`
}

// Candidate is one normalized, scored source record considered for a guess.
type Candidate struct {
	SourceID         string              `json:"sourceId"`
	Description      string              `json:"description"`
	DatabaseName     string              `json:"databaseName"`
	DatabasePriority int                 `json:"databasePriority"`
	Nutrients        NormalizedNutrients `json:"nutrients"`
	RelevanceScore   int                 `json:"relevanceScore"`
	Identifiers      SourceIdentifiers   `json:"rawIdentifiers"`
}

// Source is one configured nutrition database, searched in Priority order.
type Source struct {
	Name      string
	Priority  int
	BaseScore int
}

// ResolutionStatus reports whether a lookup produced a best match.
type ResolutionStatus string

const (
	ResolutionSuccess ResolutionStatus = "success"
	ResolutionError   ResolutionStatus = "error"
)

// SourceError records a single source that failed during a lookup.
type SourceError struct {
	Source string `json:"source"`
	Err    error  `json:"-"`
}

// Error implements error.
func (e SourceError) Error() string {
	return e.Source + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e SourceError) Unwrap() error {
	return e.Err
}

// Resolution is the outcome of looking a food name up across all sources.
// BestMatch is nil whenever Status is ResolutionError.
type Resolution struct {
	Status       ResolutionStatus `json:"status"`
	Candidates   []Candidate      `json:"candidates"`
	BestMatch    *Candidate       `json:"bestMatch"`
	SourceErrors []SourceError    `json:"-"`
}

// MacroNutrients are portion-scaled macro-nutrient amounts in grams.
type MacroNutrients struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
}

// EnrichedFood is the final nutrition record for one guess.
type EnrichedFood struct {
	Name                 string             `json:"name"`
	CaloriesPer100       float64            `json:"caloriesPer100g"`
	EstimatedWeightGrams float64            `json:"estimatedWeightGrams"`
	TotalCalories        float64            `json:"totalCalories"`
	Confidence           float64            `json:"confidence"`
	Nutrients            MacroNutrients     `json:"nutrients"`
	DataSource           string             `json:"dataSource"`
	DatabaseMatch        string             `json:"databaseMatch"`
	SourceIdentifiers    *SourceIdentifiers `json:"sourceIdentifiers"`
	Category             string             `json:"category,omitempty"`
	PreparationMethod    string             `json:"preparationMethod,omitempty"`
	DebugError           string             `json:"debugError,omitempty"`
}

const (
	// DataSourceEstimated marks fallback records.
	DataSourceEstimated = "Estimated"

	// NoMatchDescription is the DatabaseMatch of fallback records.
	NoMatchDescription = "No match found"
)

// IsEstimated reports whether the record came from the fallback generator.
func (f EnrichedFood) IsEstimated() bool {
	return f.DataSource == DataSourceEstimated
}
