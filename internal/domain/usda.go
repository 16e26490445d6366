package domain

// USDAFood represents a food item from the USDA FoodData Central search API
type USDAFood struct {
	FdcID           int64          `json:"fdcId"`
	Description     string         `json:"description"`
	DataType        string         `json:"dataType"`
	FoodClass       string         `json:"foodClass,omitempty"`
	NdbNumber       string         `json:"ndbNumber,omitempty"`
	GtinUpc         string         `json:"gtinUpc,omitempty"`
	BrandOwner      string         `json:"brandOwner,omitempty"`
	Ingredients     string         `json:"ingredients,omitempty"`
	ServingSize     float64        `json:"servingSize,omitempty"`
	ServingSizeUnit string         `json:"servingSizeUnit,omitempty"`
	Nutrients       []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA data
type USDANutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

// SearchOptions narrows a USDA search to one data type and page size.
type SearchOptions struct {
	DataType string
	PageSize int
}
