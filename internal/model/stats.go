package model

// DifficultyStats aggregates highly rated tours per difficulty.
type DifficultyStats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"numTours"`
	NumRatings int     `json:"numRatings"`
	AvgRating  float64 `json:"avgRating"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

// MonthlyPlan lists the tours starting in one month of a year.
type MonthlyPlan struct {
	Month         int      `json:"month"`
	NumTourStarts int      `json:"numTourStarts"`
	Tours         []string `json:"tours"`
}
