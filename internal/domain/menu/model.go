package menu

// Restaurant is one dining hall's menu for a day as served by the menu API.
type Restaurant struct {
	Restaurant  string              `json:"restaurant"`
	Date        string              `json:"date"`
	CurrentMeal string              `json:"currentMeal"`
	Price       map[string]float64  `json:"price"`
	Schedule    map[string]MealTime `json:"schedule"`
	All         []Station           `json:"all"`
}

// MealTime is a serving window.
type MealTime struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Station is a counter inside a hall.
type Station struct {
	Station string `json:"station"`
	Menu    []Menu `json:"menu"`
}

// Menu is a category of dishes at a station.
type Menu struct {
	Category string `json:"category"`
	Items    []Meal `json:"items"`
}

// Meal is a single dish.
type Meal struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Nutrition   *Nutrition `json:"nutrition,omitempty"`
}

// Nutrition facts are free-form strings upstream.
type Nutrition struct {
	Calories *string `json:"calories,omitempty"`
	Protein  *string `json:"protein,omitempty"`
}

// Result is the outcome of fetching one hall.
type Result struct {
	Location   string
	Restaurant *Restaurant
	Err        error
}
