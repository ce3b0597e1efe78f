package nutrition

import "fmt"

// Wire types of the nutrition platform API. Numeric fields arrive as
// strings, hence the string-typed values here and the parsed public types
// next to them.

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ApiError is returned when the nutrition API responds with an error
// payload instead of the requested data.
type ApiError struct {
	Code    int
	Message string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("nutrition api error %d: %s", e.Code, e.Message)
}

type searchResponse struct {
	Foods struct {
		Food         []searchFood `json:"food"`
		PageNumber   string       `json:"page_number"`
		TotalResults string       `json:"total_results"`
	} `json:"foods"`
}

type searchFood struct {
	FoodID          string `json:"food_id"`
	FoodName        string `json:"food_name"`
	FoodType        string `json:"food_type"`
	BrandName       string `json:"brand_name"`
	FoodDescription string `json:"food_description"`
}

type getFoodResponse struct {
	Food struct {
		FoodID   string `json:"food_id"`
		FoodName string `json:"food_name"`
		FoodType string `json:"food_type"`
		Servings struct {
			Serving []apiServing `json:"serving"`
		} `json:"servings"`
	} `json:"food"`
}

type apiServing struct {
	ServingDescription string `json:"serving_description"`
	Calories           string `json:"calories"`
	Protein            string `json:"protein"`
	Carbohydrate       string `json:"carbohydrate"`
	Fat                string `json:"fat"`
}

// Food is one row of a search result.
type Food struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description"`
}

// SearchResult is a single page of food search matches.
type SearchResult struct {
	Foods        []Food `json:"foods"`
	Page         int    `json:"page"`
	TotalResults int    `json:"totalResults"`
}

// Serving is one serving option of a food, with its nutrition values.
type Serving struct {
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
}

// FoodDetails is the full lookup result for one food.
type FoodDetails struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Servings []Serving `json:"servings"`
}
