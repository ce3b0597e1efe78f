package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/fitlog-app/backend/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	oneHour              = 60 * 60
	nutritionCacheExpire = oneHour * 1
)

// Api is the client for the nutrition platform food database. Responses
// are cached for an hour, food data changes rarely and the API is rate
// limited on the platform side.
type Api struct {
	cache      *freecache.Cache
	baseURL    string
	signer     *signer
	httpClient *http.Client
}

func NewApi(baseURL, consumerKey, consumerSecret string, httpClient *http.Client) *Api {
	megabyte := 1024 * 1024
	cacheSize := 20 * megabyte

	return &Api{
		cache:      freecache.NewCache(cacheSize),
		baseURL:    baseURL,
		signer:     newSigner(consumerKey, consumerSecret),
		httpClient: httpClient,
	}
}

// SearchFoods returns one page of foods matching the query.
func (api *Api) SearchFoods(ctx context.Context, query string, page int) (result *SearchResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutritionApi.searchFoods")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, fmt.Sprintf("found foods for: %s", query))
		}
	}()

	result = &SearchResult{}

	cacheKey := fmt.Sprintf("search::%s::%d", query, page)
	if cachedBytes, err := api.cache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("found food search results for %q in cache", query)
		if err = json.Unmarshal(cachedBytes, result); err == nil {
			return result, nil
		}
		log.Errorf("failed to unmarshal cached food search for %q: %s", query, err)
	}

	respBytes, err := api.call(ctx, map[string]string{
		"method":            "foods.search",
		"format":            "json",
		"search_expression": query,
		"page_number":       strconv.Itoa(page),
	})
	if err != nil {
		return nil, err
	}

	var searchResp searchResponse
	if err := json.Unmarshal(respBytes, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal food search response: %w", err)
	}

	result = &SearchResult{
		Foods: make([]Food, 0, len(searchResp.Foods.Food)),
		Page:  page,
	}
	for _, f := range searchResp.Foods.Food {
		result.Foods = append(result.Foods, Food{
			ID:          f.FoodID,
			Name:        f.FoodName,
			Type:        f.FoodType,
			Brand:       f.BrandName,
			Description: f.FoodDescription,
		})
	}
	if total, err := strconv.Atoi(searchResp.Foods.TotalResults); err == nil {
		result.TotalResults = total
	}

	if resultBytes, err := json.Marshal(result); err == nil {
		if err := api.cache.Set([]byte(cacheKey), resultBytes, nutritionCacheExpire); err != nil {
			log.Errorf("failed to cache food search for %q: %s", query, err)
		}
	}

	return result, nil
}

// GetFood returns a single food with all its serving options.
func (api *Api) GetFood(ctx context.Context, foodID string) (details *FoodDetails, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutritionApi.getFood")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, fmt.Sprintf("found food: %s", foodID))
		}
	}()

	details = &FoodDetails{}

	cacheKey := fmt.Sprintf("food::%s", foodID)
	if cachedBytes, err := api.cache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("found food %s in cache", foodID)
		if err = json.Unmarshal(cachedBytes, details); err == nil {
			return details, nil
		}
		log.Errorf("failed to unmarshal cached food %s: %s", foodID, err)
	}

	respBytes, err := api.call(ctx, map[string]string{
		"method":  "food.get",
		"format":  "json",
		"food_id": foodID,
	})
	if err != nil {
		return nil, err
	}

	var foodResp getFoodResponse
	if err := json.Unmarshal(respBytes, &foodResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal food response: %w", err)
	}

	details = &FoodDetails{
		ID:       foodResp.Food.FoodID,
		Name:     foodResp.Food.FoodName,
		Type:     foodResp.Food.FoodType,
		Servings: make([]Serving, 0, len(foodResp.Food.Servings.Serving)),
	}
	for _, s := range foodResp.Food.Servings.Serving {
		details.Servings = append(details.Servings, Serving{
			Description: s.ServingDescription,
			Calories:    parseApiFloat(s.Calories),
			Protein:     parseApiFloat(s.Protein),
			Carbs:       parseApiFloat(s.Carbohydrate),
			Fat:         parseApiFloat(s.Fat),
		})
	}

	if detailsBytes, err := json.Marshal(details); err == nil {
		if err := api.cache.Set([]byte(cacheKey), detailsBytes, nutritionCacheExpire); err != nil {
			log.Errorf("failed to cache food %s: %s", foodID, err)
		}
	}

	return details, nil
}

func (api *Api) call(ctx context.Context, params map[string]string) ([]byte, error) {
	apiURL := fmt.Sprintf("%s?%s", api.baseURL, api.signer.SignedQuery(api.baseURL, params))
	log.Tracef("calling nutrition api: %s", params["method"])

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := api.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read nutrition api response bytes: %w", err)
	}

	// errors come back as 200 with an error payload
	var errResp apiError
	if err := json.Unmarshal(respBytes, &errResp); err == nil && errResp.Error.Message != "" {
		return nil, &ApiError{
			Code:    errResp.Error.Code,
			Message: errResp.Error.Message,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutrition api status: %s", resp.Status)
	}

	return respBytes, nil
}

func parseApiFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Tracef("nutrition api, parse float %q: %s", s, err)
		return 0
	}
	return f
}
