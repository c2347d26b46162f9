package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/pkg/llms"
	"github.com/rxhtt/morrigan/pkg/models"
)

const (
	WeatherEndpoint     = "https://api.openweathermap.org/data/2.5/weather"
	WeatherFallbackText = "Morrigan: Weather link failed."
	// DefaultWeatherQuery is used when the request carries neither a
	// location nor an utterance.
	DefaultWeatherQuery = "London"
)

var _ models.ProviderAdapter = &WeatherTool{}

// WeatherTool looks up current conditions on OpenWeatherMap, preferring
// the request's coordinates over the utterance as the query.
type WeatherTool struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewWeatherTool(cfg *config.Config) *WeatherTool {
	timeout := time.Duration(cfg.Tools.TimeoutSeconds) * time.Second
	return &WeatherTool{
		endpoint: WeatherEndpoint,
		apiKey:   cfg.Tools.WeatherAPIKey,
		client:   llms.NewRetryableHTTPClient(0, timeout).StandardClient(),
	}
}

func (t *WeatherTool) Name() string {
	return "weather"
}

func (t *WeatherTool) Fallback() string {
	return WeatherFallbackText
}

type weatherResponse struct {
	// Cod is a number on success but a string on some error responses.
	Cod     json.Number `json:"cod"`
	Name    string      `json:"name"`
	Message string      `json:"message"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

func (t *WeatherTool) Generate(
	ctx context.Context,
	req *models.ChatRequest,
	_ string,
) (string, error) {
	if t.apiKey == "" {
		return "", models.ErrProviderDisabled
	}

	var query string
	switch {
	case req.Location != nil:
		query = fmt.Sprintf("lat=%v&lon=%v", req.Location.Latitude, req.Location.Longitude)
	case req.LastUserMessage() != "":
		query = "q=" + url.QueryEscape(req.LastUserMessage())
	default:
		query = "q=" + DefaultWeatherQuery
	}

	lookupURL := fmt.Sprintf("%s?%s&appid=%s&units=metric", t.endpoint, query, t.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", models.NewTransportError(t.Name(), err)
	}
	defer resp.Body.Close()

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", models.ErrMalformedResponse
	}

	if data.Cod.String() != "200" || len(data.Weather) == 0 {
		// An in-band upstream failure is still a formatted answer
		return fmt.Sprintf("Morrigan: Weather link failed. %s.", data.Message), nil
	}

	return fmt.Sprintf(
		"[SATELLITE_LINK] Morrigan: Intercepted data for %s. %s, %g°C.",
		data.Name, data.Weather[0].Description, data.Main.Temp,
	), nil
}
