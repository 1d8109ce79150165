package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/platebook/platebook/internal/domain/apperr"
)

// RecipeService proxies ingredient lists to the external recommender and
// relays its suggestions. The upstream is a separate process, so every
// failure there surfaces as a transient error rather than an internal one.
type RecipeService struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
	Logger  *logrus.Logger
}

type Recommendation struct {
	DishName    string  `json:"dish_name"`
	Ingredients string  `json:"ingredients"`
	Score       float64 `json:"score"`
}

func (s *RecipeService) httpClient() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

// Recommend asks the recommender for dishes matching the given
// ingredients.
func (s *RecipeService) Recommend(ctx context.Context, ingredients []string) ([]Recommendation, error) {
	if len(ingredients) == 0 {
		return nil, apperr.New(apperr.KindValidation, "ingredients are required")
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(map[string][]string{"ingredients": ingredients})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "encode recommender request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "build recommender request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient().Do(req)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("recommender unreachable")
		}
		return nil, apperr.Wrap(apperr.KindTransient, err, "recommendation service unavailable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, err, "read recommender response")
	}
	if resp.StatusCode != http.StatusOK {
		if s.Logger != nil {
			s.Logger.WithField("status", resp.StatusCode).Warn("recommender returned an error")
		}
		return nil, apperr.New(apperr.KindTransient, "recommendation service returned %s", resp.Status)
	}

	var out struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, err, fmt.Sprintf("decode recommender response (%d bytes)", len(body)))
	}
	return out.Recommendations, nil
}
