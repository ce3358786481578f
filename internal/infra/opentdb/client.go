package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"quizpulse/internal/domain"
)

// DefaultBaseURL points at the public Open Trivia Database.
const DefaultBaseURL = "https://opentdb.com"

// Response codes documented by the Open Trivia Database API.
const (
	codeSuccess   = 0
	codeNoResults = 1
)

// Client fetches question batches from the Open Trivia Database. Each fetch
// is a single attempt; failures are returned to the caller without retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	nextID     atomic.Int64
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type apiQuestion struct {
	Category         string   `json:"category"`
	CorrectAnswer    string   `json:"correct_answer"`
	Difficulty       string   `json:"difficulty"`
	IncorrectAnswers []string `json:"incorrect_answers"`
	Question         string   `json:"question"`
	Type             string   `json:"type"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

// Fetch retrieves a question batch in source order. The source carries no
// question IDs, so the client assigns monotonically increasing local ones.
func (c *Client) Fetch(ctx context.Context, categoryID int, difficulty domain.Difficulty, amount int, qtype string) ([]domain.Question, error) {
	if amount <= 0 {
		amount = 10
	}
	if qtype == "" {
		qtype = "multiple"
	}

	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	params.Set("category", strconv.Itoa(categoryID))
	params.Set("difficulty", string(difficulty))
	params.Set("type", qtype)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api.php?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrFetchFailed, err)
	}
	switch payload.ResponseCode {
	case codeSuccess:
	case codeNoResults:
		return nil, fmt.Errorf("%w: source has no results for this query", domain.ErrFetchFailed)
	default:
		return nil, fmt.Errorf("%w: response code %d", domain.ErrFetchFailed, payload.ResponseCode)
	}

	questions := make([]domain.Question, 0, len(payload.Results))
	for _, r := range payload.Results {
		questions = append(questions, domain.Question{
			ID:               c.nextID.Add(1),
			Category:         r.Category,
			CorrectAnswer:    r.CorrectAnswer,
			Difficulty:       domain.Difficulty(r.Difficulty),
			IncorrectAnswers: r.IncorrectAnswers,
			Text:             r.Question,
			Type:             r.Type,
		})
	}
	return questions, nil
}
