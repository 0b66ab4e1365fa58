package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rustyeddy/wealthgrid/wealth"
)

const (
	// DefaultURL is an OpenAI-compatible chat completions endpoint.
	DefaultURL   = "https://api.deepseek.com"
	DefaultModel = "deepseek-chat"
)

const gridPrompt = `You are a personal finance planner. Split the user's money into four buckets:
emergency (reserve, usually 15-20%), daily (spending, 10-15%), investment (capital growth, 50-65%)
and growth (self-development, 10-20%). Adjust for the questionnaire answers.
Reply with a single JSON object and nothing else:
{"grid":{"emergency":int,"daily":int,"investment":int,"growth":int},"analysis":"two or three sentences"}
The four integers must add up to 100.`

const commentPrompt = `You are a friendly personal finance coach. Comment on one ledger entry.
Reply with a single JSON object and nothing else: {"title":"at most eight words","commentary":"one short paragraph"}`

// Client calls a chat completions API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Advisor = (*Client)(nil)

// NewClient creates a client. rps <= 0 disables client-side rate limiting.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, rps float64) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// complete sends one system+user exchange and decodes the JSON object in the
// reply into out.
func (c *Client) complete(ctx context.Context, system, user string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	buf, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0.3,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrMalformed, err)
	}
	if len(chat.Choices) == 0 {
		return fmt.Errorf("%w: no choices", ErrMalformed)
	}

	content := stripFence(chat.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

type gridReply struct {
	Grid     *wealth.Grid `json:"grid"`
	Analysis string       `json:"analysis"`
}

// AllocateGrid asks for a grid. A reply without a grid, or with one that
// does not sum to 100, is ErrMalformed.
func (c *Client) AllocateGrid(ctx context.Context, answers wealth.Answers) (Allocation, error) {
	var reply gridReply
	if err := c.complete(ctx, gridPrompt, describeAnswers(answers), &reply); err != nil {
		return Allocation{}, err
	}
	if reply.Grid == nil {
		return Allocation{}, fmt.Errorf("%w: missing grid", ErrMalformed)
	}
	if err := reply.Grid.Validate(); err != nil {
		return Allocation{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Allocation{Grid: *reply.Grid, Analysis: strings.TrimSpace(reply.Analysis)}, nil
}

type commentReply struct {
	Title      string `json:"title"`
	Commentary string `json:"commentary"`
}

func (c *Client) Commentary(ctx context.Context, e wealth.Entry) (Commentary, error) {
	var reply commentReply
	if err := c.complete(ctx, commentPrompt, describeEntry(e), &reply); err != nil {
		return Commentary{}, err
	}
	if strings.TrimSpace(reply.Title) == "" || strings.TrimSpace(reply.Commentary) == "" {
		return Commentary{}, fmt.Errorf("%w: empty commentary", ErrMalformed)
	}
	return Commentary{Title: strings.TrimSpace(reply.Title), Body: strings.TrimSpace(reply.Commentary)}, nil
}

func describeAnswers(a wealth.Answers) string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Questionnaire answers:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %v\n", k, a[k])
	}
	return b.String()
}

func describeEntry(e wealth.Entry) string {
	s := fmt.Sprintf("%s of %s in the %s bucket, category %q", e.Kind, e.Amount.StringFixed(2), e.Bucket, e.Category)
	if e.Note != "" {
		s += fmt.Sprintf(", note %q", e.Note)
	}
	return s
}
