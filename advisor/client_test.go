package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/wealthgrid/wealth"
)

// replyWith serves a chat completion whose message content is content.
func replyWith(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Len(t, req.Messages, 2)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: content}})
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(url string) *Client {
	return NewClient(url, "test-key", "test-model", 5*time.Second, 0)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", "k", "", 0, 2)
	assert.Equal(t, DefaultURL, c.baseURL)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
}

func TestAllocateGrid(t *testing.T) {
	server := replyWith(t, "```json\n{\"grid\":{\"emergency\":15,\"daily\":30,\"investment\":30,\"growth\":25},\"analysis\":\" Early career. \"}\n```")
	defer server.Close()

	got, err := newTestClient(server.URL).AllocateGrid(context.Background(), wealth.Answers{"age_stage": "23-28"})
	require.NoError(t, err)
	assert.Equal(t, wealth.Grid{Emergency: 15, Daily: 30, Investment: 30, Growth: 25}, got.Grid)
	assert.Equal(t, "Early career.", got.Analysis)
}

func TestAllocateGridMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "I think you should save more."},
		{"missing grid", `{"analysis":"hi"}`},
		{"bad sum", `{"grid":{"emergency":50,"daily":50,"investment":50,"growth":50}}`},
		{"negative share", `{"grid":{"emergency":-10,"daily":60,"investment":40,"growth":10}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := replyWith(t, tt.content)
			defer server.Close()

			_, err := newTestClient(server.URL).AllocateGrid(context.Background(), nil)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestAllocateGridHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).AllocateGrid(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestAllocateGridDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).AllocateGrid(ctx, nil)
	assert.Error(t, err)
}

func TestCommentary(t *testing.T) {
	server := replyWith(t, `{"title":"Coffee habit","commentary":"Small but it adds up."}`)
	defer server.Close()

	got, err := newTestClient(server.URL).Commentary(context.Background(), wealth.Entry{
		Kind:     wealth.Expense,
		Amount:   decimal.NewFromInt(5),
		Bucket:   wealth.Daily,
		Category: "coffee",
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee habit", got.Title)
	assert.Equal(t, "Small but it adds up.", got.Body)
}

func TestCommentaryEmpty(t *testing.T) {
	server := replyWith(t, `{"title":"","commentary":""}`)
	defer server.Close()

	_, err := newTestClient(server.URL).Commentary(context.Background(), wealth.Entry{})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDescribe(t *testing.T) {
	s := describeAnswers(wealth.Answers{"b": 2, "a": "x"})
	assert.Equal(t, "Questionnaire answers:\n- a: x\n- b: 2\n", s)

	e := wealth.Entry{Kind: wealth.Expense, Amount: decimal.NewFromInt(3), Bucket: wealth.Daily, Category: "tea", Note: "oolong"}
	assert.Equal(t, `expense of 3.00 in the daily bucket, category "tea", note "oolong"`, describeEntry(e))
}
