package stocktwits

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investo/pkg/config"
	"github.com/wonny/investo/pkg/httputil"
	"github.com/wonny/investo/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	log := logger.NewNop()
	httpClient := httputil.New(&config.Config{HTTPTimeout: 2 * time.Second}, log).DisableRetry()
	return NewClient(httpClient, config.StockTwitsConfig{BaseURL: serverURL}, log)
}

func message(id int, sentiment string) string {
	if sentiment == "" {
		return fmt.Sprintf(`{"id":%d,"body":"$AAPL","entities":{"sentiment":null}}`, id)
	}
	return fmt.Sprintf(`{"id":%d,"body":"$AAPL","entities":{"sentiment":{"basic":%q}}}`, id, sentiment)
}

func TestCrowdTally(t *testing.T) {
	body := `{"messages":[` + strings.Join([]string{
		message(1, "Bullish"),
		message(2, "Bullish"),
		message(3, "Bearish"),
		message(4, ""),
	}, ",") + `]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/streams/symbol/AAPL.json", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	tally, err := newTestClient(srv.URL).CrowdTally(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 4, tally.Mentions)
	assert.Equal(t, 2, tally.Bullish)
	assert.Equal(t, 1, tally.Bearish)
}

func TestTally_CapsMessages(t *testing.T) {
	messages := make([]Message, 150)
	for i := range messages {
		messages[i].Entities.Sentiment = &struct {
			Basic string `json:"basic"`
		}{Basic: "Bearish"}
	}

	tally := Tally(messages)
	assert.Equal(t, MaxMessages, tally.Mentions)
	assert.Equal(t, MaxMessages, tally.Bearish)
	assert.Zero(t, tally.Bullish)
}

func TestStream_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestClient(srv.URL).Stream(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}
