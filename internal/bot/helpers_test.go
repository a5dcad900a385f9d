package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgmodels "github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/spendwise/internal/bot/mocks"
	"gitlab.com/yelinaung/spendwise/internal/config"
	"gitlab.com/yelinaung/spendwise/internal/engine"
	"gitlab.com/yelinaung/spendwise/internal/gemini"
	"gitlab.com/yelinaung/spendwise/internal/store"
	"google.golang.org/genai"
)

const (
	testChatID = int64(12345)
	testUserID = int64(100)
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testBot bundles a Bot with the fakes behind it.
type testBot struct {
	*Bot
	tg    *mocks.MockBot
	clock *testClock
}

// newTestBot returns a bot over a fresh in-memory engine with a fixed
// clock, sequential ids and testUserID whitelisted.
func newTestBot(t *testing.T) *testBot {
	t.Helper()

	clock := &testClock{now: testNow}
	var n atomic.Int64
	eng := engine.Open(context.Background(), store.NewMemory(),
		engine.WithClock(clock.Now),
		engine.WithIDGenerator(func() string { return fmt.Sprintf("id-%04d", n.Add(1)) }),
		engine.WithLocation(time.UTC),
	)

	cfg := &config.Config{
		WhitelistedUserIDs:   []int64{testUserID},
		WhitelistedUsernames: []string{"alice"},
	}

	return &testBot{
		Bot:   newBot(cfg, eng, nil),
		tg:    mocks.NewMockBot(),
		clock: clock,
	}
}

// register completes /start for the test user.
func (tb *testBot) register(t *testing.T) {
	t.Helper()
	tb.handleStartCore(context.Background(), tb.tg, command("/start Priya Sharma 9876543210 45000 IN"))
	require.True(t, tb.engine.Registered())
	tb.tg.Reset()
}

// lastText returns the last message sent to Telegram.
func (tb *testBot) lastText(t *testing.T) string {
	t.Helper()
	last := tb.tg.LastSentMessage()
	require.NotNil(t, last, "expected a message to be sent")
	return last.Text
}

// withGemini installs a recognizer that answers every request with text.
func (tb *testBot) withGemini(text string, err error) *botTestGenerator {
	gen := &botTestGenerator{err: err}
	if text != "" {
		gen.response = &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
			}},
		}
	}
	tb.geminiClient = gemini.NewClientWithGenerator(gen)
	return gen
}

// serveFile points the mock bot's download link at a server returning body.
func (tb *testBot) serveFile(t *testing.T, body string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	tb.tg.FileDownloadLinkToReturn = server.URL
}

func command(text string) *tgmodels.Update {
	return mocks.CommandUpdate(testChatID, testUserID, text)
}

type botTestGenerator struct {
	response *genai.GenerateContentResponse
	err      error

	mu    sync.Mutex
	calls int
	mime  string
}

func (m *botTestGenerator) GenerateContent(
	_ context.Context,
	_ string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, c := range contents {
		for _, p := range c.Parts {
			if p.InlineData != nil {
				m.mime = p.InlineData.MIMEType
			}
		}
	}
	return m.response, m.err
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
