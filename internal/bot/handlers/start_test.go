package handlers

import (
	stdErrors "errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/webapp-bot/internal/domain"
	apperrors "github.com/Proton-105/webapp-bot/internal/errors"
)

type sentMessage struct {
	what   interface{}
	markup *telebot.ReplyMarkup
}

// fakeContext implements the subset of telebot.Context used by the start handler.
// Calling any other method panics on the nil embedded interface.
type fakeContext struct {
	telebot.Context

	chat    *telebot.Chat
	sendErr error

	mu   sync.Mutex
	sent []sentMessage
}

func (c *fakeContext) Chat() *telebot.Chat { return c.chat }

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	if c.sendErr != nil {
		return c.sendErr
	}

	msg := sentMessage{what: what}
	for _, opt := range opts {
		if markup, ok := opt.(*telebot.ReplyMarkup); ok {
			msg.markup = markup
		}
	}

	c.mu.Lock()
	c.sent = append(c.sent, msg)
	c.mu.Unlock()
	return nil
}

func (c *fakeContext) sentMessages() []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentMessage(nil), c.sent...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func launchReply(url string) domain.Reply {
	return domain.NewLaunchReply("Tap to open the app:", "Open App", url)
}

func TestStartHandler_SendsSingleWebAppButton(t *testing.T) {
	handler, err := NewStartHandler(launchReply("https://example.com/app"), testLogger())
	require.NoError(t, err)

	c := &fakeContext{chat: &telebot.Chat{ID: 1001}}
	require.NoError(t, handler(c))

	sent := c.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Tap to open the app:", sent[0].what)

	require.NotNil(t, sent[0].markup)
	require.Len(t, sent[0].markup.InlineKeyboard, 1)
	require.Len(t, sent[0].markup.InlineKeyboard[0], 1)

	btn := sent[0].markup.InlineKeyboard[0][0]
	assert.Equal(t, "Open App", btn.Text)
	require.NotNil(t, btn.WebApp)
	assert.Equal(t, "https://example.com/app", btn.WebApp.URL)
}

func TestStartHandler_OneReplyPerInvocation(t *testing.T) {
	handler, err := NewStartHandler(launchReply("https://example.com/app"), testLogger())
	require.NoError(t, err)

	c := &fakeContext{chat: &telebot.Chat{ID: 7}}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, handler(c))
		}()
	}
	wg.Wait()

	sent := c.sentMessages()
	require.Len(t, sent, 20)
	for _, msg := range sent {
		require.Len(t, msg.markup.InlineKeyboard, 1)
		assert.Equal(t, "https://example.com/app", msg.markup.InlineKeyboard[0][0].WebApp.URL)
		assert.Same(t, sent[0].markup, msg.markup)
	}
}

func TestStartHandler_RejectsInsecureURL(t *testing.T) {
	handler, err := NewStartHandler(launchReply("http://example.com/app"), testLogger())

	require.Error(t, err)
	assert.Nil(t, handler)
	assert.Equal(t, apperrors.CodeConfig, apperrors.CodeOf(err))
}

func TestStartHandler_PlatformRejectionIsReturned(t *testing.T) {
	handler, err := NewStartHandler(launchReply("https://unapproved.example.com"), testLogger())
	require.NoError(t, err)

	platformErr := stdErrors.New("telegram: Bad Request: BUTTON_URL_INVALID (400)")
	c := &fakeContext{chat: &telebot.Chat{ID: 5}, sendErr: platformErr}

	err = handler(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, platformErr)
	assert.Equal(t, apperrors.CodeDelivery, apperrors.CodeOf(err))
	assert.Empty(t, c.sentMessages())
}

func TestStartHandler_NoChatNoReply(t *testing.T) {
	handler, err := NewStartHandler(launchReply("https://example.com/app"), testLogger())
	require.NoError(t, err)

	c := &fakeContext{}
	require.NoError(t, handler(c))
	assert.Empty(t, c.sentMessages())
}
