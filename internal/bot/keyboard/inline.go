package keyboard

import (
	"fmt"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/webapp-bot/internal/domain"
	"github.com/Proton-105/webapp-bot/pkg/config"
)

// InlineButton is a web app button definition used by the builder.
type InlineButton struct {
	Text      string
	WebAppURL string
}

// InlineKeyboardBuilder accumulates rows of InlineButton definitions before rendering telebot markup.
type InlineKeyboardBuilder struct {
	rows [][]InlineButton
}

// NewInlineKeyboard creates an empty builder.
func NewInlineKeyboard() *InlineKeyboardBuilder {
	return &InlineKeyboardBuilder{rows: make([][]InlineButton, 0)}
}

// AddRow appends a new row made of InlineButton definitions.
func (b *InlineKeyboardBuilder) AddRow(buttons ...InlineButton) *InlineKeyboardBuilder {
	if len(buttons) == 0 {
		return b
	}

	row := make([]InlineButton, len(buttons))
	copy(row, buttons)
	b.rows = append(b.rows, row)
	return b
}

// Build renders fresh inline markup. Telegram only opens web apps served over https,
// so any other URL is rejected here instead of at send time.
func (b *InlineKeyboardBuilder) Build() (*telebot.ReplyMarkup, error) {
	if len(b.rows) == 0 {
		return nil, fmt.Errorf("inline keyboard has no rows")
	}

	inlineKeyboard := make([][]telebot.InlineButton, len(b.rows))
	for i, row := range b.rows {
		inlineKeyboard[i] = make([]telebot.InlineButton, len(row))
		for j, btn := range row {
			if strings.TrimSpace(btn.Text) == "" {
				return nil, fmt.Errorf("button %d:%d has no text", i, j)
			}
			if err := config.CheckHTTPSURL(btn.WebAppURL); err != nil {
				return nil, fmt.Errorf("button %d:%d: %w", i, j, err)
			}

			inlineKeyboard[i][j] = telebot.InlineButton{
				Text:   btn.Text,
				WebApp: &telebot.WebApp{URL: btn.WebAppURL},
			}
		}
	}

	return &telebot.ReplyMarkup{InlineKeyboard: inlineKeyboard}, nil
}

// Render lays out reply buttons one per row, preserving their order.
func Render(reply domain.Reply) (*telebot.ReplyMarkup, error) {
	builder := NewInlineKeyboard()
	for _, btn := range reply.Buttons {
		builder.AddRow(InlineButton{Text: btn.Label, WebAppURL: btn.URL})
	}

	return builder.Build()
}
