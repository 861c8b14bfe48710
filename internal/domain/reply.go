// Package domain holds the outbound reply model sent in answer to the launch command.
package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/Proton-105/webapp-bot/internal/errors"
	"github.com/Proton-105/webapp-bot/pkg/config"
)

// Button is an interactive element that opens a Telegram Web App at URL.
type Button struct {
	Label string
	URL   string
}

// Reply is the text and ordered interactive elements sent back to a conversation.
type Reply struct {
	Text    string
	Buttons []Button
}

// NewLaunchReply builds the single-button reply sent for the launch command.
func NewLaunchReply(prompt, label, url string) Reply {
	return Reply{
		Text:    prompt,
		Buttons: []Button{{Label: label, URL: url}},
	}
}

// NewLaunchReplyFromConfig builds the launch reply from web app settings.
func NewLaunchReplyFromConfig(cfg config.WebAppConfig) Reply {
	return NewLaunchReply(cfg.PromptText, cfg.ButtonText, cfg.URL)
}

// Validate ensures the reply has text and at least one button, each with a label and an
// absolute https URL.
func (r Reply) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return apperrors.NewConfigError("reply text is empty", nil)
	}

	if len(r.Buttons) == 0 {
		return apperrors.NewConfigError("reply has no buttons", nil)
	}

	for i, btn := range r.Buttons {
		if err := btn.Validate(); err != nil {
			return apperrors.NewConfigError(fmt.Sprintf("button %d is invalid", i), err)
		}
	}

	return nil
}

// Validate checks the button label and target URL.
func (b Button) Validate() error {
	if strings.TrimSpace(b.Label) == "" {
		return fmt.Errorf("button label is empty")
	}
	return config.CheckHTTPSURL(b.URL)
}
