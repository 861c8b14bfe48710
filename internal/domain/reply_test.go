package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Proton-105/webapp-bot/internal/errors"
	"github.com/Proton-105/webapp-bot/pkg/config"
)

func TestNewLaunchReplyFromConfig(t *testing.T) {
	reply := NewLaunchReplyFromConfig(config.WebAppConfig{
		URL:        "https://example.com/app",
		ButtonText: "Open App",
		PromptText: "Tap to open the app:",
	})

	require.NoError(t, reply.Validate())
	assert.Equal(t, "Tap to open the app:", reply.Text)
	require.Len(t, reply.Buttons, 1)
	assert.Equal(t, Button{Label: "Open App", URL: "https://example.com/app"}, reply.Buttons[0])
}

func TestReply_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		reply   Reply
		wantErr bool
	}{
		{
			name:  "valid",
			reply: NewLaunchReply("Tap to open the app:", "Open App", "https://example.com/app"),
		},
		{
			name:    "http url",
			reply:   NewLaunchReply("Tap to open the app:", "Open App", "http://example.com/app"),
			wantErr: true,
		},
		{
			name:    "empty label",
			reply:   NewLaunchReply("Tap to open the app:", " ", "https://example.com/app"),
			wantErr: true,
		},
		{
			name:    "empty text",
			reply:   NewLaunchReply("", "Open App", "https://example.com/app"),
			wantErr: true,
		},
		{
			name:    "no buttons",
			reply:   Reply{Text: "Tap to open the app:"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.reply.Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfig, apperrors.CodeOf(err))
		})
	}
}
