package email_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub/volunhub/pkg/email"
)

func TestSendEmailParamsValidate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
	}

	tests := []struct {
		name    string
		mutate  func(*email.SendEmailParams)
		wantErr bool
	}{
		{name: "valid params", mutate: func(p *email.SendEmailParams) {}},
		{name: "missing recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = "" }, wantErr: true},
		{name: "invalid recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = "not-an-email" }, wantErr: true},
		{name: "missing subject", mutate: func(p *email.SendEmailParams) { p.Subject = "" }, wantErr: true},
		{name: "missing body", mutate: func(p *email.SendEmailParams) { p.BodyHTML = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := valid
			tt.mutate(&params)

			err := params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPostmarkClient(t *testing.T) {
	t.Parallel()

	cfg := email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		sender, err := email.NewPostmarkClient(cfg)
		require.NoError(t, err)
		assert.NotNil(t, sender)
	})

	t.Run("missing tokens", func(t *testing.T) {
		t.Parallel()

		bad := cfg
		bad.PostmarkServerToken = ""
		_, err := email.NewPostmarkClient(bad)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("invalid sender address", func(t *testing.T) {
		t.Parallel()

		bad := cfg
		bad.SenderEmail = "nope"
		_, err := email.NewPostmarkClient(bad)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.SendEmail(t.Context(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Verify your account",
		BodyHTML: "<p>Your code is 123456</p>",
		Tag:      "verification-code",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var htmlFile string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".html") {
			htmlFile = e.Name()
		}
	}
	require.NotEmpty(t, htmlFile)
	assert.Contains(t, htmlFile, "verification-code")

	body, err := os.ReadFile(filepath.Join(dir, htmlFile))
	require.NoError(t, err)
	assert.Contains(t, string(body), "123456")
}
