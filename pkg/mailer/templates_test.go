package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderVerifyEmail(t *testing.T) {
	subject, text, html, err := Render(EmailJob{
		To:       "alice@example.com",
		Template: JobVerifyEmail,
		Data:     map[string]string{"Username": "alicesmith", "Code": "a1b2c3"},
	})
	require.NoError(t, err)
	require.Equal(t, "Email Verification", subject)
	require.Contains(t, text, "a1b2c3")
	require.Contains(t, html, "alicesmith")
	require.Contains(t, html, "a1b2c3")
}

func TestRenderResetPassword(t *testing.T) {
	url := "http://localhost:3000/reset-password/deadbeef"
	subject, text, html, err := Render(EmailJob{
		To:       "alice@example.com",
		Template: JobResetPassword,
		Data:     map[string]string{"Username": "alicesmith", "ResetURL": url},
	})
	require.NoError(t, err)
	require.Equal(t, "Password Reset", subject)
	require.Contains(t, text, url)
	require.Contains(t, html, "alicesmith")
	require.Contains(t, html, url)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render(EmailJob{Template: "coupon_blast"})
	require.Error(t, err)
}
