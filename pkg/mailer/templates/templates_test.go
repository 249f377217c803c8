package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/studytube/config"
)

func testConfig() *config.Config {
	return &config.Config{AppName: "StudyTube", CompanyName: "StudyTube Inc", SupportURL: "https://support.test"}
}

func TestRenderLoginNotification(t *testing.T) {
	at := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	data := NewLoginNotificationData(testConfig(), "Ada", "ada@example.com", WithIP("203.0.113.9"), WithTime(at))

	subject, text, html, err := Render(LoginNotification, data)
	require.NoError(t, err)
	require.Equal(t, "New sign-in to your StudyTube account", subject)
	require.Contains(t, text, "Hi Ada,")
	require.Contains(t, text, "203.0.113.9")
	require.Contains(t, text, "04 March 2025, 10:30 UTC")
	require.Contains(t, html, "https://support.test")
}

func TestRenderProfileUpdated(t *testing.T) {
	data := NewProfileUpdatedData(testConfig(), "Ada", "ada@example.com", map[string]string{"email": "ada@example.com"})

	_, text, html, err := Render(ProfileUpdated, data)
	require.NoError(t, err)
	require.Contains(t, text, "- email: ada@example.com")
	require.Contains(t, html, "<strong>email</strong>")
}

func TestRenderPhoneChangedMasksNumbers(t *testing.T) {
	data := NewPhoneChangedData(testConfig(), "Ada", "ada@example.com", "+15551234567", "+15559876543")

	subject, text, _, err := Render(PhoneChanged, data)
	require.NoError(t, err)
	require.Equal(t, "Your StudyTube phone number was changed", subject)
	require.Contains(t, text, "+1******4567")
	require.Contains(t, text, "+1******6543")
	require.NotContains(t, text, "+15551234567")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("welcome", map[string]any{})
	require.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	require.Equal(t, "x", defaultFn("x", ""))
	require.Equal(t, "x", defaultFn("x", nil))
	require.Equal(t, "x", defaultFn("x", 0))
	require.Equal(t, "y", defaultFn("x", "y"))
}
