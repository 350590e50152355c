// service/email_service_test.go
package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmailTemplatesRender(t *testing.T) {
	data := emailData{
		Name:      "Jane",
		Email:     "jane@example.com",
		Date:      "Monday, September 14, 2026",
		TimeRange: "10:00 AM – 10:30 AM",
		Duration:  30,
		Message:   "Looking forward to it",
	}

	var confirmation bytes.Buffer
	assert.NoError(t, confirmationTmpl.Execute(&confirmation, data))
	assert.Contains(t, confirmation.String(), "Appointment Confirmed")
	assert.Contains(t, confirmation.String(), "Jane")
	assert.Contains(t, confirmation.String(), "30-minute session")

	var admin bytes.Buffer
	assert.NoError(t, adminNotificationTmpl.Execute(&admin, data))
	assert.Contains(t, admin.String(), "Jane (jane@example.com)")

	// Anonymous booker falls back to a generic greeting.
	data.Name = ""
	confirmation.Reset()
	assert.NoError(t, confirmationTmpl.Execute(&confirmation, data))
	assert.Contains(t, confirmation.String(), "Hi there")
}

func TestTimeRange(t *testing.T) {
	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "10:00 AM – 10:30 AM", timeRange(start, 30))
}
