package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityMonitor(t *testing.T) {
	InitSecurityMonitor()
	email := "suzan@4morgen.com"

	t.Run("TrackFailedLogin", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			Monitor.TrackFailedLogin(email, "127.0.0.1")
		}
		assert.Empty(t, Monitor.GetRecentAlerts())

		Monitor.TrackFailedLogin(email, "10.0.0.9")
		alerts := Monitor.GetRecentAlerts()
		require.NotEmpty(t, alerts)
		assert.Equal(t, email, alerts[0].Email)
		assert.Equal(t, "10.0.0.9", alerts[0].IP)
		assert.Contains(t, alerts[0].Reason, "Multiple failed logins")
	})

	t.Run("Duplicate Alert Rate Limit", func(t *testing.T) {
		initialAlertCount := len(Monitor.GetRecentAlerts())

		for i := 0; i < 5; i++ {
			Monitor.TrackFailedLogin(email, "127.0.0.1")
		}

		assert.Equal(t, initialAlertCount, len(Monitor.GetRecentAlerts()))
	})
}

func TestSecurityMonitor_CountsPerEmail(t *testing.T) {
	m := NewSecurityEventMonitor()

	// One address guessing at different accounts never reaches a threshold
	for i := 0; i < failedLoginThreshold; i++ {
		m.TrackFailedLogin("user"+string(rune('a'+i))+"@4morgen.com", "10.0.0.1")
	}
	assert.Empty(t, m.GetRecentAlerts())

	// One account failing from many addresses does
	for i := 0; i < failedLoginThreshold; i++ {
		m.TrackFailedLogin("anne@4morgen.com", "10.0.0."+string(rune('1'+i)))
	}
	alerts := m.GetRecentAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "anne@4morgen.com", alerts[0].Email)
}

func TestSecurityMonitorCleanup(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	m := NewSecurityEventMonitor()
	m.now = func() time.Time { return now }

	m.TrackFailedLogin("anne@4morgen.com", "10.0.0.1")
	assert.Equal(t, 0, m.Cleanup())

	now = now.Add(failedLoginWindow + time.Second)
	assert.Equal(t, 1, m.Cleanup())

	// Old attempts no longer count toward the threshold
	for i := 0; i < failedLoginThreshold-1; i++ {
		m.TrackFailedLogin("anne@4morgen.com", "10.0.0.1")
	}
	assert.Empty(t, m.GetRecentAlerts())
}
