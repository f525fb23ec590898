package services

import (
	"log"
	"sync"
	"time"
)

const (
	failedLoginWindow    = 10 * time.Minute
	failedLoginThreshold = 5
	alertCooldown        = 1 * time.Hour
	maxAlertHistory      = 100
)

// SecurityEventMonitor aggregates failed logins per login email and raises
// log alerts. It observes only; it never blocks a login.
type SecurityEventMonitor struct {
	mu           sync.Mutex
	failedLogins map[string][]time.Time // email -> failure timestamps
	lastIP       map[string]string      // email -> IP of the latest failure
	alerted      map[string]time.Time   // email -> last alert time
	alerts       []SecurityAlert
	now          func() time.Time
}

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time
	Email     string
	IP        string // latest source address
	Reason    string
	Level     string // "WARNING", "CRITICAL"
}

// Global monitor instance
var Monitor *SecurityEventMonitor

// InitSecurityMonitor initializes the global monitor
func InitSecurityMonitor() {
	Monitor = NewSecurityEventMonitor()
}

// NewSecurityEventMonitor creates an empty monitor
func NewSecurityEventMonitor() *SecurityEventMonitor {
	return &SecurityEventMonitor{
		failedLogins: make(map[string][]time.Time),
		lastIP:       make(map[string]string),
		alerted:      make(map[string]time.Time),
		now:          time.Now,
	}
}

// TrackFailedLogin records a failed login for email and checks the threshold.
// Emails are matched exactly, like the credential check.
func (m *SecurityEventMonitor) TrackFailedLogin(email, ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	windowStart := now.Add(-failedLoginWindow)

	valid := []time.Time{}
	for _, t := range append(m.failedLogins[email], now) {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	m.failedLogins[email] = valid
	m.lastIP[email] = ip

	if len(valid) >= failedLoginThreshold {
		m.triggerAlertLocked(email, "Multiple failed logins detected")
	}
}

// triggerAlertLocked records and logs an alert; caller holds m.mu
func (m *SecurityEventMonitor) triggerAlertLocked(email, reason string) {
	now := m.now()
	if last, ok := m.alerted[email]; ok && now.Sub(last) < alertCooldown {
		return
	}
	m.alerted[email] = now

	ip := m.lastIP[email]
	alert := SecurityAlert{Timestamp: now, Email: email, IP: ip, Reason: reason, Level: "CRITICAL"}
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > maxAlertHistory {
		m.alerts = m.alerts[:maxAlertHistory]
	}

	log.Printf("[SECURITY ALERT] %s for %s (last IP: %s)", reason, email, ip)
}

// GetRecentAlerts returns a copy of recent alerts, newest first
func (m *SecurityEventMonitor) GetRecentAlerts() []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	alertsCopy := make([]SecurityAlert, len(m.alerts))
	copy(alertsCopy, m.alerts)
	return alertsCopy
}

// Cleanup removes stale failure windows and alert cooldowns. It returns the
// number of emails dropped.
func (m *SecurityEventMonitor) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for email, attempts := range m.failedLogins {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) > failedLoginWindow {
			delete(m.failedLogins, email)
			delete(m.lastIP, email)
			removed++
		}
	}
	for email, lastAlert := range m.alerted {
		if now.Sub(lastAlert) > alertCooldown {
			delete(m.alerted, email)
		}
	}
	return removed
}
