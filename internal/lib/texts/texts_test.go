package texts

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

func TestWarningNotice(t *testing.T) {
	text := WarningNotice("Ivan", 1, models.ReasonExternalLink)
	assert.Contains(t, text, "Warning #1")
	assert.Contains(t, text, "Mr. Ivan")
	assert.Contains(t, text, "External link")
	assert.Contains(t, text, "24-hour mute")
}

func TestMuteNotice(t *testing.T) {
	text := MuteNotice("Ivan", 2, models.ReasonForwarded)
	assert.Contains(t, text, "muted for 24 hours")
	assert.Contains(t, text, "Warnings: 2/3")
	assert.Contains(t, text, "Permanent ban")
}

func TestBanNotice(t *testing.T) {
	text := BanNotice("Ivan", 3, models.ReasonSuspicious)
	assert.Contains(t, text, "has been banned")
	assert.Contains(t, text, "Total warnings: 3")
}

func TestViolationAlert(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	text := ViolationAlert("Ivan", "ivan", 42, models.ReasonExternalLink, 2, models.ActionMute, now)
	assert.Contains(t, text, "Violation Alert")
	assert.Contains(t, text, "`42`")
	assert.Contains(t, text, "Action: MUTE")
	assert.Contains(t, text, "2025-06-01 12:30 UTC")

	// Пустой username отображается как N/A
	text = ViolationAlert("Ivan", "", 42, models.ReasonExternalLink, 1, models.ActionWarning, now)
	assert.Contains(t, text, "@N/A")
}

func TestStatsReport(t *testing.T) {
	st := &models.Stats{TotalUsers: 10, ActiveWarnings: 3, MutedUsers: 2, BannedUsers: 1}
	now := time.Now()

	text := StatsReport(st, -100500, now)
	assert.Contains(t, text, "Total Users: 10")
	assert.Contains(t, text, "`-100500`")

	text = StatsReport(st, 0, now)
	assert.Contains(t, text, "Not set")
}

func TestWelcome(t *testing.T) {
	text := Welcome("Ivan")
	assert.True(t, strings.HasPrefix(text, "👋 Welcome to the Premium Group, *Mr. Ivan*!"))
	assert.Contains(t, text, Rules)
}

func TestExpiredAlert(t *testing.T) {
	expiredAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Contains(t, ExpiredAlert(42, "Ivan", expiredAt), "Ivan")
	assert.Contains(t, ExpiredAlert(42, "Ivan", expiredAt), "2025-06-01 12:00 UTC")
	assert.Contains(t, ExpiredAlert(42, "", expiredAt), "Unknown")
}
