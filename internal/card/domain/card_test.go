package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetDueDateResetsReminder(t *testing.T) {
	due := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	card := &Card{DueDate: &due, DueReminderSent: true}

	same := due
	card.SetDueDate(&same)
	assert.True(t, card.DueReminderSent, "unchanged due date keeps the flag")

	later := due.Add(48 * time.Hour)
	card.SetDueDate(&later)
	assert.False(t, card.DueReminderSent)
	assert.Equal(t, later, *card.DueDate)

	card.DueReminderSent = true
	card.SetDueDate(nil)
	assert.False(t, card.DueReminderSent)
	assert.Nil(t, card.DueDate)
}
