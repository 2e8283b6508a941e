package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindDisplayUser(t *testing.T) {
	// GIVEN
	who := "root     tty1         2024-01-01 10:00\n" +
		"markus   tty2         2024-01-01 10:01 (:0)\n"

	// WHEN
	user, found := findDisplayUser(who, ":0")

	// THEN
	assert.True(t, found)
	assert.Equal(t, "markus", user)
}

func TestFindDisplayUser_IgnoresLoginTime(t *testing.T) {
	// GIVEN
	who := "root     tty1         2024-01-01 10:00\n" +
		"markus   :0           2024-01-01 10:01\n"

	// WHEN
	user, found := findDisplayUser(who, ":0")

	// THEN
	assert.True(t, found)
	assert.Equal(t, "markus", user)
}

func TestFindDisplayUser_NoSession(t *testing.T) {
	// WHEN
	_, found := findDisplayUser("root     tty1         2024-01-01 10:00\n\n", ":1")

	// THEN
	assert.False(t, found)
}

func TestNotifySendArgs(t *testing.T) {
	// WHEN
	args := notifySendArgs("markus", "1000", ":0", UrgencyCritical, "Title", "Text", IconDialogError)

	// THEN
	assert.Equal(t, []string{
		"-u", "markus",
		"DISPLAY=:0",
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/1000/bus",
		"notify-send",
		"-a", "hwmon2go",
		"-u", "critical",
		"-i", "dialog-error",
		"Title", "Text",
	}, args)
}
