package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// For a list of possible icons, see: https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"
	IconDialogInfo  = "dialog-information"
	IconDialogWarn  = "dialog-warning"

	UrgencyLow      = "low"
	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"
)

func NotifyInfo(title, text string) {
	NotifySend(UrgencyLow, title, text, IconDialogInfo)
}

func NotifyWarn(title, text string) {
	NotifySend(UrgencyNormal, title, text, IconDialogWarn)
}

func NotifyError(title, text string) {
	NotifySend(UrgencyCritical, title, text, IconDialogError)
}

// NotifySend shows a desktop notification to the user owning the current display session
func NotifySend(urgency, title, text, icon string) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Cannot send notification, missing env variable 'DISPLAY'")
		return
	}

	output, err := exec.Command("who").Output()
	if err != nil {
		Warning("Cannot send notification, unable to find user of display session: %v", err)
		return
	}
	user, found := findDisplayUser(string(output), display)
	if !found {
		Warning("Cannot send notification, unable to detect user of current display session")
		return
	}

	output, err = exec.Command("id", "-u", user).Output()
	userId := strings.TrimSpace(string(output))
	if err != nil || len(userId) <= 0 {
		Warning("Cannot send notification, unable to detect user id of %s: %v", user, err)
		return
	}

	err = exec.Command("sudo", notifySendArgs(user, userId, display, urgency, title, text, icon)...).Run()
	if err != nil {
		Error("Error sending notification: %v", err)
	}
}

// findDisplayUser returns the user of the "who" output line whose
// session field is display, either bare or in parentheses
func findDisplayUser(who string, display string) (string, bool) {
	for _, line := range strings.Split(who, "\n") {
		fields := strings.Fields(line)
		for _, field := range fields[min(1, len(fields)):] {
			if field == display || field == "("+display+")" {
				return fields[0], true
			}
		}
	}
	return "", false
}

func notifySendArgs(user, userId, display, urgency, title, text, icon string) []string {
	return []string{
		"-u", user,
		"DISPLAY=" + display,
		fmt.Sprintf("DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/%s/bus", userId),
		"notify-send",
		"-a", "hwmon2go",
		"-u", urgency,
		"-i", icon,
		title, text,
	}
}
