package enums

import (
	"strings"
	"time"
)

type SafetyAction string

const (
	ActionWarning        SafetyAction = "warning"
	ActionSuspend24h     SafetyAction = "suspend_24h"
	ActionSuspend7d      SafetyAction = "suspend_7d"
	ActionSuspend30d     SafetyAction = "suspend_30d"
	ActionBanPermanent   SafetyAction = "ban_permanent"
	ActionContentRemoved SafetyAction = "content_removed"
	ActionProfileHidden  SafetyAction = "profile_hidden"
	ActionNoAction       SafetyAction = "no_action"
	ActionReinstated     SafetyAction = "reinstated"
)

func ParseSafetyAction(raw string) (SafetyAction, bool) {
	action := SafetyAction(strings.ToLower(strings.TrimSpace(raw)))
	switch action {
	case ActionWarning, ActionSuspend24h, ActionSuspend7d, ActionSuspend30d,
		ActionBanPermanent, ActionContentRemoved, ActionProfileHidden, ActionNoAction:
		return action, true
	default:
		return "", false
	}
}

// Punitive reports whether the action touches the reported user at all.
// Punitive actions close a report as action_taken; no_action dismisses it.
func (a SafetyAction) Punitive() bool {
	switch a {
	case ActionWarning, ActionSuspend24h, ActionSuspend7d, ActionSuspend30d,
		ActionBanPermanent, ActionContentRemoved, ActionProfileHidden:
		return true
	default:
		return false
	}
}

// SuspensionDuration returns the suspension window for the suspend actions.
func (a SafetyAction) SuspensionDuration() (time.Duration, bool) {
	switch a {
	case ActionSuspend24h:
		return 24 * time.Hour, true
	case ActionSuspend7d:
		return 7 * 24 * time.Hour, true
	case ActionSuspend30d:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}
