package domain

import (
	"errors"
	"fmt"
)

// Trigger is the kind of a heat event. Codes are stable wire and
// storage identifiers and must never be renumbered.
type Trigger int

const (
	TriggerGate      Trigger = 0
	TriggerAreaEnter Trigger = 1
	TriggerAreaExit  Trigger = 2
	TriggerCrash     Trigger = 3
	TriggerLand      Trigger = 4
	TriggerTakeoff   Trigger = 5
	TriggerArm       Trigger = 6
	TriggerDisarm    Trigger = 7
	TriggerStarted   Trigger = 8
	TriggerEnded     Trigger = 9
)

// TriggerInfo is one entry of the closed trigger catalog.
type TriggerInfo struct {
	Code            Trigger
	Label           string
	SerializerLabel string
}

// triggerCatalog is the closed set of trigger kinds. Order matches the
// numeric codes; the catalog is never extended at runtime.
var triggerCatalog = []TriggerInfo{
	{TriggerGate, "Gate Trigger", "gate"},
	{TriggerAreaEnter, "Area Entered Trigger", "enter"},
	{TriggerAreaExit, "Area Exit Trigger", "exit"},
	{TriggerCrash, "Crash Trigger", "crash"},
	{TriggerLand, "Land Trigger", "land"},
	{TriggerTakeoff, "Takeoff Trigger", "takeoff"},
	{TriggerArm, "Arm Trigger", "arm"},
	{TriggerDisarm, "Disarm Trigger", "disarm"},
	{TriggerStarted, "Start Trigger", "started"},
	{TriggerEnded, "End Trigger", "ended"},
}

var triggerBySerializerLabel = func() map[string]TriggerInfo {
	m := make(map[string]TriggerInfo, len(triggerCatalog))
	for _, t := range triggerCatalog {
		m[t.SerializerLabel] = t
	}
	return m
}()

// ErrUnknownTrigger indicates a trigger code or serializer label
// outside the closed catalog. For stored codes this is a
// data-integrity failure, not a normal case.
var ErrUnknownTrigger = errors.New("unknown trigger")

// Triggers returns the full catalog in code order.
func Triggers() []TriggerInfo {
	out := make([]TriggerInfo, len(triggerCatalog))
	copy(out, triggerCatalog)
	return out
}

// TriggerByCode resolves a stored numeric code to its catalog entry.
func TriggerByCode(code int) (TriggerInfo, error) {
	if code < 0 || code >= len(triggerCatalog) {
		return TriggerInfo{}, fmt.Errorf("%w: code %d", ErrUnknownTrigger, code)
	}
	return triggerCatalog[code], nil
}

// TriggerBySerializerLabel resolves a short machine label back to its
// catalog entry.
func TriggerBySerializerLabel(label string) (TriggerInfo, error) {
	if t, ok := triggerBySerializerLabel[label]; ok {
		return t, nil
	}
	return TriggerInfo{}, fmt.Errorf("%w: serializer label %q", ErrUnknownTrigger, label)
}

func (t Trigger) Valid() bool {
	return int(t) >= 0 && int(t) < len(triggerCatalog)
}

func (t Trigger) Label() string {
	info, err := TriggerByCode(int(t))
	if err != nil {
		return "Unknown"
	}
	return info.Label
}

func (t Trigger) SerializerLabel() string {
	info, err := TriggerByCode(int(t))
	if err != nil {
		return "unknown"
	}
	return info.SerializerLabel
}
