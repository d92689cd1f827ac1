package booking

import (
	"fmt"
	"time"
)

// SlotGrid is the clinic's fixed set of bookable times for any working day.
type SlotGrid struct {
	open     int // minutes from midnight, inclusive
	close    int // minutes from midnight, exclusive
	interval int // minutes per slot
}

// NewSlotGrid builds the grid from "HH:MM" bounds and a slot interval.
func NewSlotGrid(openTime, closeTime string, interval time.Duration) (SlotGrid, error) {
	open, err := parseClockMinutes(openTime)
	if err != nil {
		return SlotGrid{}, fmt.Errorf("parse open time: %w", err)
	}
	closeM, err := parseClockMinutes(closeTime)
	if err != nil {
		return SlotGrid{}, fmt.Errorf("parse close time: %w", err)
	}
	step := int(interval.Minutes())
	if step <= 0 {
		return SlotGrid{}, fmt.Errorf("slot interval %s too small", interval)
	}
	if closeM <= open {
		return SlotGrid{}, fmt.Errorf("close time %s is not after open time %s", closeTime, openTime)
	}
	return SlotGrid{open: open, close: closeM, interval: step}, nil
}

// Times returns every slot in chronological order.
func (g SlotGrid) Times() []string {
	var out []string
	for m := g.open; m < g.close; m += g.interval {
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}

// Contains reports whether t ("HH:MM") is a valid slot on the grid.
func (g SlotGrid) Contains(t string) bool {
	m, err := parseClockMinutes(t)
	if err != nil {
		return false
	}
	return m >= g.open && m < g.close && (m-g.open)%g.interval == 0
}

// Available subtracts booked times from the grid, preserving order.
func (g SlotGrid) Available(booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	all := g.Times()
	out := make([]string, 0, len(all))
	for _, t := range all {
		if _, ok := taken[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

func parseClockMinutes(v string) (int, error) {
	t, err := time.Parse(TimeFormat, v)
	if err != nil {
		return 0, fmt.Errorf("%q is not HH:MM", v)
	}
	return t.Hour()*60 + t.Minute(), nil
}
