package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bodgit/gallery/view"
)

func parsePoint(s string) (view.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return view.Point{}, fmt.Errorf("invalid point %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return view.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return view.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return view.Pt(x, y), nil
}

// parseDrag turns "x0,y0:x1,y1" into a down, move and up gesture.
func parseDrag(s string) ([]view.Event, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid drag %q", s)
	}
	start, err := parsePoint(parts[0])
	if err != nil {
		return nil, err
	}
	end, err := parsePoint(parts[1])
	if err != nil {
		return nil, err
	}
	return []view.Event{view.Down{P: start}, view.Move{P: end}, view.Up{}}, nil
}
