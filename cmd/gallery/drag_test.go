package main

import (
	"testing"

	"github.com/bodgit/gallery/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDrag(t *testing.T) {
	events, err := parseDrag("10,10:15, 18")
	require.NoError(t, err)
	assert.Equal(t, []view.Event{
		view.Down{P: view.Pt(10, 10)},
		view.Move{P: view.Pt(15, 18)},
		view.Up{},
	}, events)

	for _, s := range []string{"", "10,10", "10:15,18", "a,b:1,2", "1,2:3,4:5,6"} {
		_, err := parseDrag(s)
		assert.Error(t, err, s)
	}
}
