package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIsSortable(t *testing.T) {
	a := New()
	b := New()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}

func TestLocal(t *testing.T) {
	l := NewLocal()
	assert.True(t, IsLocal(l))
	assert.False(t, IsLocal(New()))

	_, ok := Time(l)
	assert.False(t, ok)
}

func TestTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, ok := Time(New())
	assert.True(t, ok)
	assert.True(t, ts.After(before))
}
