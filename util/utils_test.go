package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointers(t *testing.T) {
	s := StringPtr("a")
	*s = "b"
	assert.Equal(t, "b", *StringPtr(*s))
	assert.Equal(t, 3, *IntPtr(3))
	assert.True(t, *BoolPtr(true))
}
