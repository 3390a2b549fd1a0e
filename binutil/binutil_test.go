package binutil_test

import (
	"testing"

	"github.com/ntfsutils/mftwalk/binutil"
	"github.com/stretchr/testify/assert"
)

func TestIsOnlyZeroesYes(t *testing.T) {
	assert.True(t, binutil.IsOnlyZeroes([]byte{0, 0, 0, 0, 0, 0}))
}

func TestIsOnlyZeroesNo(t *testing.T) {
	assert.False(t, binutil.IsOnlyZeroes([]byte{0, 0, 0, 0, 0, 1}))
}
