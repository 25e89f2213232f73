package utils_test

import (
	"testing"

	"github.com/openmusic/openmusic-api/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	require.Equal(t, "", utils.Value[string](nil))
	require.Equal(t, 0, utils.Value[int](nil))
	require.Equal(t, "album-1", utils.Value(utils.Ptr("album-1")))
}

func TestPtr_Copies(t *testing.T) {
	v := 235
	p := utils.Ptr(v)
	v = 1
	require.Equal(t, 235, *p)
}
