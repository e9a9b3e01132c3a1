package serialport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Normalize_FillsDefaults(t *testing.T) {
	t.Parallel()

	got, err := Options{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), got)
}

func TestOptions_Normalize_RejectsInvalid(t *testing.T) {
	t.Parallel()

	cases := []Options{
		{BaudRate: -1},
		{BaudRate: 9600, DataBits: 3},
		{BaudRate: 9600, DataBits: 8, StopBits: 3},
		{BaudRate: 9600, DataBits: 8, StopBits: 1, Parity: "bogus"},
	}
	for _, o := range cases {
		_, err := o.Normalize()
		assert.Error(t, err)
	}
}

func TestOptions_Mode_Converts(t *testing.T) {
	t.Parallel()

	mode, err := Options{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "none"}.Mode()
	require.NoError(t, err)
	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
}
