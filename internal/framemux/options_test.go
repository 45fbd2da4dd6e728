package framemux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestPortOptionsNormalizeDefaults(t *testing.T) {
	opts, err := PortOptions{}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, 230400, opts.BaudRate)
	assert.Equal(t, 8, opts.DataBits)
	assert.Equal(t, 1, opts.StopBits)
	assert.Equal(t, "N", opts.Parity)
}

func TestPortOptionsNormalizeParity(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "N", false},
		{"n", "N", false},
		{"none", "N", false},
		{"EVEN", "E", false},
		{"odd", "O", false},
		{" e ", "E", false},
		{"mark", "", true},
	}

	for _, tt := range tests {
		opts, err := PortOptions{Parity: tt.in}.Normalize()
		if tt.wantErr {
			assert.Error(t, err, "parity %q", tt.in)
			continue
		}
		require.NoError(t, err, "parity %q", tt.in)
		assert.Equal(t, tt.want, opts.Parity, "parity %q", tt.in)
	}
}

func TestPortOptionsNormalizeInvalid(t *testing.T) {
	_, err := PortOptions{DataBits: 4}.Normalize()
	assert.Error(t, err)

	_, err = PortOptions{StopBits: 3}.Normalize()
	assert.Error(t, err)
}

func TestPortOptionsSerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 115200, Parity: "even"}.SerialMode()
	require.NoError(t, err)

	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.EvenParity, mode.Parity)
	assert.Equal(t, serial.StopBits(1), mode.StopBits)
}
