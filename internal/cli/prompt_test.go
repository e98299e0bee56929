package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"uppercase", "YES\n", true},
		{"padded", "  y  \n", true},
		{"no", "no\n", false},
		{"empty line", "\n", false},
		{"closed input", "", false},
		{"anything else", "sure\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := confirm(strings.NewReader(tt.input), &out, "Overwrite?")
			assert.Equal(t, tt.expect, got)
			assert.Contains(t, out.String(), "Overwrite?")
		})
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, "csv", extensionFor("csv"))
	assert.Equal(t, "csv", extensionFor("CSV"))
	assert.Equal(t, "hdf5", extensionFor("hdf5"))
}
