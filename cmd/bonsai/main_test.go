package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{name: "version", args: []string{"version"}, expectedExit: 0},
		{name: "unknown command", args: []string{"frobnicate"}, expectedExit: 1},
		{name: "missing argument", args: []string{"uninstall"}, expectedExit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BONSAI_DOWNLOAD_CACHE", t.TempDir())
			assert.Equal(t, tt.expectedExit, run(tt.args))
		})
	}
}
