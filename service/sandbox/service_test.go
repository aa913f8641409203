package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expected    string
	}{
		{
			description: "plain text",
			input:       `print("hello")`,
			expected:    `'print("hello")'`,
		},
		{
			description: "embedded single quote",
			input:       `open('x.txt').read()`,
			expected:    `'open('"'"'x.txt'"'"').read()'`,
		},
		{
			description: "empty",
			input:       "",
			expected:    "''",
		},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, shellQuote(testCase.input), testCase.description)
	}
}

func TestHost(t *testing.T) {
	host := &Host{}
	host.Init()
	assert.True(t, host.IsLocal())

	remote := &Host{URL: "ssh://build01.example.com/"}
	remote.Init()
	assert.False(t, remote.IsLocal())
}

func TestNewDefaults(t *testing.T) {
	svc := New()
	assert.Equal(t, DefaultTimeout, svc.timeout)
	assert.Equal(t, DefaultMemoryMB, svc.memoryMB)
	assert.Equal(t, DefaultCodeRunner, svc.interpreter)
	assert.Equal(t, "./sandbox_workspace", svc.workspace)
	// Close before any call is a no-op
	assert.NoError(t, svc.Close())
	assert.NoError(t, svc.Close())
}
