package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"VoiceLedger/internal/config"

	"github.com/stretchr/testify/assert"
)

func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := Out
	buf := &bytes.Buffer{}
	Out = buf
	t.Cleanup(func() { Out = old })
	return buf
}

func testConfig() *config.Config {
	return &config.Config{ServerURL: "http://localhost:8081"}
}

func TestDispatch_NoArgsShowsUsage(t *testing.T) {
	buf := captureOut(t)
	code := Dispatch(context.Background(), testConfig(), nil)
	assert.Equal(t, 2, code)
	assert.Contains(t, buf.String(), "VoiceLedger CLI")
	assert.Contains(t, buf.String(), "Commands:")
}

func TestDispatch_UnknownCommand(t *testing.T) {
	buf := captureOut(t)
	code := Dispatch(context.Background(), testConfig(), []string{"frobnicate"})
	assert.Equal(t, 2, code)
	assert.Contains(t, buf.String(), "Unknown command: frobnicate")
}

func TestDispatch_HelpForCommand(t *testing.T) {
	buf := captureOut(t)
	code := Dispatch(context.Background(), testConfig(), []string{"help", "resync"})
	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "resync <id>")
}

func TestDispatch_UsageOnBadArgs(t *testing.T) {
	buf := captureOut(t)
	code := Dispatch(context.Background(), testConfig(), []string{"register"})
	assert.Equal(t, 2, code)
	assert.Contains(t, buf.String(), "Usage: register <email> <password>")
}

func TestAllCommandsRegistered(t *testing.T) {
	want := []string{"add", "delete", "list", "login", "register", "resync", "say", "set-key", "status"}
	var got []string
	for _, c := range List() {
		got = append(got, c.Name())
	}
	assert.Equal(t, want, got)
}

func TestGlobalUsageListsEveryCommand(t *testing.T) {
	usage := FormatGlobalUsage()
	for _, c := range List() {
		assert.True(t, strings.Contains(usage, c.Usage()), "usage must mention %s", c.Name())
	}
}
