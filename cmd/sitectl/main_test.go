package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdata = "../../internal/content/testdata"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSitemapCommand(t *testing.T) {
	out, err := run(t, "sitemap", "--dir", testdata, "--base-url", "https://roof.test/")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "https://roof.test/", lines[0])
	assert.Contains(t, lines, "https://roof.test/services")
}

func TestValidateReportsIssues(t *testing.T) {
	out, err := run(t, "validate", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "business.json: name is empty")
}

func TestSitemapRequiresBaseURL(t *testing.T) {
	_, err := run(t, "sitemap", "--dir", t.TempDir())
	require.Error(t, err)
}
