package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCommandTree(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "Hello.cls"), "public class Hello {}")

	out, errOut, err := run(t, newParseCmd(), "", file)
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.True(t, strings.HasPrefix(out, "CompilationUnit\n"))
	assert.Contains(t, out, "ClassDecl")
}

func TestParseCommandReportsErrors(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "Hello.cls"), "public class Hello {")

	_, errOut, err := run(t, newParseCmd(), "", "--format", "none", file)

	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.status)
	assert.Contains(t, errOut, file+":1:20: missing '}' at '<EOF>'\n")
	assert.Contains(t, errOut, "  public class Hello {\n")
	assert.Contains(t, errOut, strings.Repeat(" ", 22)+"^\n")
}

func TestParseCommandStdinEntry(t *testing.T) {
	out, _, err := run(t, newParseCmd(), "a + 1", "--entry", "expression", "--format", "json", "-")
	require.NoError(t, err)

	var decoded struct {
		Kind     string            `json:"kind"`
		Children []json.RawMessage `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "BinaryExpr", decoded.Kind)
	assert.Len(t, decoded.Children, 3)
}

func TestParseCommandTriggerByExtension(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "T.trigger"), "trigger T on Account (before insert) {}")

	out, _, err := run(t, newParseCmd(), "", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "TriggerUnit\n"))
}

func TestParseCommandUnknownEntry(t *testing.T) {
	_, _, err := run(t, newParseCmd(), "x", "--entry", "typeRef", "-")
	assert.EqualError(t, err, "unknown entry: typeRef")
}

func TestTokensCommandCount(t *testing.T) {
	out, _, err := run(t, newTokensCmd(), "public class Hello {}", "--count", "-")
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)
}

func TestTokensCommandRecognitionError(t *testing.T) {
	out, errOut, err := run(t, newTokensCmd(), "a # b", "-")

	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Contains(t, errOut, "-:1:2: token recognition error at: '#'")
	assert.Contains(t, out, "Identifier")
}

func TestCheckCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "classes", "Hello.cls"), "public class Hello {")

	out, errOut, err := run(t, newCheckCmd(), "", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 syntax errors in: "+filepath.Join("classes", "Hello.cls"))
	assert.Contains(t, errOut, `"message":"missing '}' at '<EOF>'"`)
}

func TestCheckCommandMissingPath(t *testing.T) {
	_, _, err := run(t, newCheckCmd(), "", filepath.Join(t.TempDir(), "missing"))

	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 2, exit.status)
}

func TestCheckCommandProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sfdx-project.json"), `{"packageDirectories":[{"path":"force-app"}]}`)
	writeFile(t, filepath.Join(root, "force-app", "A.cls"), "public class A {}")

	out, _, err := run(t, newCheckCmd(), "", "--project", "--jobs", "2", root)
	require.NoError(t, err)
	assert.Contains(t, out, `Checking package "force-app"`)
	assert.Contains(t, out, "Parsed 1 '.cls' files in: "+filepath.Join(root, "force-app"))
}
