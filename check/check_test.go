package check

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
)

const (
	validClass   = "public class Hello { public void greet() { System.debug('hi'); } }"
	brokenClass  = "public class Hello {"
	validTrigger = "trigger AccountTrigger on Account (before insert) { System.debug('x'); }"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestChecker(opts ...Option) (*Checker, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	opts = append([]Option{WithOutput(&out), WithErrorOutput(&errOut)}, opts...)
	return New(opts...), &out, &errOut
}

func TestCheckValidTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "classes", "Hello.cls"), validClass)
	writeFile(t, filepath.Join(root, "triggers", "AccountTrigger.trigger"), validTrigger)
	writeFile(t, filepath.Join(root, "README.md"), "not apex")

	c, out, errOut := newTestChecker()
	result := c.Check(context.Background(), root)

	assert.Equal(t, StatusOK, result.Status)
	assert.Empty(t, result.Errors)
	assert.Equal(t, map[string]int{".cls": 1, ".trigger": 1}, result.Parsed)
	assert.Empty(t, errOut.String())
	assert.Equal(t,
		fmt.Sprintf("Parsed 1 '.cls' files in: %s\nParsed 1 '.trigger' files in: %s\n", root, root),
		out.String())
}

func TestCheckReportsSyntaxErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "classes", "Hello.cls"), brokenClass)

	c, out, errOut := newTestChecker()
	result := c.Check(context.Background(), root)

	assert.Equal(t, StatusOK, result.Status)
	require.Len(t, result.Errors, 1)
	rel := filepath.Join("classes", "Hello.cls")
	assert.Equal(t, parser.SyntaxError{
		Column:  20,
		Line:    1,
		Message: "missing '}' at '<EOF>'",
		Path:    rel,
	}, result.Errors[0])

	var record parser.SyntaxError
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &record))
	assert.Equal(t, result.Errors[0], record)
	assert.Contains(t, out.String(), "Found 1 syntax errors in: "+rel+"\n")
}

func TestCheckMissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	c, out, _ := newTestChecker()
	result := c.Check(context.Background(), missing)

	assert.Equal(t, StatusPathNotFound, result.Status)
	assert.Equal(t, "Path does not exist, aborting: "+missing+"\n", out.String())

	_, err := c.Run(context.Background(), missing)
	assert.ErrorIs(t, err, ErrPathNotFound)
	assert.Equal(t, StatusPathNotFound, StatusOf(err))
}

func TestCheckFileIsNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Hello.cls")
	writeFile(t, file, validClass)

	c, out, _ := newTestChecker()
	result := c.Check(context.Background(), file)

	assert.Equal(t, StatusFailed, result.Status)
	assert.True(t, strings.HasPrefix(out.String(), "Error processing: "+file+"\n"))
}

func TestCheckExcludePattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "classes", "Hello.cls"), validClass)
	writeFile(t, filepath.Join(root, "legacy", "broken", "Old.cls"), brokenClass)
	writeFile(t, filepath.Join(root, ".apexcheck.yaml"), "exclude:\n  - \"legacy/**\"\n")

	c, _, _ := newTestChecker()
	result := c.Check(context.Background(), root)

	assert.Equal(t, StatusOK, result.Status)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Parsed[".cls"])
}

func TestCheckAnonymousExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "scripts", "ok.apex"), "Integer x = 1;\nSystem.debug(x);")
	writeFile(t, filepath.Join(root, "scripts", "bad.apex"), "Integer x = ;")
	writeFile(t, filepath.Join(root, ".apexcheck.toml"), "anonymous = [\"apex\"]\nconcurrency = 2\n")

	c, out, _ := newTestChecker()
	result := c.Check(context.Background(), root)

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, 2, result.Parsed[".apex"])
	require.NotEmpty(t, result.Errors)
	for _, e := range result.Errors {
		assert.Equal(t, filepath.Join("scripts", "bad.apex"), e.Path)
	}
	assert.Contains(t, out.String(), "Parsed 2 '.apex' files in: ")
}

func TestCheckInvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".apexcheck.yaml"), "include:\n  - \"[\"\n")

	c, out, _ := newTestChecker()
	result := c.Check(context.Background(), root)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, out.String(), "invalid pattern")
}

func TestCheckManyFilesKeepsOrder(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 12; i++ {
		writeFile(t, filepath.Join(root, fmt.Sprintf("C%02d.cls", i)), brokenClass)
	}

	c, _, _ := newTestChecker(WithConfig(Config{Concurrency: 3}))
	result := c.Check(context.Background(), root)

	require.Len(t, result.Errors, 12)
	for i, e := range result.Errors {
		assert.Equal(t, fmt.Sprintf("C%02d.cls", i), e.Path)
	}
}

func TestCheckCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Hello.cls"), validClass)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _, _ := newTestChecker()
	result := c.Check(ctx, root)
	assert.Equal(t, StatusFailed, result.Status)
}

func TestCheckProjectPackages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sfdx-project.json"),
		`{"packageDirectories":[{"path":"force-app","default":true},{"path":"unpackaged"}]}`)
	writeFile(t, filepath.Join(root, "force-app", "classes", "Hello.cls"), brokenClass)
	writeFile(t, filepath.Join(root, "unpackaged", "triggers", "T.trigger"), validTrigger)
	writeFile(t, filepath.Join(root, "scripts", "Ignored.cls"), brokenClass)

	c, out, _ := newTestChecker()
	results := c.CheckProject(context.Background(), root)

	require.Len(t, results, 2)
	name := filepath.Base(root)

	assert.Equal(t, name, results[0].Name)
	assert.Equal(t, "force-app", results[0].Package)
	assert.Equal(t, "force-app", results[0].Path)
	assert.Len(t, results[0].Errors, 1)

	assert.Equal(t, "unpackaged", results[1].Path)
	assert.Empty(t, results[1].Errors)
	assert.Equal(t, 1, results[1].Parsed[".trigger"])

	assert.Equal(t, StatusOK, MaxStatus(results))
	assert.Contains(t, out.String(), fmt.Sprintf("[%s]: Checking package \"force-app\"\n", name))
	assert.NotContains(t, out.String(), "Ignored.cls")
}

func TestCheckProjectMissingPackage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sfdx-project.json"),
		`{"packageDirectories":[{"path":"force-app"},{"path":"gone"}]}`)
	writeFile(t, filepath.Join(root, "force-app", "Hello.cls"), validClass)

	c, _, _ := newTestChecker()
	results := c.CheckProject(context.Background(), root)

	require.Len(t, results, 2)
	assert.Equal(t, StatusOK, results[0].Status)
	assert.Equal(t, StatusPathNotFound, results[1].Status)
	assert.Equal(t, StatusPathNotFound, MaxStatus(results))
}

func TestCheckProjectFallsBackToTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "Hello.cls"), validClass)

	c, out, _ := newTestChecker()
	results := c.CheckProject(context.Background(), root)

	require.Len(t, results, 1)
	assert.Equal(t, ".", results[0].Path)
	assert.Equal(t, 1, results[0].Parsed[".cls"])
	assert.True(t, strings.HasPrefix(out.String(),
		fmt.Sprintf("[%s]: No valid SFDX project, checking all cls & trigger files\n", filepath.Base(root))))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusOK, StatusOf(nil))
	assert.Equal(t, StatusPathNotFound, StatusOf(fmt.Errorf("x: %w", ErrPathNotFound)))
	assert.Equal(t, StatusFailed, StatusOf(assert.AnError))
}
