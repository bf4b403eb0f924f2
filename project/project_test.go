package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const descriptorJSON = `{
  "name": "sales",
  "packageDirectories": [
    {"path": "force-app", "default": true},
    {"path": "libs\\common", "package": "common"},
    {"package": "no-path"}
  ]
}`

func TestLoadFromRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), descriptorJSON)

	proj, err := LoadFrom(root)
	require.NoError(t, err)

	assert.Equal(t, "sales", proj.Name)
	assert.Equal(t, root, proj.RootDir)
	require.Len(t, proj.Packages, 2)

	assert.Equal(t, "force-app", proj.Packages[0].Path)
	assert.True(t, proj.Packages[0].Default)
	assert.Equal(t, filepath.Join(root, "force-app"), proj.Packages[0].Dir)

	assert.Equal(t, "libs/common", proj.Packages[1].Path)
	assert.Equal(t, "common", proj.Packages[1].Name)
	assert.Equal(t, filepath.Join(root, "libs", "common"), proj.Packages[1].Dir)
	assert.Same(t, proj, proj.Packages[1].Project)
}

func TestLoadFromOneLevelDown(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "repo", FileName), `{"packageDirectories":[{"path":"src"}]}`)

	proj, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "repo"), proj.RootDir)
	assert.Equal(t, "repo", proj.Name)
	assert.Equal(t, filepath.Join(root, "repo", "src"), proj.DefaultPackage().Dir)
}

func TestLoadFromTooDeep(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", FileName), `{}`)

	_, err := LoadFrom(root)
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestFindIgnoresDotDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".sfdx", FileName), `{}`)

	_, ok := Find(root, 1)
	assert.False(t, ok)
}

func TestReadInvalidJSON(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, FileName)
	writeFile(t, file, `{"packageDirectories": [`)

	_, err := Read(file)
	assert.Error(t, err)
}

func TestProjectLookups(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), descriptorJSON)
	proj, err := LoadFrom(root)
	require.NoError(t, err)

	assert.Equal(t, "common", proj.Package(`libs\common`).Name)
	assert.Nil(t, proj.Package("missing"))

	assert.True(t, proj.Contains(filepath.Join(root, "force-app", "main", "A.cls")))
	assert.True(t, proj.Contains(filepath.Join(root, "force-app")))
	assert.False(t, proj.Contains(filepath.Join(root, "scripts", "B.apex")))
}

func TestDefaultPackageWithoutDefault(t *testing.T) {
	proj := &Project{Packages: []*Package{{Path: "a"}, {Path: "b"}}}
	assert.Equal(t, "a", proj.DefaultPackage().Path)
	assert.Nil(t, (&Project{}).DefaultPackage())
}
