package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"glass-room", "Glass Room"},
		{"mirror_hall", "Mirror Hall"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.txt",
			content: `# Scene: Pool Table
# Variant: Night
# Description: Billiard balls under a single lamp
# Group: Tabletop

cam 0 10 -2 0 -100 -4 0 1 0 1.4 1
`,
			expected: SceneInfo{
				ID:          "file:complete_metadata",
				Name:        "Pool Table",
				DisplayName: "Pool Table - Night",
				Description: "Billiard balls under a single lamp",
				Group:       "Tabletop",
				Type:        "file",
			},
		},
		{
			name: "partial_metadata.txt",
			content: `# Scene: Glass Room
# Description: Transparent spheres

set 0 0 0 4 5`,
			expected: SceneInfo{
				ID:          "file:partial_metadata",
				Name:        "Glass Room",
				DisplayName: "Glass Room",
				Description: "Transparent spheres",
				Group:       FileGroup,
				Type:        "file",
			},
		},
		{
			name:    "no_metadata.txt",
			content: `sph 0 0 0 1 1`,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       FileGroup,
				Type:        "file",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write temp file: %v", err)
			}

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if diff := cmp.Diff(result, tc.expected); diff != "" {
				t.Errorf("ParseSceneMetadata() mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b-scene.txt": "# Scene: Beta\n",
		"a-scene.txt": "# Scene: Alpha\n",
		"ignored.pbrt": "# Scene: Not a scene file\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	scenes, err := ListSceneFiles(dir)
	if err != nil {
		t.Fatalf("ListSceneFiles() error: %v", err)
	}

	var names []string
	for _, s := range scenes {
		names = append(names, s.DisplayName)
	}
	if diff := cmp.Diff(names, []string{"Alpha", "Beta"}); diff != "" {
		t.Errorf("ListSceneFiles() names mismatch (-got +want):\n%s", diff)
	}
}

func TestListSceneFiles_NoDirectory(t *testing.T) {
	scenes, err := ListSceneFiles("")
	if err != nil {
		t.Errorf("ListSceneFiles() error: %v", err)
	}
	if scenes == nil {
		t.Error("ListSceneFiles() returned nil, expected empty slice")
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	content := "# Scene: Lamp\n# Group: Interiors\n"
	if err := os.WriteFile(filepath.Join(dir, "lamp.txt"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	var groupNames []string
	for _, group := range response.Groups {
		groupNames = append(groupNames, group.Name)
	}
	if diff := cmp.Diff(groupNames, []string{BuiltinGroup, "Interiors"}); diff != "" {
		t.Errorf("group order mismatch (-got +want):\n%s", diff)
	}

	var builtinIDs []string
	for _, s := range response.Groups[0].Scenes {
		builtinIDs = append(builtinIDs, s.ID)
	}
	if diff := cmp.Diff(builtinIDs, []string{"default", "mirror", "shadow"}); diff != "" {
		t.Errorf("built-in scenes mismatch (-got +want):\n%s", diff)
	}
}
