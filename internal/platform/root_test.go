package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NUMNIMx/noteflow/pkg/adapters/fs"
)

func TestFindRoot(t *testing.T) {
	// /tmp/
	//   project/ (.noteflow/)
	//     subdir/
	//       nested/
	//   plain/ (noteflow_state.json)
	//   empty/

	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	plainDir := filepath.Join(baseDir, "plain")
	emptyDir := filepath.Join(baseDir, "empty")

	for _, d := range []string{nestedDir, plainDir, emptyDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(projectDir, MarkerDir), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(plainDir, fs.FileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{
			name:      "Marker Directory",
			startPath: projectDir,
			wantRoot:  filepath.Join(projectDir, MarkerDir),
		},
		{
			name:      "Start Nested Deeply",
			startPath: nestedDir,
			wantRoot:  filepath.Join(projectDir, MarkerDir),
		},
		{
			name:      "State File",
			startPath: plainDir,
			wantRoot:  plainDir,
		},
		{
			name:      "No Root Found",
			startPath: emptyDir,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != "" && filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	if got := ResolveDataDir("/explicit", "/fallback"); got != "/explicit" {
		t.Errorf("explicit dir ignored: %s", got)
	}
}
