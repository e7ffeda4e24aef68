package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFiles creates each named file under dir with placeholder content and
// returns dir. Batch tests pair these with a fake QR reader keyed by name.
func WriteFiles(t testing.TB, dir string, names ...string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}
