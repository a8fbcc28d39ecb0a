package pluginfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
)

func newTestStore(t *testing.T) (Store, string) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	base := t.TempDir()
	return NewDiskStore(base, log), base
}

func seedTemplate(t *testing.T, base, slug string) string {
	t.Helper()
	dir := filepath.Join(base, slug)
	if err := os.MkdirAll(filepath.Join(dir, "dist", "assets"), 0o755); err != nil {
		t.Fatalf("mkdir template: %v", err)
	}
	files := map[string]string{
		filepath.Join(dir, "dist", "remoteEntry.js"):      "export {};\n",
		filepath.Join(dir, "dist", "assets", "index.css"): "body {}\n",
		filepath.Join(dir, ManifestName):                  `{"name":"x"}`,
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}

func TestStageTemplateCopiesDistTreeAndManifest(t *testing.T) {
	store, base := newTestStore(t)
	src := seedTemplate(t, base, "OpenAIConnector")

	dst := store.UserPluginDir("owner-1", "OpenAIConnector")
	if err := store.EnsureDir(dst); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := store.StageTemplate(src, dst); err != nil {
		t.Fatalf("StageTemplate: %v", err)
	}

	for _, rel := range []string{
		filepath.Join("dist", "remoteEntry.js"),
		filepath.Join("dist", "assets", "index.css"),
		ManifestName,
	} {
		if !store.Exists(filepath.Join(dst, rel)) {
			t.Fatalf("staged tree missing %s", rel)
		}
	}

	got, err := os.ReadFile(filepath.Join(dst, "dist", "remoteEntry.js"))
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(got) != "export {};\n" {
		t.Fatalf("staged file content mismatch: %q", got)
	}
}

func TestStageTemplateFailsWhenTemplateMissing(t *testing.T) {
	store, base := newTestStore(t)

	dst := store.UserPluginDir("owner-1", "OpenAIConnector")
	if err := store.EnsureDir(dst); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := store.StageTemplate(filepath.Join(base, "NoSuchPlugin"), dst); err == nil {
		t.Fatalf("expected error for missing template directory")
	}
}

func TestUserPluginDirLayout(t *testing.T) {
	store, base := newTestStore(t)

	want := filepath.Join(base, "owner-1", "OpenAIConnector")
	if got := store.UserPluginDir("owner-1", "OpenAIConnector"); got != want {
		t.Fatalf("UserPluginDir: want=%q got=%q", want, got)
	}
	if got := store.SharedTemplateDir("OpenAIConnector"); got != filepath.Join(base, "OpenAIConnector") {
		t.Fatalf("SharedTemplateDir: got=%q", got)
	}
}

func TestRemoveTreeAndExists(t *testing.T) {
	store, base := newTestStore(t)
	dir := seedTemplate(t, base, "OpenAIConnector")

	if !store.Exists(dir) {
		t.Fatalf("Exists must see the seeded directory")
	}
	if err := store.RemoveTree(dir); err != nil {
		t.Fatalf("RemoveTree: %v", err)
	}
	if store.Exists(dir) {
		t.Fatalf("directory must be gone after RemoveTree")
	}
	// Removing an already-removed tree is not an error.
	if err := store.RemoveTree(dir); err != nil {
		t.Fatalf("RemoveTree (idempotent): %v", err)
	}
}
