// Package pluginfs is the filesystem collaborator of the plugin lifecycle:
// per-user plugin directories are staged from a shared, version-stamped
// template tree and removed again on uninstall or failed install.
package pluginfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
)

// ManifestName is the plugin manifest staged next to the dist output.
const ManifestName = "package.json"

type Store interface {
	// UserPluginDir is the deterministic per-user path {base}/{ownerID}/{slug}.
	UserPluginDir(ownerID, slug string) string
	// SharedTemplateDir is the shared source tree path {base}/{slug}.
	SharedTemplateDir(slug string) string
	EnsureDir(path string) error
	// StageTemplate copies the template's dist/ tree and manifest into dstDir.
	StageTemplate(srcDir, dstDir string) error
	RemoveTree(path string) error
	Exists(path string) bool
}

type diskStore struct {
	base string
	log  *logger.Logger
}

func NewDiskStore(base string, baseLog *logger.Logger) Store {
	return &diskStore{base: base, log: baseLog.With("component", "PluginStore")}
}

func (s *diskStore) UserPluginDir(ownerID, slug string) string {
	return filepath.Join(s.base, ownerID, slug)
}

func (s *diskStore) SharedTemplateDir(slug string) string {
	return filepath.Join(s.base, slug)
}

func (s *diskStore) EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (s *diskStore) StageTemplate(srcDir, dstDir string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("shared template directory not found: %s", srcDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("shared template path is not a directory: %s", srcDir)
	}

	distSrc := filepath.Join(srcDir, "dist")
	if st, err := os.Stat(distSrc); err == nil && st.IsDir() {
		distDst := filepath.Join(dstDir, "dist")
		if err := os.RemoveAll(distDst); err != nil {
			return fmt.Errorf("reset dist destination: %w", err)
		}
		if err := copyTree(distSrc, distDst); err != nil {
			return fmt.Errorf("copy dist tree: %w", err)
		}
	}

	manifestSrc := filepath.Join(srcDir, ManifestName)
	if _, err := os.Stat(manifestSrc); err == nil {
		if err := copyFile(manifestSrc, filepath.Join(dstDir, ManifestName)); err != nil {
			return fmt.Errorf("copy manifest: %w", err)
		}
	}
	return nil
}

func (s *diskStore) RemoveTree(path string) error {
	return os.RemoveAll(path)
}

func (s *diskStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
