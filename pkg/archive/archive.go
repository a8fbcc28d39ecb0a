// Package archive packages a plugin source tree into a versioned tar.gz
// release artifact, excluding dependency caches, version-control metadata,
// and lockfiles.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const lockfileSuffix = "package-lock.json"

type BuildResult struct {
	ArchiveName string
	ArchivePath string
	Members     int
	SizeBytes   int64
}

type ArchiveInfo struct {
	Name      string
	SizeBytes int64
}

// NormalizeVersion ensures the version carries a "v" prefix, so both
// "1.0.3" and "v1.0.3" produce the same archive name.
func NormalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return version
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Excluded reports whether a path (relative, slash-separated) must be left
// out of the archive: anything under a node_modules or .git directory, and
// any lockfile artifact by exact filename suffix.
func Excluded(relPath string) bool {
	for _, part := range strings.Split(relPath, "/") {
		if part == "node_modules" || part == ".git" {
			return true
		}
	}
	return strings.HasSuffix(relPath, lockfileSuffix)
}

// Build walks sourceDir and writes {name}-{version}.tar.gz into outDir, with
// name as the root directory inside the archive. A partial archive is
// removed on any failure; only one new file is ever created, so no further
// rollback is needed.
func Build(sourceDir, name, version, outDir string) (*BuildResult, error) {
	version = NormalizeVersion(version)
	if name == "" || version == "" {
		return nil, fmt.Errorf("both name and version are required")
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("plugin directory %q does not exist", sourceDir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", sourceDir)
	}

	archiveName := fmt.Sprintf("%s-%s.tar.gz", name, version)
	archivePath := filepath.Join(outDir, archiveName)

	f, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}

	if err := writeTarGz(f, sourceDir, name); err != nil {
		f.Close()
		os.Remove(archivePath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(archivePath)
		return nil, fmt.Errorf("close archive: %w", err)
	}

	members, err := Members(archivePath)
	if err != nil {
		return nil, fmt.Errorf("verify archive: %w", err)
	}
	st, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	return &BuildResult{
		ArchiveName: archiveName,
		ArchivePath: archivePath,
		Members:     len(members),
		SizeBytes:   st.Size(),
	}, nil
}

func writeTarGz(w io.Writer, sourceDir, arcRoot string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	err := filepath.WalkDir(sourceDir, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		arcPath := path.Join(arcRoot, filepath.ToSlash(rel))
		if rel != "." && Excluded(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = arcPath
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		tw.Close()
		gz.Close()
		return fmt.Errorf("pack %s: %w", sourceDir, err)
	}

	if err := tw.Close(); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// Members returns the sorted member names of an existing archive.
func Members(archivePath string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var names []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, strings.TrimSuffix(hdr.Name, "/"))
	}
	sort.Strings(names)
	return names, nil
}

// ListArchives returns the tar.gz files in dir, sorted by name.
func ListArchives(dir string) ([]ArchiveInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []ArchiveInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tar.gz") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, ArchiveInfo{Name: e.Name(), SizeBytes: fi.Size()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListSourceDirs returns candidate plugin directories in dir: non-hidden
// directories, sorted by name.
func ListSourceDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}
