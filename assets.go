package mdpress

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var reImageRef = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// ResolveAssets scans content for image references with relative paths,
// copies each referenced file from sourceDir into destDir under
// "{namePrefix}_{basename}" so copies from different posts cannot collide,
// and rewrites the reference to "{urlPrefix}/{new name}". Rewriting replaces
// the exact matched substring, never byte offsets, so earlier replacements
// cannot corrupt later ones. A missing or uncopyable image produces a
// warning and leaves its reference untouched; the caller's raw bytes are
// never modified.
func ResolveAssets(content, sourceDir, destDir, namePrefix, urlPrefix string) (string, []CopiedAsset, []string) {
	var copied []CopiedAsset
	var warnings []string

	seen := make(map[string]bool)
	for _, m := range reImageRef.FindAllStringSubmatch(content, -1) {
		full, alt, ref := m[0], m[1], m[2]
		if seen[full] || !isRelativeRef(ref) {
			continue
		}
		seen[full] = true

		rel := strings.TrimPrefix(ref, "./")
		src := filepath.Join(sourceDir, filepath.FromSlash(rel))
		if info, err := os.Stat(src); err != nil || info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("image not found: %s", src))
			continue
		}

		destName := namePrefix + "_" + filepath.Base(src)
		destPath := filepath.Join(destDir, destName)
		if err := copyFile(src, destPath); err != nil {
			warnings = append(warnings, fmt.Sprintf("copy image %s: %v", ref, err))
			continue
		}

		asset := CopiedAsset{Source: ref, Dest: destPath}
		if w, h, err := probeImage(destPath); err != nil {
			warnings = append(warnings, fmt.Sprintf("image %s is not decodable: %v", destName, err))
		} else {
			asset.Width, asset.Height = w, h
		}
		copied = append(copied, asset)

		content = strings.ReplaceAll(content, full, "!["+alt+"]("+urlPrefix+"/"+destName+")")
	}
	return content, copied, warnings
}

// isRelativeRef reports whether ref is a relative filesystem path rather than
// an absolute path or a URL.
func isRelativeRef(ref string) bool {
	if filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		return false
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") {
		return false
	}
	return true
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

// probeImage decodes only the header of the copied file to record its pixel
// dimensions. The x/image imports register webp, bmp and tiff on top of the
// stdlib formats.
func probeImage(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
