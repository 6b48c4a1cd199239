package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/highlights-vault/internal/apperr"
	"github.com/mrlokans/highlights-vault/internal/entities"
	"github.com/mrlokans/highlights-vault/internal/utils"
)

// DocumentExtension is appended to every resolved document path.
const DocumentExtension = ".md"

// Vault writes documents below a root directory. Parent directories are
// created on demand and existing files are replaced.
type Vault struct {
	root     string
	sanitize bool
}

type VaultOption func(*Vault)

// WithSanitizedNames cleans every path segment with utils.SanitizeFilename
// before writing.
func WithSanitizedNames(enabled bool) VaultOption {
	return func(v *Vault) {
		v.sanitize = enabled
	}
}

// NewVault creates the root directory if needed.
func NewVault(root string, opts ...VaultOption) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, apperr.NewIOError("resolve", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, apperr.NewIOError("create vault directory", abs, err)
	}

	vault := &Vault{root: abs}
	for _, opt := range opts {
		opt(vault)
	}
	return vault, nil
}

func (v *Vault) Root() string {
	return v.root
}

// LinkTarget returns docPath the way it names a file in the vault: slash
// separated, without the extension, and with every segment sanitized when
// sanitization is on. Wikilinks must go through it to resolve.
func (v *Vault) LinkTarget(docPath string) string {
	if !v.sanitize {
		return docPath
	}
	segments := strings.Split(filepath.ToSlash(docPath), "/")
	for i, segment := range segments {
		segments[i] = utils.SanitizeFilename(segment)
	}
	return strings.Join(segments, "/")
}

// DocumentPath returns the file path, relative to the root, that a document
// with the given resolved path is written to.
func (v *Vault) DocumentPath(docPath string) string {
	return filepath.FromSlash(v.LinkTarget(docPath)) + DocumentExtension
}

func (v *Vault) WriteDocument(doc entities.Document) error {
	return v.Write(v.DocumentPath(doc.Path), []byte(doc.Content))
}

// safePath resolves rel against the root and rejects results outside it.
func (v *Vault) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", apperr.NewIOError("write", rel, fmt.Errorf("absolute paths are not allowed"))
	}
	abs := filepath.Join(v.root, cleaned)
	if !strings.HasPrefix(abs, v.root+string(os.PathSeparator)) {
		return "", apperr.NewIOError("write", rel, fmt.Errorf("path escapes vault root"))
	}
	return abs, nil
}

// Write replaces the file at rel through a temp file and rename so readers
// never see a partially written document.
func (v *Vault) Write(rel string, content []byte) error {
	abs, err := v.safePath(rel)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.NewIOError("create directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".highlights-vault-*")
	if err != nil {
		return apperr.NewIOError("create temp file in", dir, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return apperr.NewIOError("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.NewIOError("close", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return apperr.NewIOError("chmod", tmpName, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return apperr.NewIOError("write", abs, err)
	}
	success = true
	return nil
}
