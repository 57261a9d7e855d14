package fsxlocal

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/fsx"
)

// LocalFileSystem implementación sobre el disco local
type LocalFileSystem struct {
	basePath string
}

// NewLocalFileSystem crea un file system anclado en basePath (lo crea si no existe)
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, errx.Wrap(err, "failed to resolve base path", errx.TypeInternal)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errx.Wrap(err, "failed to create base directory", errx.TypeInternal)
	}
	return &LocalFileSystem{basePath: abs}, nil
}

func (l *LocalFileSystem) GetBasePath() string {
	return l.basePath
}

// resolve valida que el path no escape del directorio base
func (l *LocalFileSystem) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	full := filepath.Join(l.basePath, clean)
	if !strings.HasPrefix(full, l.basePath) {
		return "", fsx.ErrInvalidPath().WithDetail("path", path)
	}
	return full, nil
}

func (l *LocalFileSystem) Read(ctx context.Context, path string) ([]byte, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fsx.ErrFileNotFound().WithDetail("path", path)
		}
		return nil, errx.Wrap(err, "failed to read file", errx.TypeInternal).WithDetail("path", path)
	}
	return data, nil
}

func (l *LocalFileSystem) Write(ctx context.Context, path string, data []byte) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errx.Wrap(err, "failed to create parent directory", errx.TypeInternal).WithDetail("path", path)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return errx.Wrap(err, "failed to write file", errx.TypeInternal).WithDetail("path", path)
	}
	return nil
}

func (l *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errx.Wrap(err, "failed to stat file", errx.TypeInternal).WithDetail("path", path)
	}
	return true, nil
}

func (l *LocalFileSystem) Delete(ctx context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return fsx.ErrFileNotFound().WithDetail("path", path)
		}
		return errx.Wrap(err, "failed to delete file", errx.TypeInternal).WithDetail("path", path)
	}
	return nil
}

func (l *LocalFileSystem) List(ctx context.Context, prefix string) ([]string, error) {
	root, err := l.resolve(prefix)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.basePath, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to list files", errx.TypeInternal).WithDetail("prefix", prefix)
	}
	return paths, nil
}
