package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage реализует FileStorage поверх локального каталога загрузок.
type DiskStorage struct {
	dir string
}

var _ FileStorage = (*DiskStorage)(nil)

// NewDiskStorage создает хранилище в указанном каталоге, при необходимости создавая его.
func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога загрузок '%s': %w", dir, err)
	}
	return &DiskStorage{dir: dir}, nil
}

// resolve строит путь к файлу внутри каталога, отбрасывая компоненты пути
// из имени (защита от выхода за пределы каталога загрузок).
func (s *DiskStorage) resolve(name string) (string, error) {
	base := filepath.Base(name)
	if base != name || base == "." || base == ".." || strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("недопустимое имя файла '%s'", name)
	}
	return filepath.Join(s.dir, base), nil
}

// SaveFile записывает файл в каталог загрузок.
func (s *DiskStorage) SaveFile(
	_ context.Context,
	name string,
	reader io.Reader,
	_ int64,
	_ string,
) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка создания файла '%s': %w", name, err)
	}
	if _, err = io.Copy(f, reader); err != nil {
		_ = f.Close()
		return fmt.Errorf("ошибка записи файла '%s': %w", name, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия файла '%s': %w", name, err)
	}
	return nil
}

// OpenFile открывает файл из каталога загрузок для чтения.
// Возвращает ErrObjectNotFound, если файла нет.
func (s *DiskStorage) OpenFile(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("ошибка открытия файла '%s': %w", name, err)
	}
	return f, nil
}

// DeleteFile удаляет файл из каталога загрузок.
// Отсутствие файла не считается ошибкой: цель — чтобы файла не было.
func (s *DiskStorage) DeleteFile(_ context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла '%s': %w", name, err)
	}
	if os.IsNotExist(err) {
		log.Printf("[DiskStorage] Файл '%s' уже отсутствует", name)
	}
	return nil
}
