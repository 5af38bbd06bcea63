package storage

import (
	"context"
	"errors"
	"io"
)

// FileStorage определяет интерфейс хранилища бинарных файлов фотографий.
// Реализации: локальный каталог загрузок (по умолчанию) и S3-совместимое
// хранилище MinIO.
type FileStorage interface {
	SaveFile(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error
	OpenFile(ctx context.Context, name string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, name string) error
}

// Кастомная ошибка хранилища.
var (
	ErrObjectNotFound = errors.New("объект не найден в хранилище")
)
