package main

import (
	"flag"
	"fmt"
	"os"
)

const (
	// Порт исходного сервера резюме.
	defaultServerPort = "5001"
	// Каталог загрузок фотографий по умолчанию.
	defaultUploadsDir = "uploads"
	// Бэкенд хранения фотографий по умолчанию.
	defaultPhotoStorage = "disk"

	// Переменные окружения.
	envServerPort   = "SERVER_PORT"
	envDataFile     = "CV_DATA_FILE"
	envUploadsDir   = "UPLOADS_DIR"
	envPhotoStorage = "PHOTO_STORAGE"
)

// config хранит конфигурацию сервера.
type config struct {
	Port         string
	DataFile     string // путь к файлу данных; пусто — коллекция только в памяти
	UploadsDir   string
	PhotoStorage string // "disk" или "minio"
}

// parseFlags разбирает флаги и переменные окружения, возвращает config или ошибку.
func parseFlags() (*config, error) {
	cfg := &config{}

	// Определяем флаги
	flag.StringVar(&cfg.Port, "port", "",
		fmt.Sprintf("Порт для запуска HTTP-сервера (env: %s, default: %s)", envServerPort, defaultServerPort))
	flag.StringVar(&cfg.DataFile, "data-file", "",
		fmt.Sprintf("Путь к JSON-файлу данных; пусто — хранение только в памяти (env: %s)", envDataFile))
	flag.StringVar(&cfg.UploadsDir, "uploads-dir", "",
		fmt.Sprintf("Каталог для файлов фотографий (env: %s, default: %s)", envUploadsDir, defaultUploadsDir))
	flag.StringVar(&cfg.PhotoStorage, "photo-storage", "",
		fmt.Sprintf("Бэкенд хранения фотографий: disk или minio (env: %s, default: %s)",
			envPhotoStorage, defaultPhotoStorage))

	// Парсим флаги
	flag.Parse()

	// Применяем переменные окружения, если флаги не заданы
	if cfg.Port == "" {
		if value, ok := os.LookupEnv(envServerPort); ok {
			cfg.Port = value
		} else {
			cfg.Port = defaultServerPort
		}
	}
	if cfg.DataFile == "" {
		if value, ok := os.LookupEnv(envDataFile); ok {
			cfg.DataFile = value
		}
	}
	if cfg.UploadsDir == "" {
		if value, ok := os.LookupEnv(envUploadsDir); ok {
			cfg.UploadsDir = value
		} else {
			cfg.UploadsDir = defaultUploadsDir
		}
	}
	if cfg.PhotoStorage == "" {
		if value, ok := os.LookupEnv(envPhotoStorage); ok {
			cfg.PhotoStorage = value
		} else {
			cfg.PhotoStorage = defaultPhotoStorage
		}
	}

	// Проверяем допустимость бэкенда фотографий
	if cfg.PhotoStorage != "disk" && cfg.PhotoStorage != "minio" {
		return nil, fmt.Errorf("недопустимый бэкенд хранения фотографий '%s' (ожидается disk или minio)",
			cfg.PhotoStorage)
	}

	return cfg, nil
}
