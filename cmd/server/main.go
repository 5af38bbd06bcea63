package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/maynagashev/cvbuilder/internal/handlers"
	"github.com/maynagashev/cvbuilder/internal/repository"
	"github.com/maynagashev/cvbuilder/internal/services"
	"github.com/maynagashev/cvbuilder/internal/storage"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 30 * time.Second

	// Переменные окружения для MinIO (используются при -photo-storage=minio).
	envMinioEndpoint     = "MINIO_ENDPOINT"
	envMinioUser         = "MINIO_USER"
	envMinioPassword     = "MINIO_PASSWORD"
	envMinioBucket       = "MINIO_BUCKET"
	defaultMinioEndpoint = "localhost:9000"
	defaultMinioUser     = "minioadmin"
	defaultMinioPassword = "minioadmin"
	defaultMinioBucket   = "cvbuilder-photos"
	minioUseSSL          = false // Для локальной разработки
)

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Printf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	log.Println("Запуск сервера резюме...")

	cfg, err := parseFlags()
	if err != nil {
		return fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	cvHandler, err := setupDependencies(cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}

	r := setupRouter(cvHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	log.Printf("Запуск HTTP-сервера на порту %s...", cfg.Port)
	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ошибка запуска HTTP-сервера: %w", err)
	}
	return nil
}

// setupDependencies инициализирует репозиторий, хранилище фотографий,
// сервис и обработчик.
func setupDependencies(cfg *config) (*handlers.CVHandler, error) {
	// 1. Репозиторий коллекции резюме
	var repo repository.CVRepository
	var err error
	if cfg.DataFile != "" {
		repo, err = repository.NewFileRepository(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации файлового репозитория: %w", err)
		}
		log.Printf("Коллекция резюме зеркалируется в файл '%s'.", cfg.DataFile)
	} else {
		repo = repository.NewMemoryRepository()
		log.Println("Коллекция резюме хранится только в памяти.")
	}

	// 2. Хранилище файлов фотографий
	var fileStorage storage.FileStorage
	if cfg.PhotoStorage == "minio" {
		minioCfg := storage.MinioConfig{
			Endpoint:        getEnv(envMinioEndpoint, defaultMinioEndpoint),
			AccessKeyID:     getEnv(envMinioUser, defaultMinioUser),
			SecretAccessKey: getEnv(envMinioPassword, defaultMinioPassword),
			UseSSL:          minioUseSSL,
			BucketName:      getEnv(envMinioBucket, defaultMinioBucket),
		}
		fileStorage, err = storage.NewMinioClient(minioCfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
		}
	} else {
		fileStorage, err = storage.NewDiskStorage(cfg.UploadsDir)
		if err != nil {
			return nil, fmt.Errorf("ошибка инициализации каталога загрузок: %w", err)
		}
		log.Printf("Фотографии хранятся в каталоге '%s'.", cfg.UploadsDir)
	}

	// 3. Сервис и обработчик
	cvService := services.NewCVService(repo, fileStorage)
	return handlers.NewCVHandler(cvService), nil
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(cvHandler *handlers.CVHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Фронтенд обслуживается с другого origin, как в исходной системе.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// --- Маршруты --- //
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/cvs", cvHandler.List)
		r.Post("/cv", cvHandler.Create)
		r.Route("/cv/{id}", func(r chi.Router) {
			r.Get("/", cvHandler.Get)
			r.Put("/", cvHandler.Update)
			r.Delete("/", cvHandler.Delete)
			r.Delete("/photo", cvHandler.DeletePhoto)
		})
		r.Get("/image/{filename}", cvHandler.GetImage)
	})
	return r
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
