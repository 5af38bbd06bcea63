package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maynagashev/cvbuilder/internal/models"
	"github.com/maynagashev/cvbuilder/internal/repository"
	"github.com/maynagashev/cvbuilder/internal/storage"
)

// MaxPhotoSize — предельный размер файла фотографии (5MB).
const MaxPhotoSize = 5 << 20

// allowedPhotoTypes — MIME-типы, которые сервер принимает до сохранения.
var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// CVService определяет интерфейс сервиса работы с резюме.
type CVService interface {
	ListCVs(ctx context.Context) ([]models.CVRecord, error)
	GetCV(ctx context.Context, id string) (*models.CVRecord, error)
	CreateCV(ctx context.Context, payload *models.CVPayload, photo PhotoAction) (*models.CVRecord, error)
	UpdateCV(ctx context.Context, id string, payload *models.CVPayload, photo PhotoAction) (*models.CVRecord, error)
	DeleteCV(ctx context.Context, id string) error
	DeleteCVPhoto(ctx context.Context, id string) (*models.CVRecord, error)
	OpenPhoto(ctx context.Context, filename string) (io.ReadCloser, error)
}

// Кастомные ошибки сервиса.
var (
	ErrCVNotFound    = errors.New("резюме не найдено")
	ErrNoPhoto       = errors.New("у резюме нет фотографии")
	ErrPhotoNotFound = errors.New("файл фотографии не найден")
	ErrPhotoTooLarge = errors.New("файл фотографии превышает 5MB")
	ErrPhotoType     = errors.New("недопустимый тип фотографии, ожидается JPEG или PNG")
)

// cvService реализует логику работы с резюме.
var _ CVService = (*cvService)(nil)

type cvService struct {
	repo  repository.CVRepository
	files storage.FileStorage
}

// NewCVService создает новый экземпляр сервиса резюме.
func NewCVService(repo repository.CVRepository, files storage.FileStorage) CVService {
	return &cvService{repo: repo, files: files}
}

// ListCVs возвращает все записи коллекции.
func (s *cvService) ListCVs(ctx context.Context) ([]models.CVRecord, error) {
	cvs, err := s.repo.List(ctx)
	if err != nil {
		log.Printf("[CVService] Ошибка получения списка резюме: %v", err)
		return nil, fmt.Errorf("ошибка получения списка резюме: %w", err)
	}
	return cvs, nil
}

// GetCV возвращает запись по идентификатору.
func (s *cvService) GetCV(ctx context.Context, id string) (*models.CVRecord, error) {
	cv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return nil, ErrCVNotFound
		}
		log.Printf("[CVService] Ошибка получения резюме %s: %v", id, err)
		return nil, fmt.Errorf("ошибка получения резюме: %w", err)
	}
	return cv, nil
}

// CreateCV создает новую запись: назначает идентификатор и временные метки,
// при наличии нового файла фотографии сохраняет его и записывает ссылку.
func (s *cvService) CreateCV(
	ctx context.Context,
	payload *models.CVPayload,
	photo PhotoAction,
) (*models.CVRecord, error) {
	cv := models.NewRecordFromPayload(payload)
	cv.ID = uuid.NewString()
	now := time.Now()
	cv.CreatedAt = now
	cv.UpdatedAt = now

	switch photo.Kind {
	case PhotoReplace:
		filename, err := s.storePhoto(ctx, photo.Upload)
		if err != nil {
			return nil, err
		}
		ref := models.PhotoRef(filename)
		cv.PersonalInfo.Photo = &ref
	case PhotoKeep:
		ref := photo.ExistingRef
		cv.PersonalInfo.Photo = &ref
	case PhotoRemove, PhotoLeave:
		// У новой записи нечего оставлять без изменений.
		cv.PersonalInfo.Photo = nil
	}

	if err := s.repo.Create(ctx, cv); err != nil {
		log.Printf("[CVService] Ошибка сохранения нового резюме: %v", err)
		return nil, fmt.Errorf("ошибка сохранения резюме: %w", err)
	}
	log.Printf("[CVService] Создано резюме %s", cv.ID)
	return cv, nil
}

// UpdateCV выполняет неглубокое слияние присланных полей поверх сохранённой
// записи. Новый файл фотографии вытесняет прежний (старый файл удаляется),
// переданная существующая ссылка сохраняется без изменений, а запрос без
// поля personalInfo фотографию не затрагивает.
func (s *cvService) UpdateCV(
	ctx context.Context,
	id string,
	payload *models.CVPayload,
	photo PhotoAction,
) (*models.CVRecord, error) {
	cv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return nil, ErrCVNotFound
		}
		return nil, fmt.Errorf("ошибка получения резюме: %w", err)
	}

	oldFilename, hadPhoto := cv.PhotoFilenameOf()
	cv.ApplyPayload(payload)

	switch photo.Kind {
	case PhotoReplace:
		filename, storeErr := s.storePhoto(ctx, photo.Upload)
		if storeErr != nil {
			return nil, storeErr
		}
		if hadPhoto && oldFilename != filename {
			s.removePhotoFile(ctx, oldFilename)
		}
		ref := models.PhotoRef(filename)
		cv.PersonalInfo.Photo = &ref
	case PhotoKeep:
		ref := photo.ExistingRef
		cv.PersonalInfo.Photo = &ref
	case PhotoRemove:
		if hadPhoto {
			s.removePhotoFile(ctx, oldFilename)
		}
		cv.PersonalInfo.Photo = nil
	case PhotoLeave:
		// Поле не передавалось — фотография остаётся как была.
	}

	cv.UpdatedAt = time.Now()

	if err = s.repo.Update(ctx, cv); err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return nil, ErrCVNotFound
		}
		log.Printf("[CVService] Ошибка обновления резюме %s: %v", id, err)
		return nil, fmt.Errorf("ошибка обновления резюме: %w", err)
	}
	log.Printf("[CVService] Обновлено резюме %s", id)
	return cv, nil
}

// DeleteCV удаляет запись вместе с файлом её фотографии.
func (s *cvService) DeleteCV(ctx context.Context, id string) error {
	cv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return ErrCVNotFound
		}
		return fmt.Errorf("ошибка получения резюме: %w", err)
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return ErrCVNotFound
		}
		log.Printf("[CVService] Ошибка удаления резюме %s: %v", id, err)
		return fmt.Errorf("ошибка удаления резюме: %w", err)
	}

	if filename, ok := cv.PhotoFilenameOf(); ok {
		s.removePhotoFile(ctx, filename)
	}
	log.Printf("[CVService] Удалено резюме %s", id)
	return nil
}

// DeleteCVPhoto убирает только фотографию записи: удаляет файл и ссылку.
// Возвращает ErrNoPhoto, если удалять нечего.
func (s *cvService) DeleteCVPhoto(ctx context.Context, id string) (*models.CVRecord, error) {
	cv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return nil, ErrCVNotFound
		}
		return nil, fmt.Errorf("ошибка получения резюме: %w", err)
	}

	filename, ok := cv.PhotoFilenameOf()
	if !ok {
		return nil, ErrNoPhoto
	}

	s.removePhotoFile(ctx, filename)
	cv.PersonalInfo.Photo = nil
	cv.UpdatedAt = time.Now()

	if err = s.repo.Update(ctx, cv); err != nil {
		log.Printf("[CVService] Ошибка сохранения резюме %s после удаления фотографии: %v", id, err)
		return nil, fmt.Errorf("ошибка обновления резюме: %w", err)
	}
	log.Printf("[CVService] Удалена фотография резюме %s", id)
	return cv, nil
}

// OpenPhoto открывает сохранённый файл фотографии по имени.
func (s *cvService) OpenPhoto(ctx context.Context, filename string) (io.ReadCloser, error) {
	reader, err := s.files.OpenFile(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrPhotoNotFound
		}
		log.Printf("[CVService] Ошибка открытия фотографии '%s': %v", filename, err)
		return nil, fmt.Errorf("ошибка открытия фотографии: %w", err)
	}
	return reader, nil
}

// storePhoto проверяет тип и размер загружаемого файла и сохраняет его под
// сгенерированным уникальным именем (метка времени + случайный суффикс + расширение).
func (s *cvService) storePhoto(ctx context.Context, upload *PhotoUpload) (string, error) {
	if upload == nil {
		return "", ErrPhotoType
	}
	if upload.Size > MaxPhotoSize {
		return "", ErrPhotoTooLarge
	}
	defaultExt, ok := allowedPhotoTypes[upload.ContentType]
	if !ok {
		return "", ErrPhotoType
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		ext = defaultExt
	}
	filename := fmt.Sprintf("photo-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	if err := s.files.SaveFile(ctx, filename, upload.Reader, upload.Size, upload.ContentType); err != nil {
		log.Printf("[CVService] Ошибка сохранения фотографии '%s': %v", filename, err)
		return "", fmt.Errorf("ошибка сохранения фотографии: %w", err)
	}
	return filename, nil
}

// removePhotoFile удаляет файл фотографии; ошибка только логируется — запись
// важнее файла, осиротевший файл не откатывается (принятое ограничение).
func (s *cvService) removePhotoFile(ctx context.Context, filename string) {
	if err := s.files.DeleteFile(ctx, filename); err != nil {
		log.Printf("[CVService] Не удалось удалить файл фотографии '%s': %v", filename, err)
	}
}
