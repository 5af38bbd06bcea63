package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/maynagashev/cvbuilder/internal/models"
)

// CVRepository определяет методы для работы с коллекцией резюме.
// Реализации отличаются только тем, сериализуют ли они коллекцию после мутаций;
// вызывающий код на бэкенд не завязан.
type CVRepository interface {
	List(ctx context.Context) ([]models.CVRecord, error)
	GetByID(ctx context.Context, id string) (*models.CVRecord, error)
	Create(ctx context.Context, cv *models.CVRecord) error
	Update(ctx context.Context, cv *models.CVRecord) error
	Delete(ctx context.Context, id string) error
}

// Кастомные ошибки репозитория.
var (
	ErrCVNotFound = errors.New("резюме не найдено")
)

// memoryRepository хранит коллекцию резюме в памяти процесса.
// Один RWMutex сериализует цикл чтение-изменение-запись целиком.
type memoryRepository struct {
	mu  sync.RWMutex
	cvs []models.CVRecord
}

var _ CVRepository = (*memoryRepository)(nil)

// NewMemoryRepository создает репозиторий в памяти, заполненный записью-образцом,
// как это делал вариант без файла данных.
func NewMemoryRepository() CVRepository {
	return &memoryRepository{cvs: []models.CVRecord{seedRecord()}}
}

// newEmptyMemoryRepository используется файловым репозиторием: начальное
// содержимое приходит из файла данных, а не из образца.
func newEmptyMemoryRepository() *memoryRepository {
	return &memoryRepository{cvs: []models.CVRecord{}}
}

// cloneRecord делает глубокую копию записи: срезы и указатель на фотографию
// не разделяются с оригиналом. Пустые срезы остаются пустыми, а не nil,
// чтобы в JSON были [] вместо null.
func cloneRecord(src *models.CVRecord) models.CVRecord {
	out := *src
	if src.PersonalInfo.Photo != nil {
		photo := *src.PersonalInfo.Photo
		out.PersonalInfo.Photo = &photo
	}
	if src.Experiences != nil {
		out.Experiences = make([]models.Experience, len(src.Experiences))
		copy(out.Experiences, src.Experiences)
	}
	if src.Educations != nil {
		out.Educations = make([]models.Education, len(src.Educations))
		copy(out.Educations, src.Educations)
	}
	if src.Skills != nil {
		out.Skills = make([]string, len(src.Skills))
		copy(out.Skills, src.Skills)
	}
	return out
}

// List возвращает глубокую копию всей коллекции.
func (r *memoryRepository) List(_ context.Context) ([]models.CVRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.CVRecord, len(r.cvs))
	for i := range r.cvs {
		out[i] = cloneRecord(&r.cvs[i])
	}
	return out, nil
}

// GetByID находит запись по идентификатору. Возвращает глубокую копию, чтобы
// вызывающий код не мог изменить коллекцию в обход репозитория.
func (r *memoryRepository) GetByID(_ context.Context, id string) (*models.CVRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.cvs {
		if r.cvs[i].ID == id {
			cv := cloneRecord(&r.cvs[i])
			return &cv, nil
		}
	}
	return nil, ErrCVNotFound
}

// Create добавляет новую запись в конец коллекции.
func (r *memoryRepository) Create(_ context.Context, cv *models.CVRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cvs = append(r.cvs, cloneRecord(cv))
	return nil
}

// Update заменяет сохранённую запись с тем же идентификатором.
func (r *memoryRepository) Update(_ context.Context, cv *models.CVRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.cvs {
		if r.cvs[i].ID == cv.ID {
			r.cvs[i] = cloneRecord(cv)
			return nil
		}
	}
	return ErrCVNotFound
}

// Delete удаляет запись из коллекции.
func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.cvs {
		if r.cvs[i].ID == id {
			r.cvs = append(r.cvs[:i], r.cvs[i+1:]...)
			return nil
		}
	}
	return ErrCVNotFound
}

// snapshot возвращает глубокую копию коллекции для сериализации.
func (r *memoryRepository) snapshot() []models.CVRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.CVRecord, len(r.cvs))
	for i := range r.cvs {
		out[i] = cloneRecord(&r.cvs[i])
	}
	return out
}

// replaceAll целиком заменяет содержимое коллекции (используется при загрузке файла).
func (r *memoryRepository) replaceAll(cvs []models.CVRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cvs = cvs
}
