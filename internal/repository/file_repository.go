package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/maynagashev/cvbuilder/internal/models"
)

// cvFile — конверт файла данных: один JSON-документ вида { "cvs": [...] }.
type cvFile struct {
	Cvs []models.CVRecord `json:"cvs"`
}

// fileRepository зеркалирует коллекцию из памяти в файл данных: каждая мутация
// перезаписывает файл целиком (последняя запись побеждает, без защиты от
// частичной записи). Файл охраняется advisory-блокировкой flock на время
// чтения и записи.
type fileRepository struct {
	*memoryRepository
	path string
	lock *flock.Flock
}

var _ CVRepository = (*fileRepository)(nil)

// NewFileRepository загружает коллекцию из файла данных по указанному пути.
// Отсутствующий или повреждённый файл заменяется записью-образцом,
// которая сразу записывается обратно.
func NewFileRepository(path string) (CVRepository, error) {
	r := &fileRepository{
		memoryRepository: newEmptyMemoryRepository(),
		path:             path,
		lock:             flock.New(path + ".lock"),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// load читает файл данных; при любой проблеме с чтением или разбором
// инициализирует коллекцию образцом и сохраняет её.
func (r *fileRepository) load() error {
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка блокировки файла данных: %w", err)
	}
	defer func() {
		if unlockErr := r.lock.Unlock(); unlockErr != nil {
			log.Printf("[CVRepo] Ошибка снятия блокировки файла данных: %v", unlockErr)
		}
	}()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[CVRepo] Не удалось прочитать файл данных '%s': %v, инициализация образцом", r.path, err)
		}
		return r.reset()
	}

	var file cvFile
	if err = json.Unmarshal(data, &file); err != nil {
		log.Printf("[CVRepo] Файл данных '%s' повреждён: %v, инициализация образцом", r.path, err)
		return r.reset()
	}
	if file.Cvs == nil {
		file.Cvs = []models.CVRecord{}
	}
	r.replaceAll(file.Cvs)
	log.Printf("[CVRepo] Загружено резюме из файла данных: %d", len(file.Cvs))
	return nil
}

// reset заполняет коллекцию образцом и сразу пишет файл (вызывается под flock).
func (r *fileRepository) reset() error {
	r.replaceAll([]models.CVRecord{seedRecord()})
	return r.write()
}

// Create добавляет запись и зеркалирует коллекцию в файл.
func (r *fileRepository) Create(ctx context.Context, cv *models.CVRecord) error {
	if err := r.memoryRepository.Create(ctx, cv); err != nil {
		return err
	}
	return r.save()
}

// Update заменяет запись и зеркалирует коллекцию в файл.
func (r *fileRepository) Update(ctx context.Context, cv *models.CVRecord) error {
	if err := r.memoryRepository.Update(ctx, cv); err != nil {
		return err
	}
	return r.save()
}

// Delete удаляет запись и зеркалирует коллекцию в файл.
func (r *fileRepository) Delete(ctx context.Context, id string) error {
	if err := r.memoryRepository.Delete(ctx, id); err != nil {
		return err
	}
	return r.save()
}

// save сериализует всю коллекцию в файл под flock.
func (r *fileRepository) save() error {
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка блокировки файла данных: %w", err)
	}
	defer func() {
		if unlockErr := r.lock.Unlock(); unlockErr != nil {
			log.Printf("[CVRepo] Ошибка снятия блокировки файла данных: %v", unlockErr)
		}
	}()
	return r.write()
}

// write пишет текущее состояние коллекции в файл (вызывается под flock).
func (r *fileRepository) write() error {
	data, err := json.MarshalIndent(cvFile{Cvs: r.snapshot()}, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации коллекции: %w", err)
	}
	if err = os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("ошибка записи файла данных: %w", err)
	}
	return nil
}

// seedRecord — запись-образец из исходного варианта в памяти.
func seedRecord() models.CVRecord {
	now := time.Now()
	return models.CVRecord{
		ID: "1",
		PersonalInfo: models.PersonalInfo{
			FirstName:  "Jean",
			LastName:   "Dupont",
			Profession: "Développeur",
			Email:      "jean.dupont@example.com",
			Phone:      "0123456789",
			Address:    "123 Rue de Paris",
		},
		Summary: "Développeur expérimenté avec plus de 5 ans d'expérience",
		Experiences: []models.Experience{
			{
				Company:     "Entreprise A",
				Position:    "Développeur Full Stack",
				StartDate:   "2020-01-01",
				EndDate:     "2023-01-01",
				Description: "Développement d'applications web",
			},
		},
		Educations: []models.Education{
			{
				Institution: "Université de Paris",
				Degree:      "Master en Informatique",
				StartDate:   "2016-09-01",
				EndDate:     "2019-06-01",
			},
		},
		Skills:    []string{"JavaScript", "React", "Node.js"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
