package repository_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/cvbuilder/internal/models"
	"github.com/maynagashev/cvbuilder/internal/repository"
)

func newTestRecord(id string) *models.CVRecord {
	now := time.Now()
	return &models.CVRecord{
		ID: id,
		PersonalInfo: models.PersonalInfo{
			FirstName:  "Marie",
			LastName:   "Curie",
			Profession: "Physicienne",
			Email:      "marie.curie@example.com",
		},
		Experiences: []models.Experience{},
		Educations:  []models.Education{},
		Skills:      []string{"Physique"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMemoryRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()

	t.Run("Репозиторий в памяти начинается с записи-образца", func(t *testing.T) {
		cvs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, cvs, 1)
		assert.Equal(t, "Jean", cvs[0].PersonalInfo.FirstName)
	})

	t.Run("Создание и чтение", func(t *testing.T) {
		cv := newTestRecord("cv-2")
		require.NoError(t, repo.Create(ctx, cv))

		got, err := repo.GetByID(ctx, "cv-2")
		require.NoError(t, err)
		assert.Equal(t, *cv, *got)
	})

	t.Run("GetByID возвращает копию", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "cv-2")
		require.NoError(t, err)
		got.Summary = "изменено в обход репозитория"

		again, err := repo.GetByID(ctx, "cv-2")
		require.NoError(t, err)
		assert.Empty(t, again.Summary)
	})

	t.Run("Срезы возвращённой записи не разделяются с коллекцией", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "cv-2")
		require.NoError(t, err)
		require.NotEmpty(t, got.Skills)
		got.Skills[0] = "изменено в обход репозитория"

		again, err := repo.GetByID(ctx, "cv-2")
		require.NoError(t, err)
		assert.Equal(t, "Physique", again.Skills[0])

		cvs, err := repo.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, cvs)
		cvs[0].PersonalInfo.FirstName = "изменено"

		again2, err := repo.GetByID(ctx, cvs[0].ID)
		require.NoError(t, err)
		assert.NotEqual(t, "изменено", again2.PersonalInfo.FirstName)
	})

	t.Run("Сохранённая запись не разделяет срезы с аргументом Create", func(t *testing.T) {
		cv := newTestRecord("cv-3")
		require.NoError(t, repo.Create(ctx, cv))
		cv.Skills[0] = "изменено после сохранения"

		got, err := repo.GetByID(ctx, "cv-3")
		require.NoError(t, err)
		assert.Equal(t, "Physique", got.Skills[0])
		require.NoError(t, repo.Delete(ctx, "cv-3"))
	})

	t.Run("Обновление существующей записи", func(t *testing.T) {
		cv := newTestRecord("cv-2")
		cv.Summary = "обновлено"
		require.NoError(t, repo.Update(ctx, cv))

		got, err := repo.GetByID(ctx, "cv-2")
		require.NoError(t, err)
		assert.Equal(t, "обновлено", got.Summary)
	})

	t.Run("Обновление отсутствующей записи", func(t *testing.T) {
		err := repo.Update(ctx, newTestRecord("нет-такого"))
		require.ErrorIs(t, err, repository.ErrCVNotFound)
	})

	t.Run("Удаление", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "cv-2"))

		_, err := repo.GetByID(ctx, "cv-2")
		require.ErrorIs(t, err, repository.ErrCVNotFound)

		cvs, err := repo.List(ctx)
		require.NoError(t, err)
		for _, cv := range cvs {
			assert.NotEqual(t, "cv-2", cv.ID)
		}
	})

	t.Run("Удаление отсутствующей записи", func(t *testing.T) {
		err := repo.Delete(ctx, "нет-такого")
		require.ErrorIs(t, err, repository.ErrCVNotFound)
	})
}

func TestFileRepository_SeedOnMissingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cv-data.json")

	repo, err := repository.NewFileRepository(path)
	require.NoError(t, err)

	// Отсутствующий файл заменяется образцом и сразу записывается обратно.
	cvs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cvs, 1)
	assert.Equal(t, "Dupont", cvs[0].PersonalInfo.LastName)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var file struct {
		Cvs []models.CVRecord `json:"cvs"`
	}
	require.NoError(t, json.Unmarshal(data, &file))
	require.Len(t, file.Cvs, 1)
	assert.Equal(t, "Jean", file.Cvs[0].PersonalInfo.FirstName)
}

func TestFileRepository_SeedOnCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cv-data.json")
	require.NoError(t, os.WriteFile(path, []byte("{не json"), 0o600))

	repo, err := repository.NewFileRepository(path)
	require.NoError(t, err)

	cvs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cvs, 1)
	assert.Equal(t, "Jean", cvs[0].PersonalInfo.FirstName)

	// Файл перезаписан валидным содержимым.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestFileRepository_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cv-data.json")

	repo, err := repository.NewFileRepository(path)
	require.NoError(t, err)

	cv := newTestRecord("cv-7")
	require.NoError(t, repo.Create(ctx, cv))
	require.NoError(t, repo.Delete(ctx, "1")) // удаляем образец, остаётся только cv-7

	// Новый экземпляр читает то, что записал предыдущий.
	reloaded, err := repository.NewFileRepository(path)
	require.NoError(t, err)

	cvs, err := reloaded.List(ctx)
	require.NoError(t, err)
	require.Len(t, cvs, 1)
	assert.Equal(t, "cv-7", cvs[0].ID)
	assert.Equal(t, "Marie", cvs[0].PersonalInfo.FirstName)

	got, err := reloaded.GetByID(ctx, "cv-7")
	require.NoError(t, err)
	assert.Equal(t, cv.Skills, got.Skills)
}
