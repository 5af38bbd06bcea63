package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maynagashev/cvbuilder/internal/api"
	"github.com/maynagashev/cvbuilder/internal/models"
)

func filterFixture() []models.CVRecord {
	return []models.CVRecord{
		{
			ID: "1",
			PersonalInfo: models.PersonalInfo{
				FirstName:  "Jean",
				LastName:   "Dupont",
				Profession: "Développeur Full Stack",
			},
			Experiences: []models.Experience{
				{Company: "TechCorp", Position: "Développeur Senior", StartDate: "2020-01-15"},
			},
			Skills:     []string{"JavaScript", "React"},
			IsFavorite: true,
		},
		{
			ID: "2",
			PersonalInfo: models.PersonalInfo{
				FirstName:  "Marie",
				LastName:   "Curie",
				Profession: "Physicienne",
			},
			Skills: []string{"Radium"},
		},
	}
}

func TestFilterCVs(t *testing.T) {
	cvs := filterFixture()

	tests := []struct {
		name          string
		term          string
		favoritesOnly bool
		expectedIDs   []string
	}{
		{
			name:        "Пустой запрос возвращает всё",
			term:        "",
			expectedIDs: []string{"1", "2"},
		},
		{
			name:        "Поиск по имени без учёта регистра",
			term:        "JEAN",
			expectedIDs: []string{"1"},
		},
		{
			name:        "Поиск по вложенному полю опыта работы",
			term:        "techcorp",
			expectedIDs: []string{"1"},
		},
		{
			name:        "Поиск по элементу списка навыков",
			term:        "radium",
			expectedIDs: []string{"2"},
		},
		{
			name:        "Пробелы вокруг запроса обрезаются",
			term:        "  curie  ",
			expectedIDs: []string{"2"},
		},
		{
			name:        "Без совпадений",
			term:        "golang",
			expectedIDs: []string{},
		},
		{
			name:          "Только избранные",
			term:          "",
			favoritesOnly: true,
			expectedIDs:   []string{"1"},
		},
		{
			name:          "Избранные и запрос одновременно",
			term:          "marie",
			favoritesOnly: true,
			expectedIDs:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := api.FilterCVs(cvs, tt.term, tt.favoritesOnly)
			ids := make([]string, 0, len(got))
			for _, cv := range got {
				ids = append(ids, cv.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}
