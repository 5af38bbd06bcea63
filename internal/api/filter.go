package api

import (
	"encoding/json"
	"strings"

	"github.com/maynagashev/cvbuilder/internal/models"
)

// FilterCVs фильтрует список резюме для страницы списка: регистронезависимый
// поиск подстроки по всем строковым полям записи (рекурсивно) плюс
// необязательный фильтр "только избранные".
func FilterCVs(cvs []models.CVRecord, term string, favoritesOnly bool) []models.CVRecord {
	searchText := strings.ToLower(strings.TrimSpace(term))

	out := make([]models.CVRecord, 0, len(cvs))
	for i := range cvs {
		if favoritesOnly && !cvs[i].IsFavorite {
			continue
		}
		if searchText != "" && !matchesDeep(&cvs[i], searchText) {
			continue
		}
		out = append(out, cvs[i])
	}
	return out
}

// matchesDeep обходит JSON-представление записи, чтобы множество строковых
// полей совпадало с тем, что видит страница списка (включая id и даты).
func matchesDeep(cv *models.CVRecord, searchText string) bool {
	data, err := json.Marshal(cv)
	if err != nil {
		return false
	}
	var value any
	if err = json.Unmarshal(data, &value); err != nil {
		return false
	}
	return matchValue(value, searchText)
}

func matchValue(value any, searchText string) bool {
	switch v := value.(type) {
	case string:
		return strings.Contains(strings.ToLower(v), searchText)
	case map[string]any:
		for _, item := range v {
			if matchValue(item, searchText) {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if matchValue(item, searchText) {
				return true
			}
		}
	}
	return false
}
