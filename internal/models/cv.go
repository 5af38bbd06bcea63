package models

import (
	"strings"
	"time"
)

// PhotoRefPrefix — префикс серверной ссылки на фотографию.
// Ссылка хранится в personalInfo.photo и указывает на маршрут отдачи изображений.
const PhotoRefPrefix = "/api/image/"

// PersonalInfo содержит персональные данные владельца резюме.
// Photo — либо nil (фото нет), либо ссылка вида "/api/image/<имя файла>".
type PersonalInfo struct {
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Profession string  `json:"profession"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone,omitempty"`
	Address    string  `json:"address,omitempty"`
	Photo      *string `json:"photo"`
}

// Experience — одна запись об опыте работы.
// Даты хранятся строками в формате YYYY-MM-DD, сервер их не интерпретирует.
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education — одна запись об образовании.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
}

// CVRecord — корневая сущность: одно резюме.
// ID, CreatedAt и UpdatedAt назначаются хранилищем и не принимаются от клиента.
type CVRecord struct {
	ID           string       `json:"id"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Summary      string       `json:"summary,omitempty"`
	Experiences  []Experience `json:"experiences"`
	Educations   []Education  `json:"educations"`
	Skills       []string     `json:"skills"`
	IsFavorite   bool         `json:"isFavorite"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// CVPayload — данные резюме, как их присылает клиент (поле cvData multipart-запроса).
// Поля верхнего уровня — указатели: nil означает "поле не передано, не трогать",
// а переданное поле целиком заменяет сохранённое значение. Частично переданный
// personalInfo затирает отсутствующие подполя — это контракт, а не ошибка.
type CVPayload struct {
	PersonalInfo *PersonalInfo `json:"personalInfo"`
	Summary      *string       `json:"summary"`
	Experiences  *[]Experience `json:"experiences"`
	Educations   *[]Education  `json:"educations"`
	Skills       *[]string     `json:"skills"`
	IsFavorite   *bool         `json:"isFavorite"`
}

// PhotoRef строит серверную ссылку на файл фотографии по его имени.
func PhotoRef(filename string) string {
	return PhotoRefPrefix + filename
}

// PhotoFilename извлекает имя файла из ссылки на фотографию.
// Возвращает false, если строка не является ссылкой на маршрут изображений.
func PhotoFilename(ref string) (string, bool) {
	if !strings.HasPrefix(ref, PhotoRefPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, PhotoRefPrefix)
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", false
	}
	return name, true
}

// PhotoFilenameOf возвращает имя файла фотографии записи, если оно есть.
func (cv *CVRecord) PhotoFilenameOf() (string, bool) {
	if cv.PersonalInfo.Photo == nil {
		return "", false
	}
	return PhotoFilename(*cv.PersonalInfo.Photo)
}

// ApplyPayload выполняет неглубокое слияние: каждое переданное поле верхнего
// уровня целиком заменяет сохранённое. ID, CreatedAt и UpdatedAt не затрагиваются.
func (cv *CVRecord) ApplyPayload(p *CVPayload) {
	if p == nil {
		return
	}
	if p.PersonalInfo != nil {
		cv.PersonalInfo = *p.PersonalInfo
	}
	if p.Summary != nil {
		cv.Summary = *p.Summary
	}
	if p.Experiences != nil {
		cv.Experiences = *p.Experiences
	}
	if p.Educations != nil {
		cv.Educations = *p.Educations
	}
	if p.Skills != nil {
		cv.Skills = *p.Skills
	}
	if p.IsFavorite != nil {
		cv.IsFavorite = *p.IsFavorite
	}
}

// NewRecordFromPayload создаёт новую запись из присланных данных.
// Отсутствующие последовательности становятся пустыми, чтобы в JSON-ответе
// были [] вместо null; флаг избранного по умолчанию false.
func NewRecordFromPayload(p *CVPayload) *CVRecord {
	cv := &CVRecord{
		Experiences: []Experience{},
		Educations:  []Education{},
		Skills:      []string{},
	}
	cv.ApplyPayload(p)
	return cv
}
