// Package form определяет клиентскую модель отправки резюме: допустимую форму
// данных, их валидацию и сборку транспортного multipart-представления
// (JSON-поле cvData + необязательная бинарная часть photo).
package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"github.com/maynagashev/cvbuilder/internal/models"
)

// PhotoKind перечисляет допустимые формы полиморфного поля фотографии.
type PhotoKind int

const (
	// PhotoEmpty — фотографии нет.
	PhotoEmpty PhotoKind = iota
	// PhotoExisting — уже сохранённая ссылка, передаётся как есть без перезагрузки.
	PhotoExisting
	// PhotoNew — новый выбранный файл, уходит отдельной бинарной частью.
	PhotoNew
)

// PhotoFile — материал нового файла фотографии для multipart-части.
type PhotoFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// PhotoInput — размеченный вариант поля фотографии, разрешаемый один раз
// при заполнении формы вместо повторного разбора сырых форм значения.
type PhotoInput struct {
	Kind        PhotoKind
	ExistingRef string     // заполнен при PhotoExisting
	File        *PhotoFile // заполнен при PhotoNew
}

// PersonalInfoInput — персональные данные формы.
type PersonalInfoInput struct {
	FirstName  string `json:"firstName"  validate:"required,min=2,max=50,person_name"`
	LastName   string `json:"lastName"   validate:"required,min=2,max=50,person_name"`
	Profession string `json:"profession" validate:"required,min=3,max=100"`
	Email      string `json:"email"      validate:"required,email,max=255"`
	Phone      string `json:"phone"      validate:"omitempty,phone"`
	Address    string `json:"address"    validate:"omitempty,max=200"`
}

// ExperienceInput — одна строка формы опыта работы.
type ExperienceInput struct {
	Company     string `json:"company"     validate:"required,min=2,max=100"`
	Position    string `json:"position"    validate:"required,min=3,max=100"`
	StartDate   string `json:"startDate"   validate:"required,cvdate"`
	EndDate     string `json:"endDate"     validate:"omitempty,cvdate"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// EducationInput — одна строка формы образования.
type EducationInput struct {
	Institution string `json:"institution" validate:"required,min=2,max=100"`
	Degree      string `json:"degree"      validate:"required,min=3,max=100"`
	StartDate   string `json:"startDate"   validate:"required,cvdate"`
	EndDate     string `json:"endDate"     validate:"omitempty,cvdate"`
}

// CVSubmission — полный объект отправки. Валидация выполняется по объекту
// целиком, чтобы межполевым правилам (порядок дат, форма фотографии) были
// доступны соседние значения.
type CVSubmission struct {
	PersonalInfo PersonalInfoInput `json:"personalInfo"`
	Summary      string            `json:"summary" validate:"omitempty,max=1000"`
	Experiences  []ExperienceInput `json:"experiences" validate:"dive"`
	Educations   []EducationInput  `json:"educations"  validate:"dive"`
	Skills       []string          `json:"skills"      validate:"dive,required,min=2,max=50"`
	IsFavorite   bool              `json:"isFavorite"`
	Photo        PhotoInput        `json:"-"`
}

// Payload собирает серверное представление данных формы. Поле фотографии
// попадает в JSON только для существующей ссылки: новый файл уходит
// бинарной частью и в cvData не дублируется.
func (s *CVSubmission) Payload() *models.CVPayload {
	info := models.PersonalInfo{
		FirstName:  s.PersonalInfo.FirstName,
		LastName:   s.PersonalInfo.LastName,
		Profession: s.PersonalInfo.Profession,
		Email:      s.PersonalInfo.Email,
		Phone:      s.PersonalInfo.Phone,
		Address:    s.PersonalInfo.Address,
	}
	if s.Photo.Kind == PhotoExisting {
		ref := s.Photo.ExistingRef
		info.Photo = &ref
	}

	experiences := make([]models.Experience, 0, len(s.Experiences))
	for _, e := range s.Experiences {
		experiences = append(experiences, models.Experience{
			Company:     e.Company,
			Position:    e.Position,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
		})
	}
	educations := make([]models.Education, 0, len(s.Educations))
	for _, e := range s.Educations {
		educations = append(educations, models.Education{
			Institution: e.Institution,
			Degree:      e.Degree,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
		})
	}
	skills := make([]string, 0, len(s.Skills))
	skills = append(skills, s.Skills...)

	summary := s.Summary
	isFavorite := s.IsFavorite
	return &models.CVPayload{
		PersonalInfo: &info,
		Summary:      &summary,
		Experiences:  &experiences,
		Educations:   &educations,
		Skills:       &skills,
		IsFavorite:   &isFavorite,
	}
}

// EncodeMultipart сериализует отправку в multipart-тело: поле cvData с JSON,
// бинарная часть photo для нового файла, поле existingPhoto для сохранённой
// ссылки. Возвращает тело и значение заголовка Content-Type.
func (s *CVSubmission) EncodeMultipart() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	jsonData, err := json.Marshal(s.Payload())
	if err != nil {
		return nil, "", fmt.Errorf("ошибка кодирования cvData: %w", err)
	}
	if err = writer.WriteField("cvData", string(jsonData)); err != nil {
		return nil, "", fmt.Errorf("ошибка записи поля cvData: %w", err)
	}

	switch s.Photo.Kind {
	case PhotoNew:
		if s.Photo.File == nil {
			return nil, "", fmt.Errorf("не задан файл новой фотографии")
		}
		part, partErr := writer.CreatePart(photoPartHeader(s.Photo.File))
		if partErr != nil {
			return nil, "", fmt.Errorf("ошибка создания части photo: %w", partErr)
		}
		if _, partErr = part.Write(s.Photo.File.Data); partErr != nil {
			return nil, "", fmt.Errorf("ошибка записи файла фотографии: %w", partErr)
		}
	case PhotoExisting:
		if err = writer.WriteField("existingPhoto", s.Photo.ExistingRef); err != nil {
			return nil, "", fmt.Errorf("ошибка записи поля existingPhoto: %w", err)
		}
	case PhotoEmpty:
		// Фотографии нет — ничего не добавляем.
	}

	if err = writer.Close(); err != nil {
		return nil, "", fmt.Errorf("ошибка завершения multipart-формы: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// photoPartHeader строит заголовки бинарной части: CreateFormFile не подходит,
// т.к. всегда ставит application/octet-stream вместо типа изображения.
func photoPartHeader(file *PhotoFile) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, file.Name))
	h.Set("Content-Type", file.ContentType)
	return h
}
