package form_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/cvbuilder/internal/form"
)

// validSubmission возвращает заполненный и заведомо валидный объект отправки.
func validSubmission() form.CVSubmission {
	return form.CVSubmission{
		PersonalInfo: form.PersonalInfoInput{
			FirstName:  "Jean",
			LastName:   "Dupont",
			Profession: "Développeur Full Stack",
			Email:      "jean.dupont@example.com",
			Phone:      "06 12 34 56 78",
			Address:    "12 rue de la Paix, Paris",
		},
		Summary: "Développeur passionné avec 5 ans d'expérience.",
		Experiences: []form.ExperienceInput{
			{
				Company:   "TechCorp",
				Position:  "Développeur Senior",
				StartDate: "2020-01-15",
				EndDate:   "2023-06-30",
			},
		},
		Educations: []form.EducationInput{
			{
				Institution: "Université de Paris",
				Degree:      "Master Informatique",
				StartDate:   "2015-09-01",
				EndDate:     "2017-06-30",
			},
		},
		Skills: []string{"JavaScript", "React", "Node.js"},
	}
}

func TestCVSubmission_Validate(t *testing.T) {
	t.Run("Валидная отправка проходит без ошибок", func(t *testing.T) {
		s := validSubmission()
		require.NoError(t, s.Validate())
	})

	tests := []struct {
		name   string
		mutate func(s *form.CVSubmission)
	}{
		{
			name:   "Пустое имя",
			mutate: func(s *form.CVSubmission) { s.PersonalInfo.FirstName = "" },
		},
		{
			name:   "Имя из одной буквы",
			mutate: func(s *form.CVSubmission) { s.PersonalInfo.FirstName = "J" },
		},
		{
			name:   "Цифры в фамилии",
			mutate: func(s *form.CVSubmission) { s.PersonalInfo.LastName = "Dupont2000" },
		},
		{
			name:   "Невалидный email",
			mutate: func(s *form.CVSubmission) { s.PersonalInfo.Email = "не-почта" },
		},
		{
			name:   "Буквы в телефоне",
			mutate: func(s *form.CVSubmission) { s.PersonalInfo.Phone = "abc-def" },
		},
		{
			name:   "Слишком короткая профессия",
			mutate: func(s *form.CVSubmission) { s.PersonalInfo.Profession = "IT" },
		},
		{
			name: "Резюме длиннее 1000 символов",
			mutate: func(s *form.CVSubmission) {
				s.Summary = strings.Repeat("о", 1001)
			},
		},
		{
			name: "Нераспознаваемая дата начала",
			mutate: func(s *form.CVSubmission) {
				s.Experiences[0].StartDate = "не дата"
			},
		},
		{
			name: "Дата окончания раньше даты начала",
			mutate: func(s *form.CVSubmission) {
				s.Experiences[0].StartDate = "2022-05-01"
				s.Experiences[0].EndDate = "2021-01-01"
			},
		},
		{
			name: "Порядок дат образования",
			mutate: func(s *form.CVSubmission) {
				s.Educations[0].StartDate = "2020-09-01"
				s.Educations[0].EndDate = "2018-06-30"
			},
		},
		{
			name:   "Навык из одного символа",
			mutate: func(s *form.CVSubmission) { s.Skills = []string{"R"} },
		},
		{
			name:   "Пустой навык",
			mutate: func(s *form.CVSubmission) { s.Skills = []string{""} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}

	t.Run("Диакритика и апострофы в имени допустимы", func(t *testing.T) {
		s := validSubmission()
		s.PersonalInfo.FirstName = "Jean-François"
		s.PersonalInfo.LastName = "D'Artagnan"
		assert.NoError(t, s.Validate())
	})

	t.Run("Открытая дата окончания допустима", func(t *testing.T) {
		s := validSubmission()
		s.Experiences[0].EndDate = ""
		assert.NoError(t, s.Validate())
	})

	t.Run("Дата в формате RFC 3339 допустима", func(t *testing.T) {
		s := validSubmission()
		s.Experiences[0].StartDate = "2020-01-15T00:00:00.000Z"
		assert.NoError(t, s.Validate())
	})
}

func TestCVSubmission_ValidatePhoto(t *testing.T) {
	newPhoto := func(contentType string, size int) form.PhotoInput {
		return form.PhotoInput{
			Kind: form.PhotoNew,
			File: &form.PhotoFile{
				Name:        "photo.bin",
				ContentType: contentType,
				Data:        bytes.Repeat([]byte{1}, size),
			},
		}
	}

	tests := []struct {
		name        string
		photo       form.PhotoInput
		expectedErr error
	}{
		{
			name:        "Без фотографии",
			photo:       form.PhotoInput{Kind: form.PhotoEmpty},
			expectedErr: nil,
		},
		{
			name: "Существующая ссылка",
			photo: form.PhotoInput{
				Kind:        form.PhotoExisting,
				ExistingRef: "/api/image/photo-1-abc.png",
			},
			expectedErr: nil,
		},
		{
			name: "Ссылка на чужой маршрут",
			photo: form.PhotoInput{
				Kind:        form.PhotoExisting,
				ExistingRef: "https://evil.example.com/photo.png",
			},
			expectedErr: form.ErrPhotoBadRef,
		},
		{
			name:        "PNG на 4MB",
			photo:       newPhoto("image/png", 4<<20),
			expectedErr: nil,
		},
		{
			name:        "Файл больше 5MB",
			photo:       newPhoto("image/jpeg", 5<<20+1),
			expectedErr: form.ErrPhotoTooLarge,
		},
		{
			name:        "GIF отклоняется",
			photo:       newPhoto("image/gif", 128),
			expectedErr: form.ErrPhotoType,
		},
		{
			name:        "Новый файл без содержимого",
			photo:       form.PhotoInput{Kind: form.PhotoNew},
			expectedErr: form.ErrPhotoShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			s.Photo = tt.photo
			err := s.Validate()
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
