package form

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maynagashev/cvbuilder/internal/models"
)

// MaxPhotoSize — предельный размер нового файла фотографии (5MB).
const MaxPhotoSize = 5 << 20

// Правила полей повторяют исходную декларативную схему формы.
var (
	// Буквы (включая диакритику), пробелы, дефисы и апострофы.
	personNameRegexp = regexp.MustCompile(`^[a-zA-ZàâäéèêëîïôöùûüÿçñÀÂÄÉÈÊËÎÏÔÖÙÛÜŸÇÑ\s\-']+$`)
	// Свободный международный/локальный формат номера телефона.
	phoneRegexp = regexp.MustCompile(`^(\+?\d{1,3}[- ]?)?(\(?\d{2,3}\)?[- ]?)?\d{2}[- ]?\d{2}[- ]?\d{2}[- ]?\d{2}$`)
)

// Кастомные ошибки валидации фотографии.
var (
	ErrPhotoTooLarge = errors.New("фотография должна быть меньше 5MB")
	ErrPhotoType     = errors.New("фотография должна быть в формате JPEG или PNG")
	ErrPhotoBadRef   = errors.New("недопустимая ссылка на существующую фотографию")
	ErrPhotoShape    = errors.New("недопустимая форма поля фотографии")
)

// formValidator — общий валидатор пакета с зарегистрированными правилами.
var formValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// person_name: буквы с диакритикой, пробелы, дефисы, апострофы.
	_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return personNameRegexp.MatchString(fl.Field().String())
	})
	// phone: свободный шаблон телефонного номера.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegexp.MatchString(fl.Field().String())
	})
	// cvdate: значение разбирается как дата.
	_ = v.RegisterValidation("cvdate", func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	})

	// Межполевые правила порядка дат внутри строк формы.
	v.RegisterStructValidation(experienceDatesValidation, ExperienceInput{})
	v.RegisterStructValidation(educationDatesValidation, EducationInput{})

	return v
}

// parseDate принимает даты формы: YYYY-MM-DD либо полный RFC 3339.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("недопустимая дата: %q", value)
}

// endNotBeforeStart проверяет порядок дат; непустая пара сравнивается,
// нераспознанные значения здесь пропускаются — ими занимается правило cvdate.
func endNotBeforeStart(start, end string) bool {
	if end == "" || start == "" {
		return true
	}
	startDate, err := parseDate(start)
	if err != nil {
		return true
	}
	endDate, err := parseDate(end)
	if err != nil {
		return true
	}
	return !endDate.Before(startDate)
}

func experienceDatesValidation(sl validator.StructLevel) {
	exp, ok := sl.Current().Interface().(ExperienceInput)
	if !ok {
		return
	}
	if !endNotBeforeStart(exp.StartDate, exp.EndDate) {
		sl.ReportError(exp.EndDate, "EndDate", "endDate", "endafterstart", "")
	}
}

func educationDatesValidation(sl validator.StructLevel) {
	edu, ok := sl.Current().Interface().(EducationInput)
	if !ok {
		return
	}
	if !endNotBeforeStart(edu.StartDate, edu.EndDate) {
		sl.ReportError(edu.EndDate, "EndDate", "endDate", "endafterstart", "")
	}
}

// Validate проверяет объект отправки целиком: пополевые правила, порядок дат
// и форму поля фотографии. Невалидная отправка блокируется до обращения к серверу.
func (s *CVSubmission) Validate() error {
	if err := s.validatePhoto(); err != nil {
		return err
	}
	return formValidator.Struct(s)
}

// validatePhoto принимает четыре формы поля: существующая ссылка, пусто,
// новый файл допустимого типа и размера; всё остальное отклоняется.
func (s *CVSubmission) validatePhoto() error {
	switch s.Photo.Kind {
	case PhotoEmpty:
		return nil
	case PhotoExisting:
		if _, ok := models.PhotoFilename(s.Photo.ExistingRef); !ok {
			return ErrPhotoBadRef
		}
		return nil
	case PhotoNew:
		if s.Photo.File == nil {
			return ErrPhotoShape
		}
		if len(s.Photo.File.Data) > MaxPhotoSize {
			return ErrPhotoTooLarge
		}
		if s.Photo.File.ContentType != "image/jpeg" && s.Photo.File.ContentType != "image/png" {
			return ErrPhotoType
		}
		return nil
	default:
		return ErrPhotoShape
	}
}
