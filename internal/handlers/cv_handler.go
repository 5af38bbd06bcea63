package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maynagashev/cvbuilder/internal/models"
	"github.com/maynagashev/cvbuilder/internal/services"
)

// maxMultipartMemory — сколько байт multipart-формы держать в памяти,
// остальное уходит во временные файлы.
const maxMultipartMemory = services.MaxPhotoSize + 1<<20

// CVHandler обрабатывает HTTP-запросы, связанные с резюме.
type CVHandler struct {
	cvService services.CVService
}

// NewCVHandler создает новый экземпляр CVHandler.
func NewCVHandler(cs services.CVService) *CVHandler {
	return &CVHandler{cvService: cs}
}

// errorResponse — тело ответа при ошибке: {"error": "..."}.
type errorResponse struct {
	Error string `json:"error"`
}

// successResponse — тело ответа успешного удаления: {"success": true}.
type successResponse struct {
	Success bool `json:"success"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[CVHandler] Ошибка кодирования ответа: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// List обрабатывает GET запрос на получение всех резюме.
func (h *CVHandler) List(w http.ResponseWriter, r *http.Request) {
	cvs, err := h.cvService.ListCVs(r.Context())
	if err != nil {
		log.Printf("[CVHandler:List] Ошибка получения списка резюме: %v", err)
		respondError(w, http.StatusInternalServerError, "Ошибка чтения резюме")
		return
	}
	respondJSON(w, http.StatusOK, cvs)
}

// Get обрабатывает GET запрос на получение одного резюме по идентификатору.
func (h *CVHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cv, err := h.cvService.GetCV(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCVNotFound) {
			respondError(w, http.StatusNotFound, "Резюме не найдено")
		} else {
			log.Printf("[CVHandler:Get] Ошибка получения резюме %s: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Ошибка чтения резюме")
		}
		return
	}
	respondJSON(w, http.StatusOK, cv)
}

// Create обрабатывает POST запрос на создание резюме из multipart-формы
// (cvData — JSON, photo — необязательный бинарный файл).
func (h *CVHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, photo, file, ok := h.parseSubmission(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer func() {
			_ = file.Close()
		}()
	}

	cv, err := h.cvService.CreateCV(r.Context(), payload, photo)
	if err != nil {
		h.respondPhotoOrServerError(w, err, "Ошибка создания резюме")
		return
	}
	log.Printf("[CVHandler:Create] Создано резюме %s", cv.ID)
	respondJSON(w, http.StatusCreated, cv)
}

// Update обрабатывает PUT запрос на обновление резюме. Переданные поля
// верхнего уровня целиком заменяют сохранённые (неглубокое слияние).
func (h *CVHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payload, photo, file, ok := h.parseSubmission(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer func() {
			_ = file.Close()
		}()
	}

	cv, err := h.cvService.UpdateCV(r.Context(), id, payload, photo)
	if err != nil {
		if errors.Is(err, services.ErrCVNotFound) {
			respondError(w, http.StatusNotFound, "Резюме не найдено")
			return
		}
		h.respondPhotoOrServerError(w, err, "Ошибка обновления резюме")
		return
	}
	log.Printf("[CVHandler:Update] Обновлено резюме %s", id)
	respondJSON(w, http.StatusOK, cv)
}

// Delete обрабатывает DELETE запрос на удаление резюме вместе с фотографией.
func (h *CVHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.cvService.DeleteCV(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrCVNotFound) {
			respondError(w, http.StatusNotFound, "Резюме не найдено")
		} else {
			log.Printf("[CVHandler:Delete] Ошибка удаления резюме %s: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Ошибка удаления резюме")
		}
		return
	}
	respondJSON(w, http.StatusOK, successResponse{Success: true})
}

// DeletePhoto обрабатывает DELETE запрос на удаление только фотографии резюме.
// Если фотографии нет — 400, запись не меняется.
func (h *CVHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	_, err := h.cvService.DeleteCVPhoto(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCVNotFound):
			respondError(w, http.StatusNotFound, "Резюме не найдено")
		case errors.Is(err, services.ErrNoPhoto):
			respondError(w, http.StatusBadRequest, "У резюме нет фотографии")
		default:
			log.Printf("[CVHandler:DeletePhoto] Ошибка удаления фотографии резюме %s: %v", id, err)
			respondError(w, http.StatusInternalServerError, "Ошибка удаления фотографии")
		}
		return
	}
	respondJSON(w, http.StatusOK, successResponse{Success: true})
}

// GetImage обрабатывает GET запрос на отдачу файла фотографии по имени.
// Content-Type выводится из расширения файла.
func (h *CVHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	reader, err := h.cvService.OpenPhoto(r.Context(), filename)
	if err != nil {
		if errors.Is(err, services.ErrPhotoNotFound) {
			respondError(w, http.StatusNotFound, "Изображение не найдено")
		} else {
			log.Printf("[CVHandler:GetImage] Ошибка открытия изображения '%s': %v", filename, err)
			respondError(w, http.StatusInternalServerError, "Ошибка чтения изображения")
		}
		return
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			log.Printf("[CVHandler:GetImage] Ошибка закрытия файла изображения: %v", closeErr)
		}
	}()

	w.Header().Set("Content-Type", contentTypeByExt(filename))
	w.WriteHeader(http.StatusOK)
	if _, err = io.Copy(w, reader); err != nil {
		log.Printf("[CVHandler:GetImage] Ошибка отправки изображения '%s': %v", filename, err)
	}
}

// parseSubmission разбирает multipart-форму: поле cvData (JSON) и вариант
// фотографии (новый файл / существующая ссылка / отсутствие), разрешаемый
// здесь — один раз, на транспортной границе. При ошибке пишет ответ и
// возвращает ok=false.
func (h *CVHandler) parseSubmission(
	w http.ResponseWriter,
	r *http.Request,
) (*models.CVPayload, services.PhotoAction, multipart.File, bool) {
	// Тело ограничивается до разбора, иначе слишком большой файл целиком
	// ляжет во временные файлы ещё до проверки размера.
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Printf("[CVHandler] Ошибка разбора multipart-формы: %v", err)
		respondError(w, http.StatusBadRequest, "Неверный формат запроса")
		return nil, services.PhotoAction{}, nil, false
	}

	cvData := r.FormValue("cvData")
	if cvData == "" {
		respondError(w, http.StatusBadRequest, "Отсутствует поле cvData")
		return nil, services.PhotoAction{}, nil, false
	}

	var payload models.CVPayload
	if err := json.Unmarshal([]byte(cvData), &payload); err != nil {
		log.Printf("[CVHandler] Ошибка разбора cvData: %v", err)
		respondError(w, http.StatusBadRequest, "Неверный формат cvData")
		return nil, services.PhotoAction{}, nil, false
	}

	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		upload := &services.PhotoUpload{
			Reader:      file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Filename:    header.Filename,
		}
		return &payload, services.ReplacePhoto(upload), file, true
	case errors.Is(err, http.ErrMissingFile):
		// Нового файла нет: ссылка приходит либо отдельным полем existingPhoto,
		// либо внутри cvData. Непереданный personalInfo означает "поле не
		// трогать" (неглубокое слияние), и только переданный personalInfo
		// без ссылки удаляет фотографию.
		if ref := r.FormValue("existingPhoto"); ref != "" {
			return &payload, services.KeepPhoto(ref), nil, true
		}
		if payload.PersonalInfo == nil {
			return &payload, services.LeavePhoto(), nil, true
		}
		if payload.PersonalInfo.Photo != nil && *payload.PersonalInfo.Photo != "" {
			return &payload, services.KeepPhoto(*payload.PersonalInfo.Photo), nil, true
		}
		return &payload, services.RemovePhoto(), nil, true
	default:
		log.Printf("[CVHandler] Ошибка чтения файла фотографии: %v", err)
		respondError(w, http.StatusBadRequest, "Неверный файл фотографии")
		return nil, services.PhotoAction{}, nil, false
	}
}

// respondPhotoOrServerError отличает ошибки валидации фотографии (400)
// от внутренних ошибок (500).
func (h *CVHandler) respondPhotoOrServerError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrPhotoTooLarge):
		respondError(w, http.StatusBadRequest, "Файл фотографии превышает 5MB")
	case errors.Is(err, services.ErrPhotoType):
		respondError(w, http.StatusBadRequest, "Допустимы только форматы JPEG и PNG")
	default:
		log.Printf("[CVHandler] Внутренняя ошибка: %v", err)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// contentTypeByExt выводит Content-Type из расширения файла изображения.
func contentTypeByExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
