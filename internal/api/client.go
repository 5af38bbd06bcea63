// Package api реализует клиентскую сторону HTTP-API сервера резюме.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/maynagashev/cvbuilder/internal/form"
	"github.com/maynagashev/cvbuilder/internal/models"
)

// Кастомные ошибки клиента.
var (
	// ErrNotFound сигнализирует об отсутствии запрошенного резюме или изображения (404).
	ErrNotFound = errors.New("не найдено на сервере")
)

// Client определяет интерфейс для взаимодействия с API сервера резюме.
type Client interface {
	// ListCVs получает все резюме.
	ListCVs(ctx context.Context) ([]models.CVRecord, error)
	// GetCV получает одно резюме по идентификатору.
	GetCV(ctx context.Context, id string) (*models.CVRecord, error)
	// CreateCV проверяет отправку и создает новое резюме.
	CreateCV(ctx context.Context, submission *form.CVSubmission) (*models.CVRecord, error)
	// UpdateCV проверяет отправку и обновляет существующее резюме.
	UpdateCV(ctx context.Context, id string, submission *form.CVSubmission) (*models.CVRecord, error)
	// DeleteCV удаляет резюме.
	DeleteCV(ctx context.Context, id string) error
	// DeleteCVPhoto удаляет только фотографию резюме.
	DeleteCVPhoto(ctx context.Context, id string) error
	// FetchPhoto скачивает файл фотографии по сохранённой ссылке.
	// Возвращает тело и Content-Type; тело нужно закрыть после использования.
	FetchPhoto(ctx context.Context, ref string) (io.ReadCloser, string, error)
}

// httpClient реализует интерфейс Client поверх net/http.
type httpClient struct {
	baseURL    string       // Базовый URL сервера, например "http://localhost:5001"
	httpClient *http.Client // HTTP клиент для выполнения запросов
}

var _ Client = (*httpClient)(nil)

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// serverError извлекает сообщение из тела ответа {"error": "..."}.
func serverError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("ошибка сервера (статус %d): %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("ошибка сервера: статус %d", resp.StatusCode)
}

// ListCVs получает все резюме с сервера.
func (c *httpClient) ListCVs(ctx context.Context) ([]models.CVRecord, error) {
	listURL, err := url.JoinPath(c.baseURL, "/api/cvs")
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования URL списка резюме: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса списка резюме: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса списка резюме: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}

	var cvs []models.CVRecord
	if err = json.NewDecoder(resp.Body).Decode(&cvs); err != nil {
		return nil, fmt.Errorf("ошибка декодирования списка резюме: %w", err)
	}
	return cvs, nil
}

// GetCV получает одно резюме по идентификатору.
func (c *httpClient) GetCV(ctx context.Context, id string) (*models.CVRecord, error) {
	getURL, err := url.JoinPath(c.baseURL, "/api/cv", id)
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования URL резюме: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса резюме: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса резюме: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, serverError(resp)
	}

	var cv models.CVRecord
	if err = json.NewDecoder(resp.Body).Decode(&cv); err != nil {
		return nil, fmt.Errorf("ошибка декодирования резюме: %w", err)
	}
	return &cv, nil
}

// CreateCV проверяет отправку локально и создает резюме на сервере.
// Невалидная отправка блокируется до обращения к серверу.
func (c *httpClient) CreateCV(ctx context.Context, submission *form.CVSubmission) (*models.CVRecord, error) {
	createURL, err := url.JoinPath(c.baseURL, "/api/cv")
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования URL создания резюме: %w", err)
	}
	return c.submit(ctx, http.MethodPost, createURL, submission, http.StatusCreated)
}

// UpdateCV проверяет отправку локально и обновляет резюме на сервере.
func (c *httpClient) UpdateCV(
	ctx context.Context,
	id string,
	submission *form.CVSubmission,
) (*models.CVRecord, error) {
	updateURL, err := url.JoinPath(c.baseURL, "/api/cv", id)
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования URL обновления резюме: %w", err)
	}
	return c.submit(ctx, http.MethodPut, updateURL, submission, http.StatusOK)
}

// submit выполняет общую часть создания и обновления: валидация, сборка
// multipart-тела, отправка и декодирование сохранённой записи.
func (c *httpClient) submit(
	ctx context.Context,
	method, submitURL string,
	submission *form.CVSubmission,
	wantStatus int,
) (*models.CVRecord, error) {
	if err := submission.Validate(); err != nil {
		return nil, fmt.Errorf("отправка не прошла валидацию: %w", err)
	}

	body, contentType, err := submission.EncodeMultipart()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки multipart-формы: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, submitURL, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса отправки резюме: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса отправки резюме: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, serverError(resp)
	}

	var cv models.CVRecord
	if err = json.NewDecoder(resp.Body).Decode(&cv); err != nil {
		return nil, fmt.Errorf("ошибка декодирования сохранённого резюме: %w", err)
	}
	return &cv, nil
}

// DeleteCV удаляет резюме на сервере.
func (c *httpClient) DeleteCV(ctx context.Context, id string) error {
	deleteURL, err := url.JoinPath(c.baseURL, "/api/cv", id)
	if err != nil {
		return fmt.Errorf("ошибка формирования URL удаления резюме: %w", err)
	}
	return c.deleteRequest(ctx, deleteURL)
}

// DeleteCVPhoto удаляет только фотографию резюме.
func (c *httpClient) DeleteCVPhoto(ctx context.Context, id string) error {
	deleteURL, err := url.JoinPath(c.baseURL, "/api/cv", id, "photo")
	if err != nil {
		return fmt.Errorf("ошибка формирования URL удаления фотографии: %w", err)
	}
	return c.deleteRequest(ctx, deleteURL)
}

func (c *httpClient) deleteRequest(ctx context.Context, deleteURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса удаления: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса удаления: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		return serverError(resp)
	}
	return nil
}

// FetchPhoto скачивает файл фотографии по ссылке вида "/api/image/<имя файла>".
// Тело ответа НЕ закрывается здесь — вызывающая сторона должна это сделать.
func (c *httpClient) FetchPhoto(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	if _, ok := models.PhotoFilename(ref); !ok {
		return nil, "", fmt.Errorf("недопустимая ссылка на фотографию: %q", ref)
	}
	photoURL, err := url.JoinPath(c.baseURL, ref)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка формирования URL фотографии: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка создания запроса фотографии: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка выполнения запроса фотографии: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, "", ErrNotFound
		}
		return nil, "", serverError(resp)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}
