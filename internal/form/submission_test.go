package form_test

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/cvbuilder/internal/form"
	"github.com/maynagashev/cvbuilder/internal/models"
)

// parts разбирает multipart-тело обратно в карту имя части -> содержимое,
// отдельно возвращая Content-Type части photo.
func parts(t *testing.T, body io.Reader, contentType string) (map[string]string, string) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	result := map[string]string{}
	photoType := ""
	reader := multipart.NewReader(body, params["boundary"])
	for {
		part, nextErr := reader.NextPart()
		if nextErr == io.EOF {
			break
		}
		require.NoError(t, nextErr)
		data, readErr := io.ReadAll(part)
		require.NoError(t, readErr)
		result[part.FormName()] = string(data)
		if part.FormName() == "photo" {
			photoType = part.Header.Get("Content-Type")
		}
	}
	return result, photoType
}

func TestCVSubmission_Payload(t *testing.T) {
	t.Run("Существующая ссылка попадает в personalInfo.photo", func(t *testing.T) {
		s := validSubmission()
		s.Photo = form.PhotoInput{
			Kind:        form.PhotoExisting,
			ExistingRef: "/api/image/photo-1-abc.png",
		}

		payload := s.Payload()
		require.NotNil(t, payload.PersonalInfo)
		require.NotNil(t, payload.PersonalInfo.Photo)
		assert.Equal(t, "/api/image/photo-1-abc.png", *payload.PersonalInfo.Photo)
	})

	t.Run("Новый файл не дублируется в JSON", func(t *testing.T) {
		s := validSubmission()
		s.Photo = form.PhotoInput{
			Kind: form.PhotoNew,
			File: &form.PhotoFile{Name: "a.png", ContentType: "image/png", Data: []byte{1}},
		}

		payload := s.Payload()
		require.NotNil(t, payload.PersonalInfo)
		assert.Nil(t, payload.PersonalInfo.Photo)
	})
}

func TestCVSubmission_EncodeMultipart(t *testing.T) {
	t.Run("Поле cvData содержит данные формы", func(t *testing.T) {
		s := validSubmission()

		body, contentType, err := s.EncodeMultipart()
		require.NoError(t, err)

		fields, _ := parts(t, body, contentType)
		require.Contains(t, fields, "cvData")
		assert.NotContains(t, fields, "photo")
		assert.NotContains(t, fields, "existingPhoto")

		var payload models.CVPayload
		require.NoError(t, json.Unmarshal([]byte(fields["cvData"]), &payload))
		require.NotNil(t, payload.PersonalInfo)
		assert.Equal(t, "Jean", payload.PersonalInfo.FirstName)
		require.NotNil(t, payload.Skills)
		assert.Equal(t, []string{"JavaScript", "React", "Node.js"}, *payload.Skills)
	})

	t.Run("Новый файл уходит частью photo с типом изображения", func(t *testing.T) {
		s := validSubmission()
		s.Photo = form.PhotoInput{
			Kind: form.PhotoNew,
			File: &form.PhotoFile{
				Name:        "avatar.png",
				ContentType: "image/png",
				Data:        []byte("png-bytes"),
			},
		}

		body, contentType, err := s.EncodeMultipart()
		require.NoError(t, err)

		fields, photoType := parts(t, body, contentType)
		assert.Equal(t, "png-bytes", fields["photo"])
		assert.Equal(t, "image/png", photoType)
		assert.NotContains(t, fields, "existingPhoto")
	})

	t.Run("Существующая ссылка уходит полем existingPhoto", func(t *testing.T) {
		s := validSubmission()
		s.Photo = form.PhotoInput{
			Kind:        form.PhotoExisting,
			ExistingRef: "/api/image/photo-1-abc.png",
		}

		body, contentType, err := s.EncodeMultipart()
		require.NoError(t, err)

		fields, _ := parts(t, body, contentType)
		assert.Equal(t, "/api/image/photo-1-abc.png", fields["existingPhoto"])
		assert.NotContains(t, fields, "photo")
	})
}
