package services

import "io"

// PhotoActionKind перечисляет варианты полиморфного поля фотографии.
type PhotoActionKind int

const (
	// PhotoRemove — фотографии нет или её нужно убрать.
	PhotoRemove PhotoActionKind = iota
	// PhotoKeep — сохранить существующую ссылку без перезагрузки файла.
	PhotoKeep
	// PhotoReplace — загружен новый бинарный файл.
	PhotoReplace
	// PhotoLeave — поле не передано (cvData без personalInfo), фотографию не трогать.
	PhotoLeave
)

// PhotoUpload описывает новый загружаемый файл фотографии.
type PhotoUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string // исходное имя, используется только для расширения
}

// PhotoAction — размеченный вариант поля фотографии, разрешённый один раз
// на транспортной границе: Keep(ссылка) | Replace(файл) | Remove | Leave.
type PhotoAction struct {
	Kind        PhotoActionKind
	Upload      *PhotoUpload // заполнен при PhotoReplace
	ExistingRef string       // заполнен при PhotoKeep
}

// KeepPhoto сохраняет существующую ссылку на фотографию.
func KeepPhoto(ref string) PhotoAction {
	return PhotoAction{Kind: PhotoKeep, ExistingRef: ref}
}

// ReplacePhoto заменяет фотографию новым файлом.
func ReplacePhoto(upload *PhotoUpload) PhotoAction {
	return PhotoAction{Kind: PhotoReplace, Upload: upload}
}

// RemovePhoto убирает фотографию.
func RemovePhoto() PhotoAction {
	return PhotoAction{Kind: PhotoRemove}
}

// LeavePhoto оставляет фотографию записи без изменений.
func LeavePhoto() PhotoAction {
	return PhotoAction{Kind: PhotoLeave}
}
