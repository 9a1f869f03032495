package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrQuotaExceeded возвращается, когда бесплатный пользователь исчерпал квоту.
// Текст совпадает с detail в HTTP-ответе 429.
var ErrQuotaExceeded = errors.New("Free tier limit reached")

// InvalidFileTypeError ошибка валидации расширения загруженного файла.
type InvalidFileTypeError struct {
	Filename string
	Allowed  []string
}

func (e *InvalidFileTypeError) Error() string {
	return fmt.Sprintf("invalid file type: %s, allowed: %s", e.Filename, strings.Join(e.Allowed, ", "))
}

// FileTooLargeError ошибка превышения максимального размера файла.
type FileTooLargeError struct {
	SizeBytes int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %d bytes", e.SizeBytes)
}

// SizeMB возвращает размер файла в мегабайтах, округлённый до двух знаков.
func (e *FileTooLargeError) SizeMB() float64 {
	return Round2(float64(e.SizeBytes) / (1024 * 1024))
}

// ProviderError ошибка обращения к модели анализа изображений.
// Оборачивает исходную причину: сетевую ошибку либо ошибку API.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("vision provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Round2 округляет значение до двух знаков после запятой.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
