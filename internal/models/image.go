package models

import "time"

// Image описывает найденный на диске файл, готовый к отдаче.
type Image struct {
	// Name — путь относительно каталога изображений, с учётом подобранного расширения.
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Stats — агрегированная статистика по каталогу изображений.
type Stats struct {
	Files      int   `json:"files"`
	TotalBytes int64 `json:"total_bytes"`
}
