package evidence

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/shenikar/trashunter/internal/models"
)

var (
	ErrEmpty    = errors.New("evidence: file is empty")
	ErrNotImage = errors.New("evidence: file is not an image")
)

// Sniff определяет тип содержимого по сигнатуре; принимаются только изображения
func Sniff(data []byte) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return mt, nil
		}
	}
	return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
}

// objectName - уникальное имя файла: метка времени, uuid и расширение по типу содержимого
func objectName(ev models.Evidence, mt *mimetype.MIME, now time.Time) string {
	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(ev.Filename))
	}
	return fmt.Sprintf("%s_%s%s", now.UTC().Format("20060102150405"), uuid.NewString(), ext)
}
