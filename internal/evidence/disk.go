package evidence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shenikar/trashunter/internal/models"
)

// DiskStore пишет файлы в каталог, который сервер раздает по /uploads
type DiskStore struct {
	dir        string
	publicBase string
	now        func() time.Time
}

func NewDiskStore(dir, publicBase string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("evidence: could not create upload dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, publicBase: publicBase, now: time.Now}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(ctx context.Context, ev models.Evidence) (string, error) {
	mt, err := Sniff(ev.Data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := objectName(ev, mt, s.now())
	if err := os.WriteFile(filepath.Join(s.dir, name), ev.Data, 0o644); err != nil {
		return "", fmt.Errorf("evidence: failed to write %s: %w", name, err)
	}
	return s.publicBase + "/uploads/" + name, nil
}
