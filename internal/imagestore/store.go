// Package imagestore отдаёт read-only доступ к каталогу изображений: разбор
// запрошенного пути, защита от выхода за пределы корня и подбор расширения.
package imagestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/sir_venger/imgserve/internal/models"
)

// DefaultExtensions перебираются по порядку, если в запросе нет расширения.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "svg", "json"}

// Store — каталог изображений. Корень открывается через os.Root на каждый
// запрос: подмена каталога (mv images.new images) видна сразу.
type Store struct {
	dir  string
	exts []string
}

// New проверяет, что dir открывается как корень. Пустой exts означает DefaultExtensions.
func New(dir string, exts []string) (*Store, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open image dir %s: %w", dir, err)
	}
	_ = root.Close()
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	return &Store{
		dir:  dir,
		exts: append([]string(nil), exts...),
	}, nil
}

// Dir возвращает абсолютный путь каталога.
func (s *Store) Dir() string {
	return s.dir
}

// Resolve находит файл по имени из URL. Точное совпадение важнее подбора
// расширения; каталоги не отдаются никогда.
func (s *Store) Resolve(name string) (*models.Image, error) {
	rel, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	root, err := s.openRoot()
	if err != nil {
		return nil, err
	}
	defer root.Close()

	if img, ok := lookup(root, rel); ok {
		return img, nil
	}

	if path.Ext(rel) == "" {
		for _, ext := range s.exts {
			if img, ok := lookup(root, rel+"."+ext); ok {
				return img, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", models.ErrNotFound, name)
}

// Open открывает ранее найденный файл. Дескриптор файла живёт дольше корня.
func (s *Store) Open(img *models.Image) (*os.File, error) {
	root, err := s.openRoot()
	if err != nil {
		return nil, err
	}
	defer root.Close()

	f, err := root.Open(img.Name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, img.Name)
	}

	return f, err
}

// Stats проходит по каталогу и суммирует размеры обычных файлов.
func (s *Store) Stats() (models.Stats, error) {
	var st models.Stats

	root, err := s.openRoot()
	if err != nil {
		return st, err
	}
	defer root.Close()

	err = fs.WalkDir(root.FS(), ".", func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		st.Files++
		st.TotalBytes += info.Size()

		return nil
	})

	return st, err
}

// openRoot открывает каталог по пути; пропавший каталог — это 404, а не 500.
func (s *Store) openRoot() (*os.Root, error) {
	root, err := os.OpenRoot(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: image dir %s is gone", models.ErrNotFound, s.dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open image dir %s: %w", s.dir, err)
	}

	return root, nil
}

func lookup(root *os.Root, rel string) (*models.Image, bool) {
	// Stat через os.Root идёт по симлинкам, но не выпускает за пределы корня.
	fi, err := root.Stat(rel)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, false
	}

	return &models.Image{
		Name:        rel,
		Size:        fi.Size(),
		ModTime:     fi.ModTime(),
		ContentType: ContentType(rel),
	}, true
}

// cleanName нормализует путь из URL и отбрасывает всё, что может указывать
// за пределы каталога.
func cleanName(name string) (string, error) {
	if name == "" || strings.HasSuffix(name, "/") {
		return "", fmt.Errorf("%w: %q", models.ErrNotFound, name)
	}
	if strings.Contains(name, "\x00") {
		return "", fmt.Errorf("%w: %q", models.ErrBadPath, name)
	}

	segs := make([]string, 0, strings.Count(name, "/")+1)
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." {
			continue
		}
		// Обратный слэш на POSIX — обычный символ имени, но ".." и dotfile
		// между ними отклоняем так же, как между прямыми.
		for _, part := range strings.Split(seg, `\`) {
			switch {
			case part == "..":
				return "", fmt.Errorf("%w: %q", models.ErrForbidden, name)
			case strings.HasPrefix(part, "."):
				// dotfiles не отдаём
				return "", fmt.Errorf("%w: %q", models.ErrNotFound, name)
			}
		}
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return "", fmt.Errorf("%w: %q", models.ErrNotFound, name)
	}

	return strings.Join(segs, "/"), nil
}
