package gallery

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	// MIMEType is the content type of every photo written by a Store.
	MIMEType = "image/jpeg"

	jpegQuality = 100
	extension   = ".jpg"

	// Display name prefixes for the different ways a photo is written
	SavedPrefix    = "Saved_Photo"
	EditedPrefix   = "Edited_Photo"
	ReplacedPrefix = "Replaced_Photo"
)

// ErrNotFound is returned when a photo identifier is not in the cache.
var ErrNotFound = errors.New("gallery: photo not found")

// URI returns the URI for the file at path.
func URI(path string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}
	return u.String()
}

// Path returns the local filesystem path of the photo.
func (p Photo) Path() (string, error) {
	u, err := url.Parse(p.URI)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("gallery: unsupported URI scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

// Store reads and writes photos in a library directory, keeping the metadata
// cache up to date.
type Store struct {
	dir string
	db  *PhotoDB
	now func() time.Time
}

// NewStore returns a Store for the library at dir, creating it if necessary.
func NewStore(dir string, db *PhotoDB) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, err
	}
	return &Store{
		dir: abs,
		db:  db,
		now: time.Now,
	}, nil
}

// Dir returns the absolute path of the library directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) find(id int64) (*Photo, error) {
	p, err := s.db.Find(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return p, nil
}

// create opens a new file for name, adding a numeric suffix to the name if a
// file already exists.
func (s *Store) create(name string) (*os.File, string, error) {
	for i := 0; ; i++ {
		n := name
		if i > 0 {
			n = fmt.Sprintf("%s_%d", name, i)
		}
		f, err := os.OpenFile(filepath.Join(s.dir, n+extension), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return f, n, nil
	}
}

// Save writes m to the library as a new JPEG photo named after prefix and
// the current time, and adds it to the cache.
func (s *Store) Save(m image.Image, prefix string) (*Photo, error) {
	f, name, err := s.create(fmt.Sprintf("%s_%d", prefix, s.now().UnixNano()/int64(time.Millisecond)))
	if err != nil {
		return nil, err
	}
	path := f.Name()

	if err := jpeg.Encode(f, m, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	uri := URI(path)
	id, err := s.db.Insert(uri, name)
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &Photo{
		ID:   id,
		URI:  uri,
		Name: name,
	}, nil
}

// Open decodes the photo with the given identifier.
func (s *Store) Open(id int64) (image.Image, error) {
	p, err := s.find(id)
	if err != nil {
		return nil, err
	}

	path, err := p.Path()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Delete removes the photo file and its cache entry.
func (s *Store) Delete(id int64) error {
	p, err := s.find(id)
	if err != nil {
		return err
	}

	path, err := p.Path()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return s.db.Delete(p.URI)
}

// Replace saves m as a new photo and then removes the photo with the given
// identifier. The original is left in place if the new photo can't be
// written.
func (s *Store) Replace(id int64, m image.Image) (*Photo, error) {
	if _, err := s.find(id); err != nil {
		return nil, err
	}

	p, err := s.Save(m, ReplacedPrefix)
	if err != nil {
		return nil, err
	}

	if err := s.Delete(id); err != nil {
		return nil, err
	}

	return p, nil
}
