package gallery

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Photo is a single entry in the metadata cache.
type Photo struct {
	ID   int64
	URI  string
	Name string
}

// PhotoDB is the metadata cache of the photos in a library.
type PhotoDB struct {
	db *sql.DB
}

// NewPhotoDB opens the SQLite database at file, creating the tables as
// required.
func NewPhotoDB(file string) (*PhotoDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY AUTOINCREMENT, uri TEXT NOT NULL UNIQUE, name TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS thumbnail (image_id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, data BLOB NOT NULL, FOREIGN KEY(image_id) REFERENCES image(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	return &PhotoDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *PhotoDB) Close() error {
	return db.db.Close()
}

// Insert adds a photo to the cache and returns its identifier. If the URI is
// already cached the existing identifier is returned.
func (db *PhotoDB) Insert(uri, name string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM image WHERE uri = ?", uri).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO image (uri, name) VALUES (?, ?)", uri, name)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Delete removes the photo with the given URI, along with its thumbnail.
func (db *PhotoDB) Delete(uri string) error {
	if _, err := db.db.Exec("DELETE FROM image WHERE uri = ?", uri); err != nil {
		return err
	}
	return nil
}

func (db *PhotoDB) find(query string, arg interface{}) (*Photo, error) {
	var p Photo
	switch err := db.db.QueryRow(query, arg).Scan(&p.ID, &p.URI, &p.Name); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &p, nil
	default:
		return nil, err
	}
}

// Find returns the photo with the given identifier, or nil if there is no
// such photo.
func (db *PhotoDB) Find(id int64) (*Photo, error) {
	return db.find("SELECT id, uri, name FROM image WHERE id = ?", id)
}

// FindByURI returns the photo with the given URI, or nil if there is no such
// photo.
func (db *PhotoDB) FindByURI(uri string) (*Photo, error) {
	return db.find("SELECT id, uri, name FROM image WHERE uri = ?", uri)
}

// All returns every cached photo ordered by identifier.
func (db *PhotoDB) All() ([]Photo, error) {
	rows, err := db.db.Query("SELECT id, uri, name FROM image ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.URI, &p.Name); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}

	return photos, rows.Err()
}

// Count returns the number of cached photos.
func (db *PhotoDB) Count() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM image").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Reset empties the cache and restarts identifiers from 1.
func (db *PhotoDB) Reset() error {
	if _, err := db.db.Exec("DELETE FROM thumbnail"); err != nil {
		return err
	}

	if _, err := db.db.Exec("DELETE FROM image"); err != nil {
		return err
	}

	if _, err := db.db.Exec("DELETE FROM sqlite_sequence WHERE name = 'image'"); err != nil {
		return err
	}

	return nil
}

// SetThumbnail stores the thumbnail for the photo id. sha is the SHA-1 of the
// photo file the thumbnail was generated from.
func (db *PhotoDB) SetThumbnail(id int64, sha string, data []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO thumbnail (image_id, sha1, data) VALUES (?, ?, ?)", id, sha, data); err != nil {
		return err
	}
	return nil
}

// Thumbnail returns the thumbnail for the photo id, or nil if there isn't
// one.
func (db *PhotoDB) Thumbnail(id int64) ([]byte, error) {
	var data []byte
	switch err := db.db.QueryRow("SELECT data FROM thumbnail WHERE image_id = ?", id).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return data, nil
	default:
		return nil, err
	}
}

// FindThumbnailBySHA1 returns any thumbnail generated from a file with the
// given SHA-1, or nil if there isn't one.
func (db *PhotoDB) FindThumbnailBySHA1(sha string) ([]byte, error) {
	var data []byte
	switch err := db.db.QueryRow("SELECT data FROM thumbnail WHERE sha1 = ? LIMIT 1", sha).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return data, nil
	default:
		return nil, err
	}
}
