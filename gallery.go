/*
Package gallery is a library for maintaining a photo library: indexing photos
into a metadata cache, applying simple effects and saving, replacing or
deleting photos.
*/
package gallery

import (
	"bytes"
	"context"
	"image"
	"log"

	"github.com/bodgit/gallery/effect"
	"github.com/bodgit/gallery/task"
	"github.com/bodgit/gallery/thumbnail"
)

// Gallery ties a photo library directory to its metadata cache.
type Gallery struct {
	db     *PhotoDB
	store  *Store
	logger *log.Logger
}

// New opens the metadata cache at dbFile for the library at dir.
func New(dbFile, dir string, logger *log.Logger) (*Gallery, error) {
	db, err := NewPhotoDB(dbFile)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(dir, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Gallery{
		db:     db,
		store:  store,
		logger: logger,
	}, nil
}

// Close closes the metadata cache.
func (g *Gallery) Close() error {
	return g.db.Close()
}

// Photos returns every photo in the cache.
func (g *Gallery) Photos() ([]Photo, error) {
	return g.db.All()
}

// Photo returns the photo with the given identifier.
func (g *Gallery) Photo(id int64) (*Photo, error) {
	return g.store.find(id)
}

// Open decodes the photo with the given identifier.
func (g *Gallery) Open(id int64) (image.Image, error) {
	return g.store.Open(id)
}

// Edit decodes the photo with the given identifier and returns a copy with
// the effect e applied.
func (g *Gallery) Edit(id int64, e effect.Effect) (image.Image, error) {
	m, err := g.store.Open(id)
	if err != nil {
		return nil, err
	}
	return effect.Apply(m, e)
}

// EditAsync runs Edit in the background. Unless the returned task is
// cancelled, done is posted to loop with the result.
func (g *Gallery) EditAsync(ctx context.Context, loop *task.Loop, id int64, e effect.Effect, done func(image.Image, error)) *task.Task {
	var m image.Image
	return task.Start(ctx, loop, func(ctx context.Context) error {
		src, err := g.store.Open(id)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err = effect.Apply(src, e)
		return err
	}, func(err error) {
		if err != nil {
			g.logger.Printf("Unable to apply %s to photo %d: %v\n", e, id, err)
		}
		done(m, err)
	})
}

// Save writes m to the library as a new photo.
func (g *Gallery) Save(m image.Image) (*Photo, error) {
	p, err := g.store.Save(m, EditedPrefix)
	if err != nil {
		return nil, err
	}
	g.logger.Printf("Saved \"%s\" as photo %d\n", p.Name, p.ID)
	g.thumbnailBestEffort(p, m)
	return p, nil
}

// Replace replaces the photo with the given identifier with m. The new photo
// gets a new identifier.
func (g *Gallery) Replace(id int64, m image.Image) (*Photo, error) {
	p, err := g.store.Replace(id, m)
	if err != nil {
		return nil, err
	}
	g.logger.Printf("Replaced photo %d with \"%s\" as photo %d\n", id, p.Name, p.ID)
	g.thumbnailBestEffort(p, m)
	return p, nil
}

// Delete removes the photo with the given identifier from the library.
func (g *Gallery) Delete(id int64) error {
	if err := g.store.Delete(id); err != nil {
		return err
	}
	g.logger.Printf("Deleted photo %d\n", id)
	return nil
}

// Reset empties the metadata cache. The library itself is untouched.
func (g *Gallery) Reset() error {
	return g.db.Reset()
}

// Thumbnail returns the encoded thumbnail for the photo with the given
// identifier, generating it if it isn't cached.
func (g *Gallery) Thumbnail(id int64) ([]byte, error) {
	b, err := g.db.Thumbnail(id)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}

	p, err := g.store.find(id)
	if err != nil {
		return nil, err
	}

	path, err := p.Path()
	if err != nil {
		return nil, err
	}

	m, sha, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	b, err = encodeThumbnail(m)
	if err != nil {
		return nil, err
	}

	if err := g.db.SetThumbnail(id, sha, b); err != nil {
		return nil, err
	}

	return b, nil
}

func encodeThumbnail(m image.Image) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := thumbnail.Encode(b, m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// A failed thumbnail is only logged, it will be regenerated on demand.
func (g *Gallery) thumbnailBestEffort(p *Photo, m image.Image) {
	path, err := p.Path()
	if err != nil {
		g.logger.Printf("Unable to create thumbnail for photo %d: %v\n", p.ID, err)
		return
	}

	sha, err := hashFile(path)
	if err != nil {
		g.logger.Printf("Unable to create thumbnail for photo %d: %v\n", p.ID, err)
		return
	}

	b, err := encodeThumbnail(m)
	if err != nil {
		g.logger.Printf("Unable to create thumbnail for photo %d: %v\n", p.ID, err)
		return
	}

	if err := g.db.SetThumbnail(p.ID, sha, b); err != nil {
		g.logger.Printf("Unable to store thumbnail for photo %d: %v\n", p.ID, err)
	}
}
