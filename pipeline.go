package gallery

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const numWorkers = 10

// Ignore any file greater than 64 MB
const maxFileSize = 64 << (10 * 2)

func isPhoto(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

func hashFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

// decodeFile decodes the image in file and returns it along with the SHA-1 of
// the whole file.
func decodeFile(file string) (image.Image, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", file, err)
	}

	// The decoder may not consume any trailing bytes
	if _, err := io.Copy(h, f); err != nil {
		return nil, "", err
	}

	return m, fmt.Sprintf("%X", h.Sum(nil)), nil
}

func (g *Gallery) findPhotos(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !isPhoto(file) {
				return nil
			}

			if info.Size() > maxFileSize {
				g.logger.Printf("Skipping \"%s\", too large\n", file)
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (g *Gallery) photoWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if ctx.Err() != nil {
				return
			}

			m, sha, err := decodeFile(file)
			if err != nil {
				var pathErr *os.PathError
				if errors.As(err, &pathErr) {
					errc <- err
					return
				}
				g.logger.Printf("Unable to decode \"%s\": %v\n", file, err)
				continue
			}

			id, err := g.db.Insert(URI(file), strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
			if err != nil {
				errc <- err
				return
			}

			b, err := g.db.FindThumbnailBySHA1(sha)
			if err != nil {
				errc <- err
				return
			}
			if b == nil {
				if b, err = encodeThumbnail(m); err != nil {
					g.logger.Printf("Unable to create thumbnail for \"%s\": %v\n", file, err)
					continue
				}
			}

			if err := g.db.SetThumbnail(id, sha, b); err != nil {
				errc <- err
				return
			}

			g.logger.Printf("Added \"%s\" as photo %d\n", file, id)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// prune removes any cached photo whose file no longer exists.
func (g *Gallery) prune() error {
	photos, err := g.db.All()
	if err != nil {
		return err
	}

	for _, p := range photos {
		path, err := p.Path()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := g.db.Delete(p.URI); err != nil {
				return err
			}
			g.logger.Printf("Removed missing photo %d \"%s\"\n", p.ID, path)
		}
	}

	return nil
}

// Scan walks the library directory and adds every photo found to the
// metadata cache along with a thumbnail. Photos that have been removed from
// the library are dropped from the cache.
func (g *Gallery) Scan(ctx context.Context) error {
	dir := g.store.Dir()

	// Start identifiers from 1 again if the cache is empty
	n, err := g.db.Count()
	if err != nil {
		return err
	}
	if n == 0 {
		if err := g.db.Reset(); err != nil {
			return err
		}
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := g.findPhotos(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errc, err := g.photoWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return g.prune()
}
