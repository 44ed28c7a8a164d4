package runner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Watch regenerates schema files as they change until ctx is done. It watches
// the static prefix of the glob and the directory of every file matched at
// start; directories created later are not picked up.
func (r *Runner) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := r.watchDirs()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
	}
	r.logger.Info().Strs("dirs", dirs).Str("glob", r.cfg.InputFile).Msg("watching schema files for changes")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			r.handle(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error().Err(err).Msg("file watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}

// handle reprocesses the file of a write or create event when it matches the
// input glob. It reports whether the file was processed.
func (r *Runner) handle(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	ok, err := doublestar.PathMatch(r.cfg.InputFile, event.Name)
	if err != nil || !ok {
		return false
	}
	r.logger.Debug().
		Str("event", event.Op.String()).
		Str("file", event.Name).
		Msg("schema file changed")

	if _, err := r.ProcessFile(event.Name); err != nil {
		r.logger.Error().Err(err).Str("file", event.Name).Msg("regeneration failed")
	}
	return true
}

func (r *Runner) watchDirs() ([]string, error) {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(r.cfg.InputFile))
	seen := map[string]bool{filepath.FromSlash(base): true}
	dirs := []string{filepath.FromSlash(base)}

	files, err := r.Files()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
