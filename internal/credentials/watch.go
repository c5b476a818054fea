package credentials

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"rollcall/pkg/logging"
)

// Watch drops the cached pair whenever another process writes, replaces or
// removes the credential file, e.g. `rollcall auth login` in a second shell.
// It returns once the watcher is installed; watching stops when ctx is done.
// onChange, when non-nil, is called after each invalidation.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create credential watcher: %w", err)
	}

	// Watch the directory: atomic replacement renames over the file, which
	// would silently detach a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	eventsCh := watcher.Events
	errorsCh := watcher.Errors
	name := filepath.Base(s.path)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-eventsCh:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				logging.Debug("CredentialStore", "Credential file changed (%s), dropping cache", event.Op)
				s.Invalidate()
				if onChange != nil {
					onChange()
				}

			case err, ok := <-errorsCh:
				if !ok {
					return
				}
				logging.Error("CredentialStore", err, "fsnotify error")
			}
		}
	}()

	logging.Debug("CredentialStore", "Watching %s for credential changes", s.path)
	return nil
}
