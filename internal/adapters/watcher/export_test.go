package watcher

// ConvertEvent exposes convertEvent for testing.
var ConvertEvent = convertEvent

// InjectError delivers err on the underlying fsnotify error channel.
func (w *Watcher) InjectError(err error) {
	w.fsWatcher.Errors <- err
}
