package events

import "github.com/homelab-core/dispatchrr/internal/logging"

type StoreTracer struct{}

var Store = StoreTracer{}

func (StoreTracer) Loaded(path string, repos int) {
	logging.Trace("store.load", map[string]interface{}{"path": path, "repos": repos})
}

func (StoreTracer) LoadFallback(path string, err error) {
	logging.Trace("store.load.fallback", map[string]interface{}{"path": path, "error": err.Error()})
}

func (StoreTracer) Saved(path string, repos int) {
	logging.Trace("store.save", map[string]interface{}{"path": path, "repos": repos})
}

func (StoreTracer) SaveError(path string, err error) {
	logging.Trace("store.save.error", map[string]interface{}{"path": path, "error": err.Error()})
}
