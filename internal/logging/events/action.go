package events

import "github.com/homelab-core/dispatchrr/internal/logging"

type ActionTracer struct{}

var Action = ActionTracer{}

func (ActionTracer) FetchBegin(kind, target string) {
	logging.Trace("action.fetch", map[string]interface{}{"kind": kind, "target": target})
}

func (ActionTracer) FetchDone(kind, target string, count int) {
	logging.Trace("action.fetch.done", map[string]interface{}{"kind": kind, "target": target, "count": count})
}

func (ActionTracer) FetchError(kind, target string, err error) {
	logging.Trace("action.fetch.error", map[string]interface{}{"kind": kind, "target": target, "error": err.Error()})
}

func (ActionTracer) RepoAdded(name string) {
	logging.Trace("action.repo.add", map[string]interface{}{"name": name})
}

func (ActionTracer) Browse(url string) {
	logging.Trace("action.browse", map[string]interface{}{"url": url})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}
