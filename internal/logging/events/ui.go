package events

import "github.com/homelab-core/dispatchrr/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

var (
	UI     = UITracer{}
	Filter = FilterTracer{}
)

func (UITracer) Focus(from, to string) {
	logging.Trace("ui.focus", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) Cursor(panel string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"panel": panel, "cursor": cursor})
}

func (UITracer) PopupOpen(kind string) {
	logging.Trace("ui.popup.open", map[string]interface{}{"kind": kind})
}

func (UITracer) PopupReplace(prev, kind string) {
	logging.Trace("ui.popup.replace", map[string]interface{}{"prev": prev, "kind": kind})
}

func (UITracer) PopupClose(kind, focus string) {
	logging.Trace("ui.popup.close", map[string]interface{}{"kind": kind, "focus": focus})
}

func (UITracer) WindowSize(width, height int) {
	logging.Trace("ui.window-size", map[string]interface{}{"width": width, "height": height})
}

func (FilterTracer) Begin(panel string) {
	logging.Trace("filter.begin", map[string]interface{}{"panel": panel})
}

func (FilterTracer) Edit(panel, query string, matches int) {
	logging.Trace("filter.edit", map[string]interface{}{"panel": panel, "query": query, "matches": matches})
}

func (FilterTracer) Commit(panel, query string) {
	logging.Trace("filter.commit", map[string]interface{}{"panel": panel, "query": query})
}

func (FilterTracer) Cancel(panel string) {
	logging.Trace("filter.cancel", map[string]interface{}{"panel": panel})
}

func (FilterTracer) Cleared(panel string) {
	logging.Trace("filter.clear", map[string]interface{}{"panel": panel})
}
