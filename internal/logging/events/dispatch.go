package events

import "github.com/homelab-core/dispatchrr/internal/logging"

type DispatchTracer struct{}

var Dispatch = DispatchTracer{}

func (DispatchTracer) Plan(repo, workflow string, args int) {
	logging.Trace("dispatch.plan", map[string]interface{}{"repo": repo, "workflow": workflow, "args": args})
}

func (DispatchTracer) Invalid(err error) {
	logging.Trace("dispatch.invalid", map[string]interface{}{"error": err.Error()})
}

func (DispatchTracer) Confirm(preview string) {
	logging.Trace("dispatch.confirm", map[string]interface{}{"preview": preview})
}

func (DispatchTracer) Cancel() {
	logging.Trace("dispatch.cancel", nil)
}

func (DispatchTracer) Result(repo, workflow string, err error) {
	payload := map[string]interface{}{"repo": repo, "workflow": workflow}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("dispatch.result", payload)
}

func (DispatchTracer) RunFound(repo string, runID int64) {
	logging.Trace("dispatch.run", map[string]interface{}{"repo": repo, "run": runID})
}

func (DispatchTracer) RunLog(repo string, runID int64, lines int) {
	logging.Trace("dispatch.run.log", map[string]interface{}{"repo": repo, "run": runID, "lines": lines})
}

func (DispatchTracer) ReplaySaved(repo, workflow, description string) {
	logging.Trace("dispatch.replay.save", map[string]interface{}{"repo": repo, "workflow": workflow, "description": description})
}

func (DispatchTracer) ReplayRun(repo, workflow string) {
	logging.Trace("dispatch.replay.run", map[string]interface{}{"repo": repo, "workflow": workflow})
}

func (DispatchTracer) ReplayDeleted(repo, description string) {
	logging.Trace("dispatch.replay.delete", map[string]interface{}{"repo": repo, "description": description})
}
