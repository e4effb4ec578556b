// Package ui contains the Bubble Tea program that drives the dispatch
// browser. The package is structured so the Model type focuses on message
// orchestration, while dedicated helpers own navigation, search entry,
// collaborator actions, popup handling, and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Update routes each message through a typed handler registry so every
//     tea.Msg is handled by a focused function (key presses, window resizes).
//   - Key presses consult the active popup first: while a popup is open its
//     handler is the only reachable one, so normal-mode shortcuts can never
//     leak into a text field. With no popup the post-dispatch run prompt,
//     then search entry, then the normal-mode key table take the key.
//
// State ownership:
//   - Per-panel list state (labels, filtered view, query, cursor, viewport)
//     lives in internal/ui/state.Panel; the focus ring and popup bookkeeping
//     are internal/ui/state.Focus and internal/ui/state.ModalStack.
//   - The persisted repo list and replays are loaded once from the config
//     store and mutated in place; every mutation saves through the store
//     immediately and surfaces failures as status text.
//   - All GitHub traffic goes through the Fetcher and Dispatcher
//     collaborators. Calls happen synchronously inside the action methods,
//     so results fold back into the model before Update returns and no
//     second goroutine ever touches state.
//
// This separation keeps Model.Update compact and makes it possible to test
// navigation, filtering, popup routing, and dispatch flows without a
// terminal attached (see Harness).
package ui
