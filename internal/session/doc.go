// Package session orchestrates one interactive scamscan session.
//
// A Session owns the request coordinator, the follow-up controller, the
// monotonic scan counters (Stats), the in-memory history and the current
// report. Presentation layers (the CLI and the TUI) talk only to a Session:
//
//	Scan ──▶ Coordinator.Submit ──▶ Stats.RecordScan ──▶ history ──▶ Controller.Show
//	Refine ──▶ Controller.Refine ──▶ current report replaced ──▶ history
//
// The current report has a single owner. A refinement never mutates it; a
// successful refinement replaces it wholesale.
package session
