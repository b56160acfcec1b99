// Package tui is the interactive terminal front end of scamscan.
//
// The Model is a bubbletea model over a session.Session. A message typed in
// the text area is submitted with Ctrl+S; while the scan runs, the progress
// lines stream in below a spinner and further submissions are dropped. The
// finished report shows the verdict, a probability gauge, the message with
// the flagged terms highlighted, and the classifier's advice.
//
// When the classifier asks follow-up questions, focus moves to the
// follow-up panel:
//
//	↑/↓ or k/j   select a question
//	y / n        answer it
//	backspace    withdraw the answer
//	r or enter   refine the result with the selected answers
//	tab / esc    back to the text area
//
// Scans and refinements run in tea.Cmds. Progress lines and the final
// outcome travel over one channel per submission, so they are applied to
// the model in the order they were produced.
package tui
