// Package main provides the entry point for the scamscan CLI.
//
// scamscan sends text messages to a scam classifier and reports the
// verdict, the flagged terms and what to do. When the classifier is unsure
// it asks follow-up questions whose answers refine the result.
//
// Usage:
//
//	scamscan check "<message>"
//	scamscan check --file messages.txt
//	scamscan tui
//	scamscan mock
//
// See --help for all available options.
package main

// main is the entry point for scamscan.
func main() {
	Execute()
}
