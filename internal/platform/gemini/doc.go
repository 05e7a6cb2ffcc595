// Package gemini implements generation.Generator on top of the Google Gemini
// API. Requests ask for a JSON response of the form
//
//	{"cards":[{"front":"...","back":"..."}]}
//
// and transient API failures are retried with exponential backoff and jitter.
package gemini
