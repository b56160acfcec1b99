// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// Scam messages routinely quote one-time codes, PINs and card numbers, so the
// SecureHandler masks:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (passwords, tokens, keys)
//   - OTP, PIN, CVV and card-number attributes, and card-number-like digit runs
//   - Raw message text logged under message, text or body keys
//
// Even in verbose mode, sensitive values are masked. Refer to a scanned
// message with MessageAttrs, which logs a digest and a length only.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("scan submitted",
//	    log.MessageAttrs(message)...,
//	)
//
//	slog.SetDefault(logger)
package log
