// Package logging provides opt-in file logging with rotation for amanalign.
// When the --debug flag is set, structured JSON logs of every run are
// written to ~/.amanalign/logs/align.log.
//
// Without --debug only warnings reach stderr, so the diagnostic stream stays
// readable.
package logging
