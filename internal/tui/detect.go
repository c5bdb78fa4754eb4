package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for savemigrate.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and piped output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// NonInteractiveEnvVar forces plain output when set to "1".
const NonInteractiveEnvVar = "SAVEMIGRATE_NON_INTERACTIVE"

// DetectMode determines whether output should be styled for a terminal.
//
// Returns ModeNonInteractive if:
//   - SAVEMIGRATE_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//   - stdout is not a terminal (redirected or piped)
//
// Returns ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnvVar) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
