package execution

import "fmt"

// ProvisionErrorKind tags the distinct ways environment provisioning fails.
type ProvisionErrorKind string

const (
	// KindUnsupportedLanguage: no provisioning strategy exists for the
	// requested language tag.
	KindUnsupportedLanguage ProvisionErrorKind = "unsupported_language"
	// KindToolchainMissing: a required compiler or runtime binary is
	// absent. Fatal environment condition, never retried.
	KindToolchainMissing ProvisionErrorKind = "toolchain_missing"
	// KindDependencyInstallFailed: the isolated runtime environment could
	// not be materialized.
	KindDependencyInstallFailed ProvisionErrorKind = "dependency_install_failed"
	// KindCompileFailed: the toolchain rejected the source or test code.
	// Output carries the compiler diagnostics verbatim.
	KindCompileFailed ProvisionErrorKind = "compile_failed"
)

// ProvisionError reports a failure to set up an execution environment.
type ProvisionError struct {
	Kind    ProvisionErrorKind
	Message string
	// Output is the verbatim tool output, when a tool produced any.
	Output string
}

func (e *ProvisionError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s\n%s", e.Kind, e.Message, e.Output)
}
