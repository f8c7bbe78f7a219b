package orchestrator_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/buildpacks/meta-buildpack/internal/buildpack"
	"github.com/buildpacks/meta-buildpack/internal/orchestrator"
	h "github.com/buildpacks/meta-buildpack/testhelpers"
)

func TestErrors(t *testing.T) {
	spec.Run(t, "Errors", testErrors, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testErrors(t *testing.T, when spec.G, it spec.S) {
	when("#ExitCode", func() {
		it("is zero without an error", func() {
			h.AssertEq(t, orchestrator.ExitCode(nil), 0)
		})

		it("uses the code of a phase error", func() {
			err := errors.Wrap(&orchestrator.Error{Code: orchestrator.CodeConfig, Err: errors.New("bad")}, "compiling")
			h.AssertEq(t, orchestrator.ExitCode(err), orchestrator.CodeConfig)
		})

		it("uses the status of a failed entry point behind a soft error", func() {
			err := &orchestrator.SoftError{Err: &buildpack.FailedError{Path: "bin/compile", Code: 7}}
			h.AssertEq(t, orchestrator.ExitCode(err), 7)
			h.AssertEq(t, orchestrator.IsSoftError(errors.Wrap(err, "compiling")), true)
		})

		it("defaults to one", func() {
			h.AssertEq(t, orchestrator.ExitCode(errors.New("unexpected")), 1)
		})
	})

	it("keeps the three failure categories apart", func() {
		h.AssertNotEq(t, orchestrator.CodeNoBuildpack, orchestrator.CodeMalformed)
		h.AssertNotEq(t, orchestrator.CodeMalformed, orchestrator.CodeConfig)
		h.AssertNotEq(t, orchestrator.CodeNoBuildpack, orchestrator.CodeConfig)
	})
}
