package provisioning_test

import (
	"context"
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/imamik/provisionr/internal/config"
	"github.com/imamik/provisionr/internal/platform/installer"
	"github.com/imamik/provisionr/internal/provisioning"
	"github.com/imamik/provisionr/internal/provisioning/preflight"
	"github.com/imamik/provisionr/internal/provisioning/tasks"
	"github.com/imamik/provisionr/internal/provisioning/toolchain"
	"github.com/imamik/provisionr/internal/provisioning/verify"
	testutil "github.com/imamik/provisionr/internal/testing"
)

func pipelineFor(osID string) *provisioning.Pipeline {
	return provisioning.NewPipeline(
		&preflight.PlatformPhase{Identify: func(context.Context) string { return osID }},
		preflight.NewManifestPhase(),
		toolchain.NewManagerPhase(),
		tasks.NewInstallPhase(),
		tasks.NewChainedTasksPhase(),
		verify.NewPhase(),
		toolchain.NewAuxToolPhase(),
	)
}

var _ = Describe("Provisioning pipeline", func() {
	var (
		ws       *testutil.Workspace
		cfg      *config.Config
		runner   *testutil.FakeRunner
		inst     *testutil.MockInstaller
		observer *testutil.RecordingObserver
	)

	run := func(osID string) (*provisioning.Context, error) {
		ctx := ws.Context(cfg, runner, inst, observer)
		return ctx, pipelineFor(osID).Run(ctx)
	}

	BeforeEach(func() {
		ws = testutil.NewWorkspace(GinkgoT())
		cfg = testutil.NewConfigBuilder().
			WithTasks("setup-r", "install-r-packages").
			WithPackages("tidyverse", "knitr").
			Build()
		runner = testutil.NewFakeRunner().
			On("pixi run Rscript -e", testutil.Response{Stdout: "OK tidyverse\nOK knitr\n"}).
			On("pixi run quarto --version", testutil.Response{Stdout: "1.5.57\n"})
		inst = &testutil.MockInstaller{}
		observer = testutil.NewRecordingObserver()
	})

	Context("on a supported host with a manifest and the manager installed", func() {
		BeforeEach(func() {
			ws.WriteManifest("pixi.toml")
			ws.InstallManager("pixi")
		})

		It("runs every step in order and succeeds", func() {
			ctx, err := run("Linux 5.15")
			Expect(err).NotTo(HaveOccurred())
			Expect(provisioning.ExitCode(err)).To(Equal(0))

			Expect(runner.CommandLines()).To(HaveLen(5))
			Expect(runner.CommandLines()[:3]).To(Equal([]string{
				"pixi install",
				"pixi run setup-r",
				"pixi run install-r-packages",
			}))
			Expect(ctx.State.Packages.Satisfied()).To(Equal(2))
			Expect(ctx.State.AuxToolVersion).To(Equal("1.5.57"))
			Expect(observer.Messages(provisioning.EventInfo)).To(ContainElement("2/2 packages available"))
		})

		It("does not call the installer", func() {
			ctx, err := run("Darwin 23.1.0")
			Expect(err).NotTo(HaveOccurred())
			Expect(ctx.State.ManagerOutcome).To(Equal(provisioning.ToolAlreadyPresent))
			inst.AssertNotCalled(GinkgoT(), "Install", mock.Anything, mock.Anything)
		})

		It("runs every command with the install dir first on the search path", func() {
			_, err := run("Linux 5.15")
			Expect(err).NotTo(HaveOccurred())
			for _, call := range runner.Calls() {
				Expect(call.Path.Dirs()[0]).To(Equal(ws.InstallDir))
				Expect(call.Dir).To(Equal(ws.Dir))
			}
		})

		It("stops the chain at the first failing task and keeps its exit code", func() {
			runner.On("pixi run setup-r", testutil.Response{Code: 3})

			ctx, err := run("Linux 5.15")
			Expect(err).To(MatchError(provisioning.ErrExternalTaskFailed))
			Expect(provisioning.ExitCode(err)).To(Equal(3))
			Expect(runner.Ran("pixi run install-r-packages")).To(BeFalse())
			Expect(runner.Ran("pixi run Rscript")).To(BeFalse())

			failed, ok := ctx.State.Failed()
			Expect(ok).To(BeTrue())
			Expect(failed.Name).To(Equal(tasks.ChainedTasksPhaseName))

			last, _ := observer.Last()
			Expect(last.Type).To(Equal(provisioning.EventPhaseFailed))
			Expect(last.Fields["hint"]).To(ContainSubstring(`fix task "setup-r"`))
		})

		It("reports M/N when packages are missing", func() {
			runner.On("pixi run Rscript -e", testutil.Response{Stdout: "OK tidyverse\nMISSING knitr\n"})

			ctx, err := run("Linux 5.15")
			Expect(err).To(MatchError(provisioning.ErrVerificationIncomplete))
			Expect(err.Error()).To(ContainSubstring("1/2 packages available, missing: knitr"))
			Expect(ctx.State.Packages.Missing()).To(Equal([]string{"knitr"}))
			Expect(runner.Ran("pixi run quarto")).To(BeFalse())
		})

		It("is idempotent across runs", func() {
			_, err := run("Linux 5.15")
			Expect(err).NotTo(HaveOccurred())
			first := len(runner.Calls())

			_, err = run("Linux 5.15")
			Expect(err).NotTo(HaveOccurred())
			Expect(runner.Calls()).To(HaveLen(2 * first))
			inst.AssertNotCalled(GinkgoT(), "Install", mock.Anything, mock.Anything)
		})
	})

	Context("when the manager is missing", func() {
		BeforeEach(func() {
			ws.WriteManifest("pixi.toml")
		})

		It("installs it once and continues", func() {
			inst.On("Install", mock.Anything, mock.AnythingOfType("installer.Spec")).
				Run(func(mock.Arguments) { ws.InstallManager("pixi") }).
				Return(nil).Once()

			ctx, err := run("Linux 5.15")
			Expect(err).NotTo(HaveOccurred())
			Expect(ctx.State.ManagerOutcome).To(Equal(provisioning.ToolInstalled))
			inst.AssertExpectations(GinkgoT())
		})

		It("fails with ToolInstallFailed when the installer fails", func() {
			inst.On("Install", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

			_, err := run("Linux 5.15")
			Expect(err).To(MatchError(provisioning.ErrToolInstallFailed))
			Expect(runner.Calls()).To(BeEmpty())
		})

		It("fails when the installer succeeds but the manager is still absent", func() {
			inst.On("Install", mock.Anything, mock.MatchedBy(func(spec installer.Spec) bool {
				return spec.URL == cfg.Manager.InstallURL
			})).Return(nil).Once()

			_, err := run("Linux 5.15")
			Expect(err).To(MatchError(provisioning.ErrToolInstallFailed))
		})
	})

	It("rejects an unsupported platform before touching anything", func() {
		ws.WriteManifest("pixi.toml")

		_, err := run("SomeBSD 1.0")
		Expect(err).To(MatchError(provisioning.ErrUnsupportedPlatform))
		Expect(provisioning.ExitCode(err)).To(Equal(1))
		Expect(runner.Calls()).To(BeEmpty())
		inst.AssertNotCalled(GinkgoT(), "Install", mock.Anything, mock.Anything)
	})

	It("fails on a missing manifest before installing the manager", func() {
		_, err := run("Linux 5.15")
		Expect(err).To(MatchError(provisioning.ErrMissingManifest))
		Expect(runner.Calls()).To(BeEmpty())
		inst.AssertNotCalled(GinkgoT(), "Install", mock.Anything, mock.Anything)

		_, statErr := os.Stat(ws.InstallDir)
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})
})
