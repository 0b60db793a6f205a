//go:build integration

package integration

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
	"github.com/eliteGoblin/focusd/glicpatch/internal/infra"
	"github.com/eliteGoblin/focusd/glicpatch/internal/usecase"
	"github.com/eliteGoblin/focusd/glicpatch/test/fixtures"
)

// startFakeChrome runs a copy of sleep named "chrome" and reaps it in the
// background so it disappears from the process table once signaled.
func startFakeChrome(dir string) (*exec.Cmd, error) {
	sleepPath, err := exec.LookPath("sleep")
	if err != nil {
		return nil, err
	}

	src, err := os.Open(sleepPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	binary := filepath.Join(dir, "chrome")
	dst, err := os.OpenFile(binary, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, err
	}
	if err := dst.Close(); err != nil {
		return nil, err
	}

	cmd := exec.Command(binary, "60")
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	go func() { _ = cmd.Wait() }()
	return cmd, nil
}

var _ = Describe("Stopping a real process", func() {
	var (
		tmpDir string
		child  *exec.Cmd
	)

	BeforeEach(func() {
		tmpDir, child = "", nil
		if runtime.GOOS != "linux" {
			Skip("process names are only predictable on Linux")
		}

		checker := infra.NewExecProcessControl()
		for _, name := range []string{"chrome", "google-chrome"} {
			found, err := checker.Exists(name)
			if err != nil {
				Skip("pgrep unavailable: " + err.Error())
			}
			if found {
				Skip("a real Chrome is running on this host")
			}
		}

		var err error
		tmpDir, err = os.MkdirTemp("", "glicpatch-proc-*")
		Expect(err).NotTo(HaveOccurred())

		child, err = startFakeChrome(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if child != nil && child.Process != nil {
			_ = child.Process.Kill()
		}
		if tmpDir != "" {
			os.RemoveAll(tmpDir)
		}
	})

	DescribeTable("terminating with each backend",
		func(newControl func() domain.ProcessControl) {
			control := newControl()
			query := domain.ProcessQuery{Names: []string{"chrome", "google-chrome"}}
			monitor := usecase.NewBrowserMonitor(domain.OSLinux, query, control, zap.NewNop())

			Eventually(monitor.IsRunning).WithTimeout(2 * time.Second).Should(BeTrue())

			terminator := usecase.NewBrowserTerminator(
				usecase.TerminatorConfig{PollInterval: 50 * time.Millisecond, Timeout: 3 * time.Second},
				domain.OSLinux,
				query,
				control,
				monitor,
				zap.NewNop(),
			)

			outcome, err := terminator.Stop()
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.FinalState).To(Equal(domain.StateStopped))
			Expect(outcome.SignaledPIDs).To(ContainElement(child.Process.Pid))
			Expect(outcome.Trace).NotTo(ContainElement(domain.StateEscalatedStopRequested))

			running, err := monitor.IsRunning()
			Expect(err).NotTo(HaveOccurred())
			Expect(running).To(BeFalse())
		},
		Entry("exec", func() domain.ProcessControl { return infra.NewExecProcessControl() }),
		Entry("gopsutil", func() domain.ProcessControl { return infra.NewProcessManager() }),
	)

	It("should patch after closing the process", func() {
		profile := fixtures.NewFakeChromeProfile(tmpDir, domain.OSLinux)
		Expect(profile.Create()).To(Succeed())

		w, err := newWorkflow(profile, infra.NewExecProcessControl(),
			usecase.TerminatorConfig{PollInterval: 50 * time.Millisecond, Timeout: 3 * time.Second})
		Expect(err).NotTo(HaveOccurred())

		_, err = w.patch(true)
		Expect(err).NotTo(HaveOccurred())

		content, err := profile.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(content).To(MatchJSON(patchedLocalState))
	})
})
