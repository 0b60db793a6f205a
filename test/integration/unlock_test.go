//go:build integration

package integration

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
	"github.com/eliteGoblin/focusd/glicpatch/internal/usecase"
	"github.com/eliteGoblin/focusd/glicpatch/test/fixtures"
)

const patchedLocalState = `{
  "browser": {"enabled_labs_experiments": [], "last_redirect_origin": ""},
  "is_glic_eligible": true,
  "profile": {"info_cache": {"Default": {"name": "Person 1", "variations_country": "cn"}}},
  "user_experience_metrics": {"client_id2": "8b5e6f1c-0000-4000-8000-000000000000", "low_entropy_source3": 4321},
  "variations_country": "us",
  "variations_permanent_consistency_country": ["us"]
}`

var fastStop = usecase.TerminatorConfig{PollInterval: time.Millisecond, Timeout: 100 * time.Millisecond}

var _ = Describe("Unlock workflow", func() {
	var (
		tmpDir string
		chrome *stubChrome
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "glicpatch-integration-*")
		Expect(err).NotTo(HaveOccurred())
		chrome = &stubChrome{}
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	DescribeTable("patching a fresh profile",
		func(kind domain.OSKind) {
			profile := fixtures.NewFakeChromeProfile(tmpDir, kind)
			Expect(profile.Create()).To(Succeed())

			w, err := newWorkflow(profile, chrome, fastStop)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.configPath).To(Equal(profile.LocalStatePath()))

			report, err := w.patch(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.ChangedIsGlic).To(BeTrue())
			Expect(report.ChangedVariationsCountry).To(BeTrue())
			Expect(report.ChangedVariationsPermanentCountry).To(BeTrue())

			content, err := profile.Read()
			Expect(err).NotTo(HaveOccurred())
			Expect(content).To(MatchJSON(patchedLocalState))

			backup, err := profile.ReadBackup()
			Expect(err).NotTo(HaveOccurred())
			Expect(backup).To(Equal(fixtures.DefaultLocalState))
		},
		Entry("on macOS", domain.OSMacOS),
		Entry("on Linux", domain.OSLinux),
		Entry("on Windows", domain.OSWindows),
	)

	Context("when Chrome is running", func() {
		var profile *fixtures.FakeChromeProfile

		BeforeEach(func() {
			profile = fixtures.NewFakeChromeProfile(tmpDir, domain.OSLinux)
			Expect(profile.Create()).To(Succeed())
			chrome.running = true
		})

		It("should refuse to touch the file without --kill-chrome", func() {
			w, err := newWorkflow(profile, chrome, fastStop)
			Expect(err).NotTo(HaveOccurred())

			_, err = w.patch(false)
			Expect(err).To(MatchError(domain.ErrChromeRunning))
			Expect(profile.BackupExists()).To(BeFalse())
			Expect(chrome.requests).To(BeZero())
		})

		It("should stop Chrome and patch with --kill-chrome", func() {
			w, err := newWorkflow(profile, chrome, fastStop)
			Expect(err).NotTo(HaveOccurred())

			_, err = w.patch(true)
			Expect(err).NotTo(HaveOccurred())
			Expect(chrome.requests).To(Equal(1))

			content, err := profile.Read()
			Expect(err).NotTo(HaveOccurred())
			Expect(content).To(MatchJSON(patchedLocalState))
		})
	})

	Describe("Restore", func() {
		It("should bring back the original bytes", func() {
			profile := fixtures.NewFakeChromeProfile(tmpDir, domain.OSLinux)
			Expect(profile.Create()).To(Succeed())
			w, err := newWorkflow(profile, chrome, fastStop)
			Expect(err).NotTo(HaveOccurred())

			_, err = w.patch(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.restore(false)).To(Succeed())

			content, err := profile.Read()
			Expect(err).NotTo(HaveOccurred())
			Expect(content).To(Equal(fixtures.DefaultLocalState))
		})

		It("should fail when no backup exists", func() {
			profile := fixtures.NewFakeChromeProfile(tmpDir, domain.OSLinux)
			Expect(profile.Create()).To(Succeed())
			w, err := newWorkflow(profile, chrome, fastStop)
			Expect(err).NotTo(HaveOccurred())

			Expect(w.restore(false)).To(MatchError(domain.ErrBackupNotFound))
		})
	})

	Context("when patching twice", func() {
		It("should produce identical output and keep the first backup content", func() {
			profile := fixtures.NewFakeChromeProfile(tmpDir, domain.OSLinux)
			Expect(profile.Create()).To(Succeed())
			w, err := newWorkflow(profile, chrome, fastStop)
			Expect(err).NotTo(HaveOccurred())

			_, err = w.patch(false)
			Expect(err).NotTo(HaveOccurred())
			first, err := profile.Read()
			Expect(err).NotTo(HaveOccurred())

			_, err = w.patch(false)
			Expect(err).NotTo(HaveOccurred())
			second, err := profile.Read()
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(Equal(first))
			backup, err := profile.ReadBackup()
			Expect(err).NotTo(HaveOccurred())
			Expect(backup).To(Equal(first))
		})
	})
})
