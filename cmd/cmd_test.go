package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("parsePayload", func() {
	It("keeps plain values as strings and decodes JSON ones", func() {
		payload, err := parsePayload([]string{"type=Supplies", `items=[{"name":"Pens","qty":2}]`, "note=a=b"})

		Expect(err).NotTo(HaveOccurred())
		Expect(payload["type"]).To(Equal("Supplies"))
		Expect(payload["note"]).To(Equal("a=b"))
		Expect(payload["items"]).To(Equal([]any{map[string]any{"name": "Pens", "qty": 2.0}}))
	})

	It("rejects arguments without a key", func() {
		_, err := parsePayload([]string{"=x"})
		Expect(err).To(HaveOccurred())

		_, err = parsePayload([]string{"lonely"})
		Expect(err).To(HaveOccurred())
	})

	It("reports broken JSON values", func() {
		_, err := parsePayload([]string{"items=[{"})
		Expect(err).To(MatchError(ContainSubstring("items")))
	})
})

var _ = Describe("loadConfig", func() {
	BeforeEach(func() {
		ephemeral = false
		DeferCleanup(func() { ephemeral = false })
	})

	It("falls back to defaults without a config file", func() {
		cfg, err := loadConfig(GinkgoT().TempDir())

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Storage.Backend).To(Equal(internal.StorageBackendFile))
		Expect(cfg.Storage.DocumentSlot).To(Equal("ipt_demo_v1"))
		Expect(cfg.Server.Port).To(Equal(8080))
	})

	It("overlays the file on the defaults", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(`
storage:
  backend: memory
http_server:
  port: 9090
  read_timeout: 20s
`), 0o600)).To(Succeed())

		cfg, err := loadConfig(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Storage.Backend).To(Equal(internal.StorageBackendMemory))
		Expect(cfg.Storage.TokenSlot).To(Equal("auth_token"))
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Server.ReadTimeout).To(Equal(20 * time.Second))
	})

	It("switches to memory slots when ephemeral", func() {
		ephemeral = true

		cfg, err := loadConfig(GinkgoT().TempDir())

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Storage.Backend).To(Equal(internal.StorageBackendMemory))
	})

	It("rejects invalid files", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte("storage:\n  backend: floppy\n"), 0o600)).To(Succeed())

		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("floppy")))
	})
})
