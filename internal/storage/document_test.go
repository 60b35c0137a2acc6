package storage_test

import (
	"context"
	"encoding/json"
	"log/slog"

	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
	"github.com/frahmantamala/procurement-portal/internal/normalize"
	"github.com/frahmantamala/procurement-portal/internal/storage"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func discard() *slog.Logger {
	return logger.Discard()
}

const slotKey = "ipt_demo_v1"

var _ = Describe("DocumentStore", func() {
	var (
		ctx   context.Context
		slots *storage.MemoryStore
		docs  *storage.DocumentStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		slots = storage.NewMemoryStore()
		docs = storage.NewDocumentStore(slots, slotKey, nil, discard())
	})

	storedDocument := func() map[string]any {
		v, ok, err := slots.Get(ctx, slotKey)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		var m map[string]any
		Expect(json.Unmarshal([]byte(v), &m)).To(Succeed())
		return m
	}

	Context("when nothing is stored", func() {
		It("loads the seeded default and persists it", func() {
			doc, err := docs.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Accounts).To(HaveLen(1))
			Expect(doc.Accounts[0].Email).To(Equal(normalize.SeedAdminEmail))

			stored := storedDocument()
			Expect(stored).To(HaveKey("accounts"))
			Expect(stored["employees"]).To(Equal([]any{}))
		})
	})

	Context("when the stored value is not JSON", func() {
		BeforeEach(func() {
			Expect(slots.Set(ctx, slotKey, "{not json")).To(Succeed())
		})

		It("silently falls back to defaults and overwrites the slot", func() {
			doc, err := docs.Load(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Departments).To(HaveLen(2))
			Expect(storedDocument()).To(HaveKey("departments"))
		})
	})

	Context("when the stored value uses the legacy department shape", func() {
		BeforeEach(func() {
			Expect(slots.Set(ctx, slotKey, `{"departments":["Ops"]}`)).To(Succeed())
		})

		It("persists the migrated records", func() {
			_, err := docs.Load(ctx)
			Expect(err).NotTo(HaveOccurred())

			depts := storedDocument()["departments"].([]any)
			Expect(depts).To(HaveLen(1))
			Expect(depts[0]).To(HaveKeyWithValue("name", "Ops"))
			Expect(depts[0]).To(HaveKeyWithValue("description", ""))
		})
	})

	It("round-trips a normalized document", func() {
		original := normalize.Document(map[string]any{
			"accounts": []any{map[string]any{"email": "u@x.com", "password": "secret1", "verified": true}},
			"requests": []any{map[string]any{"employeeEmail": "u@x.com", "items": []any{map[string]any{"name": "Laptop", "qty": 2}}}},
		})

		Expect(docs.Save(ctx, original)).To(Succeed())
		loaded, err := docs.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(original))
	})

	It("uses the JSON field names of the persisted document", func() {
		Expect(docs.Save(ctx, portalDatamodel.Document{
			Employees: []portalDatamodel.Employee{{ID: "e1", EmployeeID: "E-1", UserEmail: "u@x.com", DeptID: "d1"}},
		})).To(Succeed())

		emp := storedDocument()["employees"].([]any)[0]
		Expect(emp).To(HaveKeyWithValue("employeeId", "E-1"))
		Expect(emp).To(HaveKeyWithValue("userEmail", "u@x.com"))
		Expect(emp).To(HaveKeyWithValue("deptId", "d1"))
	})
})
