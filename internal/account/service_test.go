package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/account"
	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/command"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
	"github.com/frahmantamala/procurement-portal/internal/normalize"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/frahmantamala/procurement-portal/internal/portal"
	"github.com/frahmantamala/procurement-portal/internal/router"
	"github.com/frahmantamala/procurement-portal/internal/storage"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAccount(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Account Suite")
}

type harness struct {
	slots   *storage.MemoryStore
	repo    *portal.Repository
	session *auth.Session
	token   *storage.Slot
	pending *storage.Slot
	service *account.Service
}

func newHarness(ctx context.Context) *harness {
	log := logger.Discard()
	slots := storage.NewMemoryStore()
	repo, err := portal.Open(ctx, storage.NewDocumentStore(slots, "ipt_demo_v1", normalize.New(), log), log)
	Expect(err).NotTo(HaveOccurred())

	h := &harness{
		slots:   slots,
		repo:    repo,
		token:   storage.NewSlot(slots, "auth_token"),
		pending: storage.NewSlot(slots, "unverified_email"),
	}
	h.session = auth.NewSession(repo, h.token, log)
	h.service = account.NewService(repo, h.session, h.pending, log)
	return h
}

func (h *harness) loginAdmin(ctx context.Context) {
	_, err := h.session.Login(ctx, auth.LoginDTO{Email: normalize.SeedAdminEmail, Password: normalize.SeedAdminPassword})
	Expect(err).NotTo(HaveOccurred())
}

func (h *harness) addUser(ctx context.Context, email string) *portalDatamodel.Account {
	a, created, err := h.service.Save(ctx, account.SaveAccountDTO{Email: email, Password: "secret1", Role: "user", Verified: true})
	Expect(err).NotTo(HaveOccurred())
	Expect(created).To(BeTrue())
	return a
}

var _ = Describe("Service", func() {
	var (
		ctx context.Context
		h   *harness
	)

	BeforeEach(func() {
		ctx = context.Background()
		h = newHarness(ctx)
	})

	Describe("Register", func() {
		It("adds an unverified user and remembers the pending email", func() {
			a, err := h.service.Register(ctx, account.RegisterDTO{FirstName: " Ada ", LastName: "L", Email: " A@B.com ", Password: "secret1"})

			Expect(err).NotTo(HaveOccurred())
			Expect(a.FirstName).To(Equal("Ada"))
			Expect(a.Role).To(Equal(portalDatamodel.RoleUser))
			Expect(a.Verified).To(BeFalse())
			Expect(h.repo.FindAccountByEmail("a@b.com ")).NotTo(BeNil())

			pending, ok, _ := h.pending.Get(ctx)
			Expect(ok).To(BeTrue())
			Expect(pending).To(Equal("A@B.com"))
		})

		It("rejects short passwords without touching state", func() {
			_, err := h.service.Register(ctx, account.RegisterDTO{Email: "a@b.com", Password: "12345"})

			Expect(errors.Is(err, internal.ErrPasswordTooShort)).To(BeTrue())
			Expect(err.Error()).To(Equal("Password must be at least 6 characters."))
			Expect(h.repo.Accounts()).To(HaveLen(1))
		})

		It("rejects an email that exists in another case", func() {
			_, err := h.service.Register(ctx, account.RegisterDTO{Email: "ADMIN@example.com", Password: "secret1"})

			Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
		})
	})

	Describe("Verify", func() {
		It("fails when nothing is pending", func() {
			_, err := h.service.Verify(ctx)
			Expect(errors.Is(err, internal.ErrNoPendingEmail)).To(BeTrue())
		})

		It("verifies the pending account and clears the slot", func() {
			_, err := h.service.Register(ctx, account.RegisterDTO{Email: "a@b.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())

			a, err := h.service.Verify(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(a.Verified).To(BeTrue())
			Expect(h.repo.FindAccountByEmail("a@b.com").Verified).To(BeTrue())
			_, ok, _ := h.pending.Get(ctx)
			Expect(ok).To(BeFalse())
		})

		It("reports a pending email whose account is gone", func() {
			Expect(h.pending.Set(ctx, "ghost@x.com")).To(Succeed())

			_, err := h.service.Verify(ctx)

			Expect(err).To(MatchError("Account not found for verification."))
		})
	})

	Describe("Save", func() {
		It("requires an email", func() {
			_, _, err := h.service.Save(ctx, account.SaveAccountDTO{Email: "  ", Password: "secret1"})
			Expect(errors.Is(err, internal.ErrEmailRequired)).To(BeTrue())
		})

		It("requires a password when adding", func() {
			_, _, err := h.service.Save(ctx, account.SaveAccountDTO{Email: "n@x.com"})
			Expect(errors.Is(err, internal.ErrPasswordTooShort)).To(BeTrue())
		})

		It("treats any role but admin as user", func() {
			a, _, err := h.service.Save(ctx, account.SaveAccountDTO{Email: "n@x.com", Password: "secret1", Role: "superuser"})

			Expect(err).NotTo(HaveOccurred())
			Expect(a.Role).To(Equal(portalDatamodel.RoleUser))
		})

		Context("editing", func() {
			var u *portalDatamodel.Account

			BeforeEach(func() {
				u = h.addUser(ctx, "old@x.com")
			})

			It("keeps the password when none is given", func() {
				a, created, err := h.service.Save(ctx, account.SaveAccountDTO{ID: u.ID, FirstName: "New", Email: "old@x.com", Role: "user", Verified: true})

				Expect(err).NotTo(HaveOccurred())
				Expect(created).To(BeFalse())
				Expect(a.FirstName).To(Equal("New"))
				Expect(h.repo.GetAccountByID(u.ID).Password).To(Equal("secret1"))
			})

			It("validates a replacement password", func() {
				_, _, err := h.service.Save(ctx, account.SaveAccountDTO{ID: u.ID, Email: "old@x.com", Password: "abc"})
				Expect(errors.Is(err, internal.ErrPasswordTooShort)).To(BeTrue())
			})

			It("allows keeping its own email in another case", func() {
				_, _, err := h.service.Save(ctx, account.SaveAccountDTO{ID: u.ID, Email: "OLD@x.com", Verified: true})
				Expect(err).NotTo(HaveOccurred())
			})

			It("rejects another account's email", func() {
				_, _, err := h.service.Save(ctx, account.SaveAccountDTO{ID: u.ID, Email: normalize.SeedAdminEmail})
				Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
			})

			It("reports a stale id", func() {
				_, _, err := h.service.Save(ctx, account.SaveAccountDTO{ID: "acc_gone", Email: "z@x.com"})
				Expect(errors.Is(err, internal.ErrAccountNotFound)).To(BeTrue())
			})

			It("cascades an email change to employees, requests, token and session", func() {
				Expect(h.repo.AddEmployee(ctx, portalDatamodel.Employee{ID: "e1", EmployeeID: "E-1", UserEmail: "old@x.com"})).To(Succeed())
				Expect(h.repo.AddEmployee(ctx, portalDatamodel.Employee{ID: "e2", EmployeeID: "E-2", UserEmail: "admin@example.com"})).To(Succeed())
				Expect(h.repo.AddRequest(ctx, portalDatamodel.Request{ID: "r1", EmployeeEmail: "OLD@X.COM", Status: portalDatamodel.StatusPending})).To(Succeed())
				_, err := h.session.Login(ctx, auth.LoginDTO{Email: "old@x.com", Password: "secret1"})
				Expect(err).NotTo(HaveOccurred())

				_, _, err = h.service.Save(ctx, account.SaveAccountDTO{ID: u.ID, Email: "new@x.com", Verified: true})

				Expect(err).NotTo(HaveOccurred())
				Expect(h.repo.GetEmployeeByID("e1").UserEmail).To(Equal("new@x.com"))
				Expect(h.repo.GetEmployeeByID("e2").UserEmail).To(Equal("admin@example.com"))
				Expect(h.repo.RequestsFor("new@x.com")).To(HaveLen(1))
				token, _, _ := h.token.Get(ctx)
				Expect(token).To(Equal("new@x.com"))
				Expect(h.session.Current().Email).To(Equal("new@x.com"))
			})

			It("refreshes the session when the signed-in account is edited", func() {
				h.loginAdmin(ctx)
				admin := h.session.Current()

				_, _, err := h.service.Save(ctx, account.SaveAccountDTO{ID: admin.ID, FirstName: "Boss", Email: admin.Email, Role: "admin", Verified: true})

				Expect(err).NotTo(HaveOccurred())
				Expect(h.session.Current().FirstName).To(Equal("Boss"))
			})

			It("keeps the token and records on the old email when the edit is refused", func() {
				h.loginAdmin(ctx)
				admin := h.session.Current()
				Expect(h.repo.AddEmployee(ctx, portalDatamodel.Employee{ID: "e1", EmployeeID: "E-1", UserEmail: admin.Email})).To(Succeed())

				_, _, err := h.service.Save(ctx, account.SaveAccountDTO{ID: admin.ID, Email: "boss@x.com", Role: "user", Verified: true})

				Expect(errors.Is(err, internal.ErrLastAdmin)).To(BeTrue())
				Expect(h.repo.GetAccountByID(admin.ID).Email).To(Equal(normalize.SeedAdminEmail))
				Expect(h.repo.GetEmployeeByID("e1").UserEmail).To(Equal(normalize.SeedAdminEmail))
				token, _, _ := h.token.Get(ctx)
				Expect(token).To(Equal(normalize.SeedAdminEmail))
				Expect(h.session.Current().Email).To(Equal(normalize.SeedAdminEmail))
			})

			It("refuses to demote the last admin", func() {
				h.loginAdmin(ctx)
				admin := h.session.Current()

				_, _, err := h.service.Save(ctx, account.SaveAccountDTO{ID: admin.ID, Email: admin.Email, Role: "user", Verified: true})

				Expect(errors.Is(err, internal.ErrLastAdmin)).To(BeTrue())
				Expect(h.repo.GetAccountByID(admin.ID).IsAdmin()).To(BeTrue())
			})
		})
	})

	Describe("ResetPassword", func() {
		It("sets a new password", func() {
			u := h.addUser(ctx, "u@x.com")

			Expect(h.service.ResetPassword(ctx, account.ResetPasswordDTO{ID: u.ID, Password: "another"})).To(Succeed())
			Expect(h.repo.GetAccountByID(u.ID).Password).To(Equal("another"))
		})

		It("validates the length", func() {
			u := h.addUser(ctx, "u@x.com")

			err := h.service.ResetPassword(ctx, account.ResetPasswordDTO{ID: u.ID, Password: "short"})
			Expect(errors.Is(err, internal.ErrPasswordTooShort)).To(BeTrue())
		})

		It("reports unknown accounts", func() {
			err := h.service.ResetPassword(ctx, account.ResetPasswordDTO{ID: "nope", Password: "another"})
			Expect(errors.Is(err, internal.ErrAccountNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			h.loginAdmin(ctx)
		})

		It("cascades to employees and requests of that email", func() {
			u := h.addUser(ctx, "u@x.com")
			Expect(h.repo.AddEmployee(ctx, portalDatamodel.Employee{ID: "e1", EmployeeID: "E-1", UserEmail: "U@x.com"})).To(Succeed())
			Expect(h.repo.AddRequest(ctx, portalDatamodel.Request{ID: "r1", EmployeeEmail: "u@x.com"})).To(Succeed())
			Expect(h.repo.AddRequest(ctx, portalDatamodel.Request{ID: "r2", EmployeeEmail: "keep@x.com"})).To(Succeed())

			removed, err := h.service.Delete(ctx, account.DeleteAccountDTO{ID: u.ID})

			Expect(err).NotTo(HaveOccurred())
			Expect(removed.Email).To(Equal("u@x.com"))
			Expect(h.repo.GetAccountByID(u.ID)).To(BeNil())
			Expect(h.repo.Employees()).To(BeEmpty())
			Expect(h.repo.Document().Requests).To(HaveLen(1))
		})

		It("rejects deleting the signed-in account", func() {
			me := h.session.Current()

			_, err := h.service.Delete(ctx, account.DeleteAccountDTO{ID: me.ID})

			Expect(errors.Is(err, internal.ErrSelfDelete)).To(BeTrue())
			Expect(h.repo.GetAccountByID(me.ID)).NotTo(BeNil())
		})

		It("reports a stale id", func() {
			_, err := h.service.Delete(ctx, account.DeleteAccountDTO{ID: "acc_gone"})
			Expect(errors.Is(err, internal.ErrAccountNotFound)).To(BeTrue())
		})
	})
})

type navigatorSpy struct {
	visited []string
	reloads int
}

func (n *navigatorSpy) Navigate(_ context.Context, fragment string) router.Outcome {
	n.visited = append(n.visited, fragment)
	return router.Outcome{Fragment: fragment}
}

func (n *navigatorSpy) Reload(context.Context) router.Outcome {
	n.reloads++
	return router.Outcome{}
}

var _ = Describe("Handler", func() {
	var (
		ctx        context.Context
		h          *harness
		recorder   *notify.Recorder
		nav        *navigatorSpy
		dispatcher *command.Dispatcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		h = newHarness(ctx)
		recorder = notify.NewRecorder()
		nav = &navigatorSpy{}
		dispatcher = command.NewDispatcher(logger.Discard())
		base := command.NewBaseHandler(logger.Discard(), recorder, nav)
		dispatcher.Register(account.NewHandler(base, h.service, auth.NewGuard(h.session, logger.Discard())))
	})

	It("walks a new user through register and verify", func() {
		Expect(dispatcher.Dispatch(ctx, account.CommandRegister, command.Payload{
			"firstName": "Ada", "email": "ada@x.com", "password": "secret1",
		})).To(Succeed())
		Expect(dispatcher.Dispatch(ctx, account.CommandVerifyEmail, nil)).To(Succeed())

		Expect(recorder.All()).To(Equal([]notify.Notification{
			{Message: "Registered! Please verify your email (simulated).", Severity: notify.Warning},
			{Message: "Email verified. You can now login.", Severity: notify.Success},
		}))
		Expect(nav.visited).To(Equal([]string{router.VerifyEmail, router.Login}))
	})

	It("keeps the admin console behind the admin guard", func() {
		err := dispatcher.Dispatch(ctx, account.CommandSave, command.Payload{"email": "n@x.com", "password": "secret1"})

		Expect(errors.Is(err, internal.ErrNotSignedIn)).To(BeTrue())
		last, _ := recorder.Last()
		Expect(last.Severity).To(Equal(notify.Danger))
		Expect(h.repo.FindAccountByEmail("n@x.com")).To(BeNil())
	})

	It("adds accounts for admins and redraws the list", func() {
		h.loginAdmin(ctx)

		Expect(dispatcher.Dispatch(ctx, account.CommandSave, command.Payload{
			"email": "n@x.com", "password": "secret1", "role": "admin", "verified": "true",
		})).To(Succeed())

		added := h.repo.FindAccountByEmail("n@x.com")
		Expect(added.IsAdmin()).To(BeTrue())
		Expect(added.Verified).To(BeTrue())
		last, _ := recorder.Last()
		Expect(last).To(Equal(notify.Notification{Message: "Account added.", Severity: notify.Success}))
		Expect(nav.reloads).To(Equal(1))
	})

	It("reports validation failures from the console", func() {
		h.loginAdmin(ctx)

		err := dispatcher.Dispatch(ctx, account.CommandResetPassword, command.Payload{"id": h.session.Current().ID, "password": "x"})

		Expect(err).To(HaveOccurred())
		last, _ := recorder.Last()
		Expect(last).To(Equal(notify.Notification{Message: "Password must be at least 6 characters.", Severity: notify.Danger}))
	})

	It("deletes accounts with a secondary notice", func() {
		h.loginAdmin(ctx)
		u := h.addUser(ctx, "u@x.com")

		Expect(dispatcher.Dispatch(ctx, account.CommandDelete, command.Payload{"id": u.ID})).To(Succeed())

		last, _ := recorder.Last()
		Expect(last).To(Equal(notify.Notification{Message: "Account deleted.", Severity: notify.Secondary}))
	})
})
