package request_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/command"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/frahmantamala/procurement-portal/internal/request"
	"github.com/frahmantamala/procurement-portal/internal/router"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRequest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Request Suite")
}

type mockRepository struct {
	requests []portalDatamodel.Request
}

func (m *mockRepository) AddRequest(_ context.Context, r portalDatamodel.Request) error {
	m.requests = append(m.requests, r)
	return nil
}

func (m *mockRepository) RequestsFor(email string) []portalDatamodel.Request {
	out := []portalDatamodel.Request{}
	for _, r := range m.requests {
		if portalDatamodel.SameEmail(r.EmployeeEmail, email) {
			out = append(out, r)
		}
	}
	return out
}

type mockSession struct {
	account *portalDatamodel.Account
}

func (m *mockSession) Current() *portalDatamodel.Account { return m.account }

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		repo    *mockRepository
		session *mockSession
		service *request.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockRepository{}
		session = &mockSession{account: &portalDatamodel.Account{ID: "acc_u", Email: "u@x.com"}}
		service = request.NewService(repo, session, logger.Discard()).WithClock(func() time.Time { return fixedNow })
	})

	It("files a pending request owned by the signed-in account", func() {
		r, err := service.Submit(ctx, request.SubmitRequestDTO{
			Type: "Supplies",
			Items: []any{
				map[string]any{"name": " Pen ", "qty": "3"},
				map[string]any{"name": "", "qty": 5},
				map[string]any{"name": "Paper", "qty": 0},
			},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(r.EmployeeEmail).To(Equal("u@x.com"))
		Expect(r.Status).To(Equal(portalDatamodel.StatusPending))
		Expect(r.Date).To(Equal("2024-06-01T09:30:00.000Z"))
		Expect(r.Items).To(Equal([]portalDatamodel.Item{{Name: "Pen", Qty: 3}, {Name: "Paper", Qty: 1}}))
		Expect(repo.requests).To(HaveLen(1))
	})

	It("defaults the type to Equipment", func() {
		r, err := service.Submit(ctx, request.SubmitRequestDTO{Items: []any{map[string]any{"name": "Laptop"}}})

		Expect(err).NotTo(HaveOccurred())
		Expect(r.Type).To(Equal(request.DefaultType))
		Expect(r.Items[0].Qty).To(Equal(1))
	})

	It("needs at least one named item", func() {
		_, err := service.Submit(ctx, request.SubmitRequestDTO{Items: []any{map[string]any{"name": "  "}, "junk"}})

		Expect(errors.Is(err, internal.ErrNoItems)).To(BeTrue())
		Expect(repo.requests).To(BeEmpty())
	})

	It("needs a session", func() {
		session.account = nil

		_, err := service.Submit(ctx, request.SubmitRequestDTO{Items: []any{map[string]any{"name": "Laptop"}}})

		Expect(errors.Is(err, internal.ErrNotSignedIn)).To(BeTrue())
	})

	It("lists only the caller's requests", func() {
		repo.requests = []portalDatamodel.Request{{ID: "r1", EmployeeEmail: "U@x.com"}, {ID: "r2", EmployeeEmail: "v@x.com"}}

		Expect(service.Mine()).To(HaveLen(1))
		session.account = nil
		Expect(service.Mine()).To(BeEmpty())
	})
})

type navigatorSpy struct {
	visited []string
	reloads int
}

func (n *navigatorSpy) Navigate(_ context.Context, fragment string) router.Outcome {
	n.visited = append(n.visited, fragment)
	return router.Outcome{}
}

func (n *navigatorSpy) Reload(context.Context) router.Outcome {
	n.reloads++
	return router.Outcome{}
}

var _ = Describe("Handler", func() {
	var (
		ctx        context.Context
		session    *mockSession
		recorder   *notify.Recorder
		nav        *navigatorSpy
		dispatcher *command.Dispatcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		session = &mockSession{account: &portalDatamodel.Account{Email: "u@x.com"}}
		recorder = notify.NewRecorder()
		nav = &navigatorSpy{}
		dispatcher = command.NewDispatcher(logger.Discard())
		base := command.NewBaseHandler(logger.Discard(), recorder, nav)
		dispatcher.Register(request.NewHandler(base, request.NewService(&mockRepository{}, session, logger.Discard())))
	})

	It("submits and redraws the list", func() {
		err := dispatcher.Dispatch(ctx, request.CommandSubmit, command.Payload{
			"type":  "Equipment",
			"items": []map[string]any{{"name": "Laptop", "qty": 1}},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(recorder.All()).To(ConsistOf(notify.Notification{Message: "Request submitted.", Severity: notify.Success}))
		Expect(nav.reloads).To(Equal(1))
	})

	It("reports an empty item list", func() {
		err := dispatcher.Dispatch(ctx, request.CommandSubmit, command.Payload{"items": []any{}})

		Expect(errors.Is(err, internal.ErrNoItems)).To(BeTrue())
		last, _ := recorder.Last()
		Expect(last.Message).To(Equal("Add at least one item."))
	})

	It("sends signed-out users to login", func() {
		session.account = nil

		err := dispatcher.Dispatch(ctx, request.CommandSubmit, command.Payload{"items": []any{map[string]any{"name": "Pen"}}})

		Expect(err).To(HaveOccurred())
		Expect(nav.visited).To(Equal([]string{router.Login}))
		Expect(recorder.All()).To(BeEmpty())
	})
})
