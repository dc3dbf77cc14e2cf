package notification

import (
	"context"
	"testing"

	"orghub_backend/internal/events"
	"orghub_backend/internal/scheduler"
	"orghub_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeSender struct {
	to    string
	name  string
	org   string
	calls int
}

func (f *fakeSender) SendWelcomeEmail(_ context.Context, toEmail, firstName, organisationName string) error {
	f.calls++
	f.to = toEmail
	f.name = firstName
	f.org = organisationName
	return nil
}

type fakeEnqueuer struct {
	payloads []scheduler.WelcomeEmailPayload
}

func (f *fakeEnqueuer) EnqueueWelcomeEmail(_ context.Context, payload scheduler.WelcomeEmailPayload) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func registeredEvent() events.UserRegistered {
	return events.UserRegistered{
		BaseEvent:        events.NewBaseEvent(),
		UserID:           uuid.New(),
		Email:            "jane@example.com",
		FirstName:        "Jane",
		OrganisationName: "Jane's Organisation",
	}
}

func TestHandleUserRegisteredSendsInline(t *testing.T) {
	sender := &fakeSender{}
	m := NewModule(sender, logger.New("development"))

	if err := m.Handle(context.Background(), registeredEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sender.calls != 1 {
		t.Fatalf("expected one send, got %d", sender.calls)
	}
	if sender.to != "jane@example.com" || sender.name != "Jane" || sender.org != "Jane's Organisation" {
		t.Fatalf("send received wrong fields: %q %q %q", sender.to, sender.name, sender.org)
	}
}

func TestHandleUserRegisteredPrefersQueue(t *testing.T) {
	sender := &fakeSender{}
	enq := &fakeEnqueuer{}
	m := NewModule(sender, logger.New("development"))
	m.SetEnqueuer(enq)

	event := registeredEvent()
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sender.calls != 0 {
		t.Fatal("inline sender must not be used when a queue is configured")
	}
	if len(enq.payloads) != 1 {
		t.Fatalf("expected one enqueued task, got %d", len(enq.payloads))
	}
	p := enq.payloads[0]
	if p.UserID != event.UserID.String() || p.Email != event.Email || p.OrganisationName != event.OrganisationName {
		t.Fatalf("enqueued payload mismatch: %+v", p)
	}
}

func TestHandleIgnoresUnrelatedEvents(t *testing.T) {
	sender := &fakeSender{}
	m := NewModule(sender, logger.New("development"))

	err := m.Handle(context.Background(), events.MemberAdded{BaseEvent: events.NewBaseEvent()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.calls != 0 {
		t.Fatal("unrelated events must not trigger email delivery")
	}
}
