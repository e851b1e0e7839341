package form

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynaform/internal/audit"
	"dynaform/internal/identity"
	dErrors "dynaform/pkg/domain-errors"
)

// registrarStub records RegisterView calls and answers with a canned
// recorded flag.
type registrarStub struct {
	recorded bool
	err      error
	calls    []registrarCall
}

type registrarCall struct {
	formID   string
	p        identity.Principal
	remoteIP string
}

func (r *registrarStub) RegisterView(_ context.Context, formID string, p identity.Principal, remoteIP string, _ time.Time) (bool, error) {
	r.calls = append(r.calls, registrarCall{formID: formID, p: p, remoteIP: remoteIP})
	return r.recorded, r.err
}

type serviceFixture struct {
	forms     *InMemoryStore
	views     *registrarStub
	trail     *audit.InMemoryStore
	service   *Service
	publisher *audit.Publisher
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	forms := NewInMemoryStore()
	views := &registrarStub{}
	trail := audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := audit.NewPublisher(trail, logger)

	return &serviceFixture{
		forms:     forms,
		views:     views,
		trail:     trail,
		service:   NewService(forms, forms, views, publisher),
		publisher: publisher,
	}
}

func owner() identity.Principal {
	return identity.Authenticated("owner-1", "owner@example.com", "Owner", identity.RoleUser)
}

func TestCreate_RequiresAuthentication(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Create(context.Background(), identity.Anonymous(), &CreateFormRequest{Title: "Survey"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestCreate_RejectsEmptyTitle(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Create(context.Background(), owner(), &CreateFormRequest{Title: "   "})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCreate_PersistsFormQuestionsAndAuditEvent(t *testing.T) {
	f := newServiceFixture(t)

	req := &CreateFormRequest{
		Title:       "  Customer Survey  ",
		Description: "quarterly",
		Questions: []QuestionRequest{
			{Type: "text", Question: "Name?", Required: true},
			{Type: "select", Question: "Rating?", Options: []string{"1", "2", "3"}},
		},
	}
	created, err := f.service.Create(context.Background(), owner(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Customer Survey", created.Title)
	assert.Equal(t, "owner-1", created.OwnerID)

	stored, err := f.forms.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, stored.Title)

	questions, err := f.forms.QuestionsByForm(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Name?", questions[0].Label)
	assert.Equal(t, []string{"1", "2", "3"}, questions[1].Options)

	events, err := f.trail.ListByForm(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionFormCreated, events[0].Action)
}

func TestListByOwner_ReturnsOnlyOwnForms(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.forms.Save(ctx, Form{ID: "f1", OwnerID: "owner-1", Title: "A"}))
	require.NoError(t, f.forms.Save(ctx, Form{ID: "f2", OwnerID: "someone-else", Title: "B"}))

	forms, err := f.service.ListByOwner(ctx, owner())
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "f1", forms[0].ID)

	_, err = f.service.ListByOwner(ctx, identity.Anonymous())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestGet_UnknownFormReturnsNotFound(t *testing.T) {
	f := newServiceFixture(t)

	_, _, err := f.service.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestActivityTrail_OwnerSeesEvents(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.forms.Save(ctx, Form{ID: "f1", OwnerID: "owner-1", Title: "A"}))
	require.NoError(t, f.publisher.Emit(ctx, audit.Event{
		FormID: "f1",
		UserID: "owner-1",
		Action: audit.ActionFormCreated,
	}))
	require.NoError(t, f.publisher.Emit(ctx, audit.Event{
		FormID:    "f1",
		Action:    audit.ActionFormViewed,
		IPAddress: "203.0.113.9",
	}))

	events, err := f.service.ActivityTrail(ctx, "f1", owner())
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestActivityTrail_RejectsNonOwner(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.forms.Save(ctx, Form{ID: "f1", OwnerID: "someone-else", Title: "A"}))

	_, err := f.service.ActivityTrail(ctx, "f1", owner())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestActivityTrail_RequiresAuthentication(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.ActivityTrail(context.Background(), "f1", identity.Anonymous())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestActivityTrail_UnknownFormReturnsNotFound(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.ActivityTrail(context.Background(), "missing", owner())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestGetForResponse_FeedsViewPipeline(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	require.NoError(t, f.forms.Save(ctx, Form{ID: "f1", OwnerID: "owner-1", Title: "A"}))
	f.views.recorded = true

	got, _, err := f.service.GetForResponse(ctx, "f1", identity.Anonymous(), "203.0.113.7", "")
	require.NoError(t, err)
	assert.Equal(t, "f1", got.ID)

	require.Len(t, f.views.calls, 1)
	assert.Equal(t, "f1", f.views.calls[0].formID)
	assert.Equal(t, "203.0.113.7", f.views.calls[0].remoteIP)

	events, err := f.trail.ListByForm(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionFormViewed, events[0].Action)
	assert.Equal(t, "203.0.113.7", events[0].IPAddress)
}

func TestGetForResponse_SuppressedViewEmitsNoAudit(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	require.NoError(t, f.forms.Save(ctx, Form{ID: "f1", OwnerID: "owner-1", Title: "A"}))
	f.views.recorded = false

	_, _, err := f.service.GetForResponse(ctx, "f1", identity.Anonymous(), "203.0.113.7", "")
	require.NoError(t, err)

	events, err := f.trail.ListByForm(ctx, "f1")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGetForResponse_UnknownFormSkipsViewPipeline(t *testing.T) {
	f := newServiceFixture(t)

	_, _, err := f.service.GetForResponse(context.Background(), "missing", identity.Anonymous(), "203.0.113.7", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.Empty(t, f.views.calls, "no view may be recorded for a missing form")
}

func TestViewDescription(t *testing.T) {
	const chrome = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	assert.Equal(t, "Form viewed", viewDescription(""))
	assert.Contains(t, viewDescription(chrome), "Chrome")
}
