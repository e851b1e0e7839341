package response

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynaform/internal/audit"
	"dynaform/internal/form"
	"dynaform/internal/identity"
	"dynaform/internal/platform/metrics"
	dErrors "dynaform/pkg/domain-errors"
)

// promauto registers on the default registry, so the package shares one
// Metrics value across tests.
var testMetrics = metrics.New()

type fixture struct {
	responses *InMemoryStore
	forms     *form.InMemoryStore
	trail     *audit.InMemoryStore
	service   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	responses := NewInMemoryStore()
	forms := form.NewInMemoryStore()
	trail := audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		responses: responses,
		forms:     forms,
		trail:     trail,
		service:   NewService(responses, forms, audit.NewPublisher(trail, logger), testMetrics),
	}
}

func respondent() identity.Principal {
	return identity.Authenticated("user-1", "user@example.com", "User One", identity.RoleUser)
}

func TestSubmit_RequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	err := f.service.Submit(context.Background(), "f1", identity.Anonymous(), &SubmitRequest{Content: "hi"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestSubmit_RequiresResponseData(t *testing.T) {
	f := newFixture(t)

	err := f.service.Submit(context.Background(), "f1", respondent(), &SubmitRequest{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestSubmit_UnknownForm(t *testing.T) {
	f := newFixture(t)

	err := f.service.Submit(context.Background(), "missing", respondent(), &SubmitRequest{Content: "hi"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestSubmit_PersistsAnswersAndAuditEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.forms.Save(ctx, form.Form{ID: "f1", OwnerID: "owner-1", Title: "Survey"}))

	req := &SubmitRequest{Responses: map[string]any{"q1": "blue", "q2": float64(4)}}
	require.NoError(t, f.service.Submit(ctx, "f1", respondent(), req))

	stored, err := f.responses.FindByForm(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "user-1", stored[0].UserID)
	assert.JSONEq(t, `{"q1":"blue","q2":4}`, string(stored[0].Answers))

	events, err := f.trail.ListByForm(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionResponseSubmitted, events[0].Action)
}

func TestListByForm_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.forms.Save(ctx, form.Form{ID: "f1", OwnerID: "owner-1", Title: "Survey"}))
	require.NoError(t, f.responses.Save(ctx, Response{ID: "r1", FormID: "f1", UserID: "user-1"}))

	ownerPrincipal := identity.Authenticated("owner-1", "owner@example.com", "Owner", identity.RoleUser)
	got, err := f.service.ListByForm(ctx, "f1", ownerPrincipal)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = f.service.ListByForm(ctx, "f1", respondent())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = f.service.ListByForm(ctx, "f1", identity.Anonymous())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
