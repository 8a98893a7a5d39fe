package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huduma/internal/letter"
	"huduma/internal/policy"
	"huduma/internal/verification/models"
	"huduma/internal/verification/store"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/platform/audit/publisher"
	auditmemory "huduma/pkg/platform/audit/store/memory"
	"huduma/pkg/requestcontext"
)

type directory map[id.UserID]models.Citizen

func (d directory) Citizens(_ context.Context, ids []id.UserID) (map[id.UserID]models.Citizen, error) {
	out := make(map[id.UserID]models.Citizen, len(ids))
	for _, uid := range ids {
		if c, ok := d[uid]; ok {
			out[uid] = c
		}
	}
	return out, nil
}

func (d directory) CountCitizens(context.Context) (int, error) { return len(d), nil }

func fullMetadata() models.Metadata {
	return models.Metadata{
		"reference_no": "SM/SN/KN/0007", "to": "Afisa Uhamiaji", "ward": "kamunyonge", "mtaa": "Bweri",
		"region": "mara", "district": "musoma", "house_no": 3, "birth_date": "12/12/1988",
		"occupation": "Mvuvi", "stay_duration": "miaka 10", "letter_date": "01/06/2024",
	}
}

func TestRequestLifecycleAgainstMemoryStore(t *testing.T) {
	citizen := policy.Actor{UserID: id.NewUserID(), Role: id.RoleCitizen}
	officer := policy.Actor{UserID: id.NewUserID(), Role: id.RoleOfficer}
	dir := directory{citizen.UserID: {ID: citizen.UserID, FullName: "Daudi Nyamhanga", HasProfile: true, Phone: "0768000111"}}

	events := auditmemory.NewInMemoryStore()
	st := store.NewInMemory()
	svc, err := New(st, dir, letter.NewPDFRenderer(), st,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(publisher.NewPublisher(events)),
	)
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	typ, purpose := models.TypeResidence, "Kusajili biashara"
	created, err := svc.Create(ctx, citizen, models.Patch{Type: &typ, Purpose: &purpose, Metadata: fullMetadata()})
	require.NoError(t, err)
	assert.Equal(t, "Daudi Nyamhanga", created.CitizenName)

	_, err = svc.Letter(ctx, citizen, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

	rejected, err := svc.Reject(ctx, officer, created.ID, "   ")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRejectionReason, rejected.RejectionReason)

	occupation := models.Metadata{"occupation": "Mkulima"}
	resubmitted, err := svc.Resubmit(ctx, citizen, created.ID, models.Patch{Metadata: occupation})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, resubmitted.Status)
	assert.Equal(t, "Mkulima", resubmitted.Metadata["occupation"])
	assert.Equal(t, "SM/SN/KN/0007", resubmitted.Metadata["reference_no"])

	pending, err := svc.ListPending(ctx, officer)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.Approve(ctx, officer, created.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, officer)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{ApprovedToday: 1, TotalCitizens: 1, LettersIssued: 1}, *stats)

	doc, err := svc.Letter(ctx, citizen, created.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF-")))

	var actions []string
	for _, e := range events.All() {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{
		string(audit.EventRequestCreated),
		string(audit.EventRequestRejected),
		string(audit.EventRequestResubmitted),
		string(audit.EventRequestApproved),
		string(audit.EventLetterDownloaded),
	}, actions)
}

type failingAudit struct{}

func (failingAudit) Emit(context.Context, audit.Event) error { return assert.AnError }

func TestDecisionRollsBackWhenAuditFails(t *testing.T) {
	citizen := policy.Actor{UserID: id.NewUserID(), Role: id.RoleCitizen}
	officer := policy.Actor{UserID: id.NewUserID(), Role: id.RoleAdmin}
	st := store.NewInMemory()
	svc, err := New(st, directory{}, letter.NewPDFRenderer(), st,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(failingAudit{}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	typ, purpose := models.TypeLicense, "leseni"
	created, err := svc.Create(ctx, citizen, models.Patch{Type: &typ, Purpose: &purpose, Metadata: fullMetadata()})
	require.NoError(t, err, "creation audit is best effort")

	_, err = svc.Approve(ctx, officer, created.ID)
	require.Error(t, err)

	stored, err := st.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}
