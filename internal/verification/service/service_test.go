package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks RequestStore,CitizenDirectory,LetterRenderer,TxRunner,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"huduma/internal/letter"
	"huduma/internal/policy"
	"huduma/internal/verification/metrics"
	"huduma/internal/verification/models"
	"huduma/internal/verification/service/mocks"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/platform/sentinel"
	"huduma/pkg/requestcontext"
)

type VerificationServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockRequests *mocks.MockRequestStore
	mockCitizens *mocks.MockCitizenDirectory
	mockRenderer *mocks.MockLetterRenderer
	mockTx       *mocks.MockTxRunner
	mockAudit    *mocks.MockAuditPublisher
	metrics      *metrics.Metrics
	service      *Service
	ctx          context.Context
	now          time.Time

	citizen policy.Actor
	officer policy.Actor
}

func TestVerificationServiceSuite(t *testing.T) {
	suite.Run(t, new(VerificationServiceSuite))
}

func (s *VerificationServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRequests = mocks.NewMockRequestStore(s.ctrl)
	s.mockCitizens = mocks.NewMockCitizenDirectory(s.ctrl)
	s.mockRenderer = mocks.NewMockLetterRenderer(s.ctrl)
	s.mockTx = mocks.NewMockTxRunner(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())

	var err error
	s.service, err = New(s.mockRequests, s.mockCitizens, s.mockRenderer, s.mockTx,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.mockAudit),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)

	s.now = time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.citizen = policy.Actor{UserID: id.NewUserID(), Role: id.RoleCitizen}
	s.officer = policy.Actor{UserID: id.NewUserID(), Role: id.RoleOfficer}
}

func (s *VerificationServiceSuite) expectTx() {
	s.mockTx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func (s *VerificationServiceSuite) expectCitizens() {
	s.mockCitizens.EXPECT().Citizens(gomock.Any(), gomock.Any()).Return(map[id.UserID]models.Citizen{
		s.citizen.UserID: {ID: s.citizen.UserID, FullName: "Mwanaidi Juma", Email: "mwanaidi@example.com"},
	}, nil).AnyTimes()
}

func (s *VerificationServiceSuite) metadata() models.Metadata {
	return models.Metadata{
		"reference_no": "SM/SN/KN/0042", "to": "Mkurugenzi", "ward": "mwigobero", "mtaa": "nyasho",
		"region": "mara", "district": "musoma", "house_no": "17", "birth_date": "01/02/1990",
		"occupation": "Mwalimu", "stay_duration": "miaka 5", "letter_date": "01/06/2024",
	}
}

func (s *VerificationServiceSuite) stored(status models.Status) *models.Request {
	typ, purpose := models.TypeResidence, "housing"
	r, err := models.NewRequest(id.NewRequestID(), s.citizen.UserID, models.Patch{
		Type: &typ, Purpose: &purpose, Metadata: s.metadata(),
	}, s.now.Add(-time.Hour))
	s.Require().NoError(err)
	switch status {
	case models.StatusApproved:
		r.Approve(s.officer.UserID, s.now.Add(-time.Minute))
	case models.StatusRejected:
		r.Reject(s.officer.UserID, "blurry", s.now.Add(-time.Minute))
	}
	return r
}

func (s *VerificationServiceSuite) TestNew() {
	_, err := New(nil, s.mockCitizens, s.mockRenderer, s.mockTx)
	s.EqualError(err, "request store is required")
	_, err = New(s.mockRequests, nil, s.mockRenderer, s.mockTx)
	s.EqualError(err, "citizen directory is required")
	_, err = New(s.mockRequests, s.mockCitizens, nil, s.mockTx)
	s.EqualError(err, "letter renderer is required")
	_, err = New(s.mockRequests, s.mockCitizens, s.mockRenderer, nil)
	s.EqualError(err, "tx runner is required")
}

func (s *VerificationServiceSuite) TestCreate() {
	s.Run("stores a pending request owned by the caller", func() {
		typ, purpose := models.TypeNIDA, "kitambulisho"
		var created *models.Request
		s.mockRequests.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, r *models.Request) error {
				created = r
				return nil
			})
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(string(audit.EventRequestCreated), e.Action)
				return nil
			})
		s.expectCitizens()

		view, err := s.service.Create(s.ctx, s.citizen, models.Patch{Type: &typ, Purpose: &purpose, Metadata: s.metadata()})
		s.Require().NoError(err)
		s.Equal(s.citizen.UserID, created.CitizenID)
		s.Equal(models.StatusPending, view.Status)
		s.Equal("Mwanaidi Juma", view.CitizenName)
		s.Equal(s.now, view.CreatedAt)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RequestsCreated.WithLabelValues("nida")))
	})

	s.Run("officers cannot file requests", func() {
		_, err := s.service.Create(s.ctx, s.officer, models.Patch{})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("invalid body never reaches the store", func() {
		_, err := s.service.Create(s.ctx, s.citizen, models.Patch{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *VerificationServiceSuite) TestGet() {
	r := s.stored(models.StatusPending)

	s.Run("owner and officer can read", func() {
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil).Times(2)
		s.expectCitizens()

		_, err := s.service.Get(s.ctx, s.citizen, r.ID)
		s.NoError(err)
		_, err = s.service.Get(s.ctx, s.officer, r.ID)
		s.NoError(err)
	})

	s.Run("other citizens are forbidden", func() {
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		other := policy.Actor{UserID: id.NewUserID(), Role: id.RoleCitizen}
		_, err := s.service.Get(s.ctx, other, r.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown id", func() {
		s.mockRequests.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		_, err := s.service.Get(s.ctx, s.officer, id.NewRequestID())
		s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "Request not found."))
	})
}

func (s *VerificationServiceSuite) TestUpdate() {
	s.Run("officer edit is refused with owner message", func() {
		r := s.stored(models.StatusPending)
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		info := "x"
		_, err := s.service.Update(s.ctx, s.officer, r.ID, models.Patch{AdditionalInfo: &info})
		s.ErrorIs(err, dErrors.New(dErrors.CodeForbidden, "Only the request owner can edit this request."))
	})

	s.Run("decided request is a state conflict", func() {
		r := s.stored(models.StatusApproved)
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		info := "x"
		_, err := s.service.Update(s.ctx, s.citizen, r.ID, models.Patch{AdditionalInfo: &info})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func (s *VerificationServiceSuite) TestResubmit() {
	s.Run("non-owned request reads as not found", func() {
		r := s.stored(models.StatusRejected)
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		other := policy.Actor{UserID: id.NewUserID(), Role: id.RoleCitizen}
		_, err := s.service.Resubmit(s.ctx, other, r.ID, models.Patch{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("resubmits rejected request", func() {
		r := s.stored(models.StatusRejected)
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		s.mockRequests.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, saved *models.Request) error {
				s.Equal(models.StatusPending, saved.Status)
				s.Nil(saved.DecidedBy)
				return nil
			})
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		s.expectCitizens()

		view, err := s.service.Resubmit(s.ctx, s.citizen, r.ID, models.Patch{})
		s.Require().NoError(err)
		s.Empty(view.RejectionReason)
	})
}

func (s *VerificationServiceSuite) TestDecisions() {
	s.Run("approve saves and records compliance event", func() {
		r := s.stored(models.StatusRejected)
		s.expectTx()
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		s.mockRequests.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(string(audit.EventRequestApproved), e.Action)
				s.Equal(s.officer.UserID, e.ActorID)
				s.Equal(s.citizen.UserID, e.UserID)
				s.Equal("approved", e.Decision)
				return nil
			})
		s.expectCitizens()

		view, err := s.service.Approve(s.ctx, s.officer, r.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, view.Status)
		s.Empty(view.RejectionReason)
		s.Equal(s.now, *view.DecidedAt)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.DecisionOutcome.WithLabelValues("approve", "residence")))
	})

	s.Run("audit failure fails the decision", func() {
		r := s.stored(models.StatusPending)
		s.expectTx()
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		s.mockRequests.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("audit down"))

		_, err := s.service.Reject(s.ctx, s.officer, r.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("reopen pending is a state conflict", func() {
		r := s.stored(models.StatusPending)
		s.expectTx()
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)

		_, err := s.service.Reopen(s.ctx, s.officer, r.ID)
		s.ErrorIs(err, dErrors.New(dErrors.CodeInvalidState, "Request is already pending."))
	})

	s.Run("citizens cannot decide", func() {
		_, err := s.service.Approve(s.ctx, s.citizen, id.NewRequestID())
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("anonymous callers are unauthenticated", func() {
		_, err := s.service.Reject(s.ctx, policy.Actor{}, id.NewRequestID(), "")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *VerificationServiceSuite) TestStats() {
	loc := time.FixedZone("EAT", 3*60*60)
	svc, err := New(s.mockRequests, s.mockCitizens, s.mockRenderer, s.mockTx, WithLocation(loc))
	s.Require().NoError(err)

	// 07:30 UTC is 10:30 in EAT; the local day starts at 21:00 UTC the day before.
	dayStart := time.Date(2024, 6, 1, 0, 0, 0, 0, loc)
	s.mockRequests.EXPECT().CountByStatus(gomock.Any(), models.StatusPending).Return(4, nil)
	s.mockRequests.EXPECT().CountDecided(gomock.Any(), models.StatusApproved, dayStart, dayStart.AddDate(0, 0, 1)).Return(2, nil)
	s.mockRequests.EXPECT().CountByStatus(gomock.Any(), models.StatusApproved).Return(9, nil)
	s.mockCitizens.EXPECT().CountCitizens(gomock.Any()).Return(12, nil)

	stats, err := svc.Stats(s.ctx, s.officer)
	s.Require().NoError(err)
	s.Equal(models.Stats{PendingRequests: 4, ApprovedToday: 2, TotalCitizens: 12, LettersIssued: 9}, *stats)
}

func (s *VerificationServiceSuite) TestLetter() {
	s.Run("pending request is not downloadable", func() {
		r := s.stored(models.StatusPending)
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		_, err := s.service.Letter(s.ctx, s.citizen, r.ID)
		s.ErrorIs(err, dErrors.New(dErrors.CodeInvalidState, "Request is not approved yet."))
	})

	s.Run("renders approved request", func() {
		r := s.stored(models.StatusApproved)
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		s.expectCitizens()
		s.mockRenderer.EXPECT().Document(gomock.Any()).DoAndReturn(func(in letter.Input) (*letter.Document, error) {
			s.Equal("Mwanaidi Juma", in.Citizen.FullName)
			return &letter.Document{Filename: "mtaa-letter-x.pdf", ContentType: "application/pdf", Body: []byte("%PDF-1.3")}, nil
		})
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		doc, err := s.service.Letter(s.ctx, s.officer, r.ID)
		s.Require().NoError(err)
		s.Equal("mtaa-letter-x.pdf", doc.Filename)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.LettersRendered))
	})

	s.Run("renderer failure is internal", func() {
		r := s.stored(models.StatusApproved)
		s.mockRequests.EXPECT().FindByID(gomock.Any(), r.ID).Return(r, nil)
		s.expectCitizens()
		s.mockRenderer.EXPECT().Document(gomock.Any()).Return(nil, errors.New("font missing"))

		_, err := s.service.Letter(s.ctx, s.officer, r.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
