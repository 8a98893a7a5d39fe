package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
)

var (
	t0      = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	officer = id.NewUserID()
)

func completeMetadata() Metadata {
	return Metadata{
		"reference_no":  "SM/SN/KN/0042",
		"to":            "Mkurugenzi",
		"ward":          "mwigobero",
		"mtaa":          "nyasho",
		"region":        "mara",
		"district":      "musoma",
		"house_no":      17,
		"birth_date":    "01/02/1990",
		"occupation":    "Mwalimu",
		"stay_duration": "miaka 5",
		"letter_date":   "01/06/2024",
	}
}

func ptr[T any](v T) *T { return &v }

func fieldErrors(t *testing.T, err error) map[string]any {
	t.Helper()
	var de *dErrors.Error
	require.True(t, errors.As(err, &de), "expected domain error, got %v", err)
	require.Equal(t, dErrors.CodeValidation, de.Code)
	return de.Fields
}

func newPending(t *testing.T) *Request {
	t.Helper()
	r, err := NewRequest(id.NewRequestID(), id.NewUserID(), Patch{
		Type:     ptr(TypeResidence),
		Purpose:  ptr("housing"),
		Metadata: completeMetadata(),
	}, t0)
	require.NoError(t, err)
	return r
}

func TestNewRequest(t *testing.T) {
	t.Run("defaults to pending and normal urgency", func(t *testing.T) {
		r := newPending(t)
		assert.Equal(t, StatusPending, r.Status)
		assert.Equal(t, UrgencyNormal, r.Urgency)
		assert.Nil(t, r.DecidedBy)
		assert.Equal(t, t0, r.CreatedAt)
	})

	t.Run("missing reference_no is keyed under metadata", func(t *testing.T) {
		meta := completeMetadata()
		delete(meta, "reference_no")

		_, err := NewRequest(id.NewRequestID(), id.NewUserID(), Patch{
			Type: ptr(TypeResidence), Purpose: ptr("housing"), Metadata: meta,
		}, t0)
		fields := fieldErrors(t, err)
		assert.Equal(t, map[string]any{"reference_no": "This field is required."}, fields["metadata"])
	})

	t.Run("blank and null metadata values count as missing", func(t *testing.T) {
		meta := completeMetadata()
		meta["ward"] = "   "
		meta["mtaa"] = nil

		_, err := NewRequest(id.NewRequestID(), id.NewUserID(), Patch{
			Type: ptr(TypeNIDA), Purpose: ptr("id"), Metadata: meta,
		}, t0)
		meta2 := fieldErrors(t, err)["metadata"].(map[string]any)
		assert.Contains(t, meta2, "ward")
		assert.Contains(t, meta2, "mtaa")
	})

	t.Run("blank purpose", func(t *testing.T) {
		_, err := NewRequest(id.NewRequestID(), id.NewUserID(), Patch{
			Type: ptr(TypeLicense), Purpose: ptr("  "), Metadata: completeMetadata(),
		}, t0)
		assert.Equal(t, "This field may not be blank.", fieldErrors(t, err)["purpose"])
	})

	t.Run("required and enum fields", func(t *testing.T) {
		_, err := NewRequest(id.NewRequestID(), id.NewUserID(), Patch{
			Urgency: ptr(Urgency("asap")), Metadata: completeMetadata(),
		}, t0)
		fields := fieldErrors(t, err)
		assert.Equal(t, "This field is required.", fields["request_type"])
		assert.Equal(t, "This field is required.", fields["purpose"])
		assert.Equal(t, `"asap" is not a valid choice.`, fields["urgency"])
	})

	t.Run("nested metadata values are refused", func(t *testing.T) {
		meta := completeMetadata()
		meta["to"] = map[string]any{"name": "x"}

		_, err := NewRequest(id.NewRequestID(), id.NewUserID(), Patch{
			Type: ptr(TypeResidence), Purpose: ptr("housing"), Metadata: meta,
		}, t0)
		meta2 := fieldErrors(t, err)["metadata"].(map[string]any)
		assert.Equal(t, "Value must be a string, number, boolean or null.", meta2["to"])
	})
}

func TestMetadataMerge(t *testing.T) {
	merged := Metadata{"ward": "A"}.Merge(Metadata{"region": "B"})
	assert.Equal(t, Metadata{"ward": "A", "region": "B"}, merged)

	overridden := Metadata{"ward": "A"}.Merge(Metadata{"ward": "C"})
	assert.Equal(t, "C", overridden["ward"])
}

func TestMetadataText(t *testing.T) {
	m := Metadata{"s": "  x  ", "n": float64(17), "f": 2.5, "b": true, "null": nil}
	assert.Equal(t, "x", m.Text("s"))
	assert.Equal(t, "17", m.Text("n"))
	assert.Equal(t, "2.5", m.Text("f"))
	assert.Equal(t, "true", m.Text("b"))
	assert.Equal(t, "", m.Text("null"))
	assert.Equal(t, "", m.Text("absent"))
}

func TestUpdate(t *testing.T) {
	t.Run("partial metadata keeps stored keys", func(t *testing.T) {
		r := newPending(t)
		later := t0.Add(time.Hour)
		require.NoError(t, r.Update(Patch{Metadata: Metadata{"occupation": "Mkulima"}}, later))
		assert.Equal(t, "Mkulima", r.Metadata["occupation"])
		assert.Equal(t, "SM/SN/KN/0042", r.Metadata["reference_no"])
		assert.Equal(t, later, r.UpdatedAt)
	})

	t.Run("invalid patch leaves the request untouched", func(t *testing.T) {
		r := newPending(t)
		before := *r
		err := r.Update(Patch{Purpose: ptr(""), AdditionalInfo: ptr("changed")}, t0.Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, before.AdditionalInfo, r.AdditionalInfo)
		assert.Equal(t, before.UpdatedAt, r.UpdatedAt)
	})

	t.Run("not pending is a state conflict", func(t *testing.T) {
		r := newPending(t)
		r.Approve(officer, t0)
		err := r.Update(Patch{AdditionalInfo: ptr("x")}, t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
		assert.EqualError(t, err, "Only pending requests can be edited.")
	})
}

func TestDecisions(t *testing.T) {
	t.Run("approve clears rejection reason and stamps decision", func(t *testing.T) {
		r := newPending(t)
		r.Reject(officer, "bad photo", t0)
		r.Approve(officer, t0.Add(time.Minute))
		assert.Equal(t, StatusApproved, r.Status)
		assert.Empty(t, r.RejectionReason)
		require.NotNil(t, r.DecidedBy)
		assert.Equal(t, officer, *r.DecidedBy)
		assert.Equal(t, t0.Add(time.Minute), *r.DecidedAt)
	})

	t.Run("blank reason becomes the default", func(t *testing.T) {
		r := newPending(t)
		r.Reject(officer, "  \t ", t0)
		assert.Equal(t, "No reason provided.", r.RejectionReason)

		r.Reject(officer, "Missing stamp", t0)
		assert.Equal(t, "Missing stamp", r.RejectionReason)
	})

	t.Run("reopen pending is a state conflict", func(t *testing.T) {
		r := newPending(t)
		assert.EqualError(t, r.Reopen(t0), "Request is already pending.")
	})

	t.Run("reopen clears decision fields", func(t *testing.T) {
		r := newPending(t)
		r.Reject(officer, "x", t0)
		require.NoError(t, r.Reopen(t0))
		assert.Equal(t, StatusPending, r.Status)
		assert.Empty(t, r.RejectionReason)
		assert.Nil(t, r.DecidedBy)
		assert.Nil(t, r.DecidedAt)
	})
}

func TestResubmit(t *testing.T) {
	t.Run("only rejected requests", func(t *testing.T) {
		r := newPending(t)
		err := r.Resubmit(Patch{}, t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

		r.Approve(officer, t0)
		assert.Error(t, r.Resubmit(Patch{}, t0))
	})

	t.Run("type change is a validation failure", func(t *testing.T) {
		r := newPending(t)
		r.Reject(officer, "", t0)
		err := r.Resubmit(Patch{Type: ptr(TypeNIDA)}, t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.EqualError(t, err, "Request type cannot be changed when resubmitting.")
	})

	t.Run("same type is accepted and edits apply", func(t *testing.T) {
		r := newPending(t)
		r.Reject(officer, "", t0)
		require.NoError(t, r.Resubmit(Patch{Type: ptr(TypeResidence), Purpose: ptr("school")}, t0))
		assert.Equal(t, StatusPending, r.Status)
		assert.Equal(t, "school", r.Purpose)
		assert.Nil(t, r.DecidedAt)
		assert.Empty(t, r.RejectionReason)
	})

	t.Run("failed validation keeps the rejection", func(t *testing.T) {
		r := newPending(t)
		r.Reject(officer, "reason", t0)
		err := r.Resubmit(Patch{Metadata: Metadata{"ward": ""}}, t0)
		require.Error(t, err)
		assert.Equal(t, StatusRejected, r.Status)
		assert.Equal(t, "reason", r.RejectionReason)
	})
}

func TestSchemaFor(t *testing.T) {
	for _, typ := range []RequestType{TypeResidence, TypeNIDA, TypeLicense} {
		s, ok := SchemaFor(typ)
		require.True(t, ok)
		assert.Len(t, s.Required, 11)
	}
	_, ok := SchemaFor(RequestType("passport"))
	assert.False(t, ok)
}
