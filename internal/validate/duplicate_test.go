package validate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/fleetdocs/shipcert/internal/entity"
)

type fakeFinder struct {
	certs     []*entity.Certificate
	err       error
	listCalls int
}

func (f *fakeFinder) ListByShip(_ context.Context, _ uuid.UUID) ([]*entity.Certificate, error) {
	f.listCalls++
	return f.certs, f.err
}

func (f *fakeFinder) FindByCertNo(_ context.Context, _ uuid.UUID, certNo string) ([]*entity.Certificate, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Certificate
	for _, c := range f.certs {
		if c.CertNo == certNo {
			out = append(out, c)
		}
	}
	return out, nil
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleCert() *entity.Certificate {
	return &entity.Certificate{
		CertName:  "Cargo Ship Safety Construction Certificate",
		CertNo:    "VN-2024-00123",
		IssueDate: datePtr(2024, 3, 1),
		ValidDate: datePtr(2029, 3, 1),
	}
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	c := sampleCert()
	assert.Equal(t, 1.0, Similarity(c, c))
}

func TestSimilarity_BoundaryHalfIsFlagged(t *testing.T) {
	// identical cert_no and issue_date, different cert_name and valid_date:
	// 2/4 = 0.5, flagged at the inclusive threshold
	candidate := sampleCert()
	existing := sampleCert()
	existing.CertName = "International Load Line Certificate"
	existing.ValidDate = datePtr(2027, 1, 1)

	sim := Similarity(candidate, existing)
	assert.Equal(t, 0.5, sim)

	d := NewDuplicateDetector(&fakeFinder{certs: []*entity.Certificate{existing}}, 0, nil)
	matches, err := d.FindDuplicates(context.Background(), candidate, uuid.New())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 0.5, matches[0].Similarity)
}

func TestSimilarity_AbsentFieldsExcludedFromDenominator(t *testing.T) {
	candidate := &entity.Certificate{
		CertNo:    "VN-2024-00123",
		IssueDate: datePtr(2024, 3, 1),
	}
	existing := sampleCert()

	// both present fields match: 2/2
	assert.Equal(t, 1.0, Similarity(candidate, existing))
}

func TestSimilarity_NoFieldsPresent(t *testing.T) {
	assert.Equal(t, 0.0, Similarity(&entity.Certificate{}, sampleCert()))
}

func TestFindDuplicates_BelowThresholdNotReported(t *testing.T) {
	existing := sampleCert()
	existing.CertNo = "OTHER-1"
	existing.CertName = "Different Certificate"
	existing.IssueDate = datePtr(2020, 1, 1)
	// only valid_date matches: 1/4 = 0.25

	d := NewDuplicateDetector(&fakeFinder{certs: []*entity.Certificate{existing}}, 0, nil)
	matches, err := d.FindDuplicates(context.Background(), sampleCert(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindDuplicates_NameMatchIsCaseInsensitive(t *testing.T) {
	existing := sampleCert()
	existing.CertName = "CARGO SHIP SAFETY CONSTRUCTION CERTIFICATE"

	d := NewDuplicateDetector(&fakeFinder{certs: []*entity.Certificate{existing}}, 0, nil)
	matches, err := d.FindDuplicates(context.Background(), sampleCert(), uuid.New())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].Similarity)
}

func TestFindDuplicates_ExactNumberMatchSkipsFullScan(t *testing.T) {
	finder := &fakeFinder{certs: []*entity.Certificate{sampleCert()}}

	d := NewDuplicateDetector(finder, 0, nil)
	matches, err := d.FindDuplicates(context.Background(), sampleCert(), uuid.New())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].Similarity)
	assert.Equal(t, 0, finder.listCalls, "an exact cert_no hit must not trigger the full scan")
}

func TestFindDuplicates_NumberlessCandidateScansFullList(t *testing.T) {
	finder := &fakeFinder{certs: []*entity.Certificate{sampleCert()}}
	candidate := sampleCert()
	candidate.CertNo = ""
	// name + both dates match: 3/3 present

	d := NewDuplicateDetector(finder, 0, nil)
	matches, err := d.FindDuplicates(context.Background(), candidate, uuid.New())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].Similarity)
	assert.Equal(t, 1, finder.listCalls)
}

func TestFindDuplicates_UnseenNumberFallsBackToFullScan(t *testing.T) {
	// different cert_no but matching name and dates: the exact-number lookup
	// misses, the full scan still flags 3/4
	existing := sampleCert()
	existing.CertNo = "RENEWED-2029-001"
	finder := &fakeFinder{certs: []*entity.Certificate{existing}}

	d := NewDuplicateDetector(finder, 0, nil)
	matches, err := d.FindDuplicates(context.Background(), sampleCert(), uuid.New())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 0.75, matches[0].Similarity)
	assert.Equal(t, 1, finder.listCalls)
}
