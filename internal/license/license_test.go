package license

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	file := filepath.Join(t.TempDir(), "license.json")
	opts = append([]Option{WithMachineID("test-host")}, opts...)
	return NewManager(file, opts...)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	record := &Record{
		Type:       TypeAnnual,
		LicenseID:  "ANNU_ABCD1234_XYZ",
		ExpiryDate: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		MachineID:  "test-host",
	}
	record.Signature = Sign(record)

	assert.True(t, VerifySignature(record))
}

func TestTamperingInvalidatesSignature(t *testing.T) {
	base := Record{
		Type:       TypeSemestral,
		LicenseID:  "SEMS_ABCD1234_XYZ",
		ExpiryDate: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		MachineID:  "test-host",
	}
	base.Signature = Sign(&base)

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"type", func(r *Record) { r.Type = TypeAnnual }},
		{"licenseId", func(r *Record) { r.LicenseID = "SEMS_FORGED99_XYZ" }},
		{"expiryDate", func(r *Record) { r.ExpiryDate = r.ExpiryDate.AddDate(1, 0, 0) }},
		{"machineId", func(r *Record) { r.MachineID = "other-host" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := base
			tt.mutate(&tampered)
			assert.False(t, VerifySignature(&tampered))
		})
	}
}

func TestIssueTrialCreatesValidLicense(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, WithClock(func() time.Time { return now }))

	record, err := m.IssueTrial(Customer{})
	require.NoError(t, err)

	assert.Equal(t, TypeTrial, record.Type)
	assert.True(t, record.Trial)
	assert.False(t, record.Paid)
	assert.Equal(t, "Trial User", record.Customer.Name)
	assert.Equal(t, "trial@ristorante.com", record.Customer.Email)
	assert.Equal(t, now.AddDate(0, 0, 15), record.ExpiryDate)

	status := m.Verify()
	require.True(t, status.Valid)
	assert.Equal(t, 15, status.DaysRemaining)
}

func TestActivatePaidValidation(t *testing.T) {
	m := newTestManager(t)

	_, err := m.ActivatePaid(TypeTrial, Customer{Name: "A", Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrInvalidLicenseType)

	_, err = m.ActivatePaid(Type("LIFETIME"), Customer{Name: "A", Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrInvalidLicenseType)

	_, err = m.ActivatePaid(TypeAnnual, Customer{Name: "A"})
	assert.ErrorIs(t, err, ErrMissingCustomerInfo)

	_, err = m.ActivatePaid(TypeAnnual, Customer{Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrMissingCustomerInfo)
}

func TestCatalogDurationsAndPrices(t *testing.T) {
	assert.Equal(t, 15, Catalog[TypeTrial].DurationDays)
	assert.Equal(t, 180, Catalog[TypeSemestral].DurationDays)
	assert.Equal(t, float64(299), Catalog[TypeSemestral].Price)
	assert.Equal(t, 365, Catalog[TypeAnnual].DurationDays)
	assert.Equal(t, float64(499), Catalog[TypeAnnual].Price)
}

func TestVerifyMissingLicense(t *testing.T) {
	m := newTestManager(t)

	status := m.Verify()
	assert.False(t, status.Valid)
	assert.Equal(t, "license not found", status.Reason)
}

func TestVerifyMissingFields(t *testing.T) {
	file := filepath.Join(t.TempDir(), "license.json")
	m := NewManager(file, WithMachineID("test-host"))

	partial := map[string]any{"type": "TRIAL"}
	data, err := json.Marshal(partial)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, data, 0o644))

	status := m.Verify()
	assert.False(t, status.Valid)
	assert.Equal(t, "expiry date missing", status.Reason)
}

func TestVerifyTamperedFile(t *testing.T) {
	m := newTestManager(t)
	record, err := m.IssueTrial(Customer{})
	require.NoError(t, err)

	record.ExpiryDate = record.ExpiryDate.AddDate(10, 0, 0)
	data, err := json.MarshalIndent(record, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(m.file, data, 0o644))

	status := m.Verify()
	assert.False(t, status.Valid)
	assert.True(t, status.Tampered)
}

func TestDaysRemainingNeverNegative(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 0, daysRemaining(now.Add(-time.Hour), now))
	assert.Equal(t, 1, daysRemaining(now.Add(time.Minute), now))
	assert.Equal(t, 2, daysRemaining(now.Add(25*time.Hour), now))
}

func TestTrialExpiryThenPaidActivation(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	m := newTestManager(t, WithClock(func() time.Time { return now }))

	_, err := m.IssueTrial(Customer{})
	require.NoError(t, err)

	status := m.Verify()
	require.True(t, status.Valid)
	assert.Equal(t, 15, status.DaysRemaining)

	// Sixteen days later the trial is gone.
	now = t0.AddDate(0, 0, 16)
	status = m.Verify()
	assert.False(t, status.Valid)
	assert.True(t, status.Expired)
	assert.Equal(t, "license expired", status.Reason)

	// A paid annual license restores access for about a year.
	_, err = m.ActivatePaid(TypeAnnual, Customer{Name: "A", Email: "a@b.com"})
	require.NoError(t, err)

	status = m.Verify()
	require.True(t, status.Valid)
	assert.Equal(t, 365, status.DaysRemaining)
	assert.True(t, status.License.Paid)
}

func TestResetBacksUpAndReissuesTrial(t *testing.T) {
	m := newTestManager(t)

	original, err := m.ActivatePaid(TypeSemestral, Customer{Name: "A", Email: "a@b.com"})
	require.NoError(t, err)

	record, err := m.Reset()
	require.NoError(t, err)
	assert.Equal(t, TypeTrial, record.Type)
	assert.NotEqual(t, original.LicenseID, record.LicenseID)

	// Backup holds the replaced paid license.
	data, err := os.ReadFile(m.file + ".backup")
	require.NoError(t, err)
	var backup Record
	require.NoError(t, json.Unmarshal(data, &backup))
	assert.Equal(t, original.LicenseID, backup.LicenseID)
}

func TestInitIssuesTrialWhenAbsent(t *testing.T) {
	m := newTestManager(t)

	status, err := m.Init()
	require.NoError(t, err)
	assert.True(t, status.Valid)
	assert.Equal(t, TypeTrial, status.License.Type)

	// A second Init keeps the existing license.
	first := status.License.LicenseID
	status, err = m.Init()
	require.NoError(t, err)
	assert.Equal(t, first, status.License.LicenseID)
}

func TestLicenseIDFormat(t *testing.T) {
	m := newTestManager(t)
	id := m.newLicenseID(TypeAnnual)
	assert.Regexp(t, `^ANNU_[0-9A-F]{8}_[0-9A-Z]+$`, id)
}
