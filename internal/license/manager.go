package license

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidLicenseType is returned when a paid activation names a tier
	// outside {SEMESTRAL, ANNUAL}.
	ErrInvalidLicenseType = errors.New("invalid license type")
	// ErrMissingCustomerInfo is returned when a paid activation omits the
	// customer name or email.
	ErrMissingCustomerInfo = errors.New("customer name and email are required")
)

// Manager owns the single persisted license record: it issues, signs,
// verifies and replaces it. Exactly one record exists per installation.
type Manager struct {
	file      string
	machineID string
	nowFn     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the wall clock, used by tests to control expiry.
func WithClock(nowFn func() time.Time) Option {
	return func(m *Manager) { m.nowFn = nowFn }
}

// WithMachineID overrides the recorded host identifier.
func WithMachineID(id string) Option {
	return func(m *Manager) { m.machineID = id }
}

// NewManager creates a manager persisting to the given file path.
func NewManager(file string, opts ...Option) *Manager {
	hostname, _ := os.Hostname()
	m := &Manager{
		file:      file,
		machineID: hostname,
		nowFn:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init ensures a valid license exists at startup: an absent or invalid record
// is replaced by a fresh trial. A trial that fails its own re-verification is
// a programming defect and reported as a fatal error.
func (m *Manager) Init() (Status, error) {
	status := m.Verify()
	if status.Valid {
		log.Printf("license: existing license valid, id=%s days_remaining=%d", status.License.LicenseID, status.DaysRemaining)
		return status, nil
	}

	log.Printf("license: no valid license (%s), issuing trial", status.Reason)
	if _, err := m.IssueTrial(Customer{}); err != nil {
		return Status{}, err
	}
	return m.Verify(), nil
}

// IssueTrial builds, signs and persists a 15-day trial record, replacing any
// existing record, then immediately re-verifies the result. Signature
// generation is deterministic, so a re-verification failure indicates a
// defect, not a transient condition.
func (m *Manager) IssueTrial(customer Customer) (*Record, error) {
	now := m.nowFn()
	plan := Catalog[TypeTrial]

	if customer.Name == "" {
		customer.Name = "Trial User"
	}
	if customer.Email == "" {
		customer.Email = "trial@ristorante.com"
	}
	if customer.Company == "" {
		customer.Company = "N/D"
	}

	record := &Record{
		Type:          TypeTrial,
		LicenseID:     m.newLicenseID(TypeTrial),
		IssueDate:     now,
		ExpiryDate:    now.AddDate(0, 0, plan.DurationDays),
		ActivatedDate: now,
		Customer:      customer,
		MachineID:     m.machineID,
		Trial:         true,
		Paid:          false,
		Features:      plan.Features,
		Price:         plan.Price,
	}
	record.Signature = Sign(record)

	if err := m.save(record); err != nil {
		return nil, err
	}

	if status := m.Verify(); !status.Valid {
		return nil, fmt.Errorf("trial license invalid after creation: %s", status.Reason)
	}

	log.Printf("license: trial issued, id=%s expires=%s", record.LicenseID, record.ExpiryDate.Format(time.RFC3339))
	return record, nil
}

// ActivatePaid replaces the current record with a signed paid license of the
// given tier. Only SEMESTRAL and ANNUAL can be purchased.
func (m *Manager) ActivatePaid(t Type, customer Customer) (*Record, error) {
	if t != TypeSemestral && t != TypeAnnual {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLicenseType, t)
	}
	if customer.Name == "" || customer.Email == "" {
		return nil, ErrMissingCustomerInfo
	}

	now := m.nowFn()
	plan := Catalog[t]

	record := &Record{
		Type:          t,
		LicenseID:     m.newLicenseID(t),
		IssueDate:     now,
		ExpiryDate:    now.AddDate(0, 0, plan.DurationDays),
		ActivatedDate: now,
		Customer:      customer,
		MachineID:     m.machineID,
		Trial:         false,
		Paid:          true,
		Features:      plan.Features,
		Price:         plan.Price,
	}
	record.Signature = Sign(record)

	if err := m.save(record); err != nil {
		return nil, err
	}

	if status := m.Verify(); !status.Valid {
		return nil, fmt.Errorf("paid license invalid after activation: %s", status.Reason)
	}

	log.Printf("license: %s license activated, id=%s price=%.0f", t, record.LicenseID, record.Price)
	return record, nil
}

// Verify is the single source of truth for access control. Checks run in
// order: record exists, required fields present, signature matches, not
// expired. It never returns an error; failures come back as a Status.
func (m *Manager) Verify() Status {
	record, err := m.read()
	if err != nil {
		return Status{Valid: false, Reason: "license not found"}
	}

	if record.Type == "" {
		return Status{Valid: false, Reason: "license type missing"}
	}
	if record.ExpiryDate.IsZero() {
		return Status{Valid: false, Reason: "expiry date missing"}
	}
	if record.LicenseID == "" {
		return Status{Valid: false, Reason: "license id missing"}
	}
	if record.MachineID == "" {
		return Status{Valid: false, Reason: "machine id missing"}
	}
	if record.Signature == "" {
		return Status{Valid: false, Reason: "signature missing"}
	}

	if !VerifySignature(record) {
		return Status{Valid: false, Reason: "license corrupt or tampered with", Tampered: true}
	}

	now := m.nowFn()
	if !record.ExpiryDate.After(now) {
		return Status{Valid: false, Reason: "license expired", Expired: true, License: record}
	}

	return Status{
		Valid:         true,
		License:       record,
		DaysRemaining: daysRemaining(record.ExpiryDate, now),
	}
}

// Reset backs up the current record (copy, not move) to a .backup sibling,
// deletes it and reissues a trial.
func (m *Manager) Reset() (*Record, error) {
	if data, err := os.ReadFile(m.file); err == nil {
		backup := m.file + ".backup"
		if err := os.WriteFile(backup, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to back up license: %w", err)
		}
		if err := os.Remove(m.file); err != nil {
			return nil, fmt.Errorf("failed to remove license: %w", err)
		}
		log.Printf("license: backup written to %s", backup)
	}
	return m.IssueTrial(Customer{})
}

// Info returns the raw persisted record without any verification, or nil.
func (m *Manager) Info() *Record {
	record, err := m.read()
	if err != nil {
		return nil
	}
	return record
}

// FileExists reports whether a license file is present on disk.
func (m *Manager) FileExists() bool {
	_, err := os.Stat(m.file)
	return err == nil
}

// MachineID returns the host identifier recorded on issued licenses.
func (m *Manager) MachineID() string {
	return m.machineID
}

func (m *Manager) read() (*Record, error) {
	data, err := os.ReadFile(m.file)
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (m *Manager) save(record *Record) error {
	if record.Signature == "" {
		record.Signature = Sign(record)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.file, data, 0o644); err != nil {
		return fmt.Errorf("failed to save license: %w", err)
	}
	return nil
}

// newLicenseID builds an id of the form <prefix>_<random>_<timestamp>.
func (m *Manager) newLicenseID(t Type) string {
	prefixes := map[Type]string{
		TypeTrial:     "TRIAL",
		TypeSemestral: "SEMS",
		TypeAnnual:    "ANNU",
	}
	prefix, ok := prefixes[t]
	if !ok {
		prefix = "LIC"
	}
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	timestamp := strings.ToUpper(strconv.FormatInt(m.nowFn().UnixMilli(), 36))
	return prefix + "_" + random + "_" + timestamp
}
