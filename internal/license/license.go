package license

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// secretKey signs license records. This is a soft gate for commercial
// distribution, not a security boundary: the key is fixed and shipped with
// the binary, there is no rotation and no per-install keying.
const secretKey = "ristorante-bellavista-2024"

// Customer identifies who a license was issued to.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Record is the single license document persisted per installation. Records
// are never mutated in place; every change regenerates and re-signs the whole
// document.
type Record struct {
	Type          Type      `json:"type"`
	LicenseID     string    `json:"licenseId"`
	IssueDate     time.Time `json:"issueDate"`
	ExpiryDate    time.Time `json:"expiryDate"`
	ActivatedDate time.Time `json:"activatedDate"`
	Customer      Customer  `json:"customer"`
	MachineID     string    `json:"machineId"`
	Trial         bool      `json:"trial"`
	Paid          bool      `json:"paid"`
	Features      []string  `json:"features"`
	Price         float64   `json:"price"`
	Signature     string    `json:"signature"`
}

// signedFields is the canonical subset covered by the signature. Field order
// matters: the HMAC is computed over the JSON encoding of this struct.
type signedFields struct {
	Type       Type   `json:"type"`
	LicenseID  string `json:"licenseId"`
	ExpiryDate string `json:"expiryDate"`
	MachineID  string `json:"machineId"`
}

// Sign computes the HMAC-SHA256 signature over the record's canonical subset.
func Sign(r *Record) string {
	payload, _ := json.Marshal(signedFields{
		Type:       r.Type,
		LicenseID:  r.LicenseID,
		ExpiryDate: r.ExpiryDate.UTC().Format(time.RFC3339),
		MachineID:  r.MachineID,
	})
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the record's signature matches the
// recomputed HMAC over the canonical subset.
func VerifySignature(r *Record) bool {
	if r.Signature == "" {
		return false
	}
	expected := Sign(r)
	return hmac.Equal([]byte(r.Signature), []byte(expected))
}

// Status is the structured result of a verification. Verification failures
// never raise; they come back as {Valid:false, Reason}.
type Status struct {
	Valid         bool    `json:"valid"`
	Reason        string  `json:"reason,omitempty"`
	License       *Record `json:"license,omitempty"`
	DaysRemaining int     `json:"daysRemaining"`
	Expired       bool    `json:"expired,omitempty"`
	Tampered      bool    `json:"tampered,omitempty"`
}

// daysRemaining is the ceiling of the exact wall-clock duration until expiry.
// The calendar-midnight variant is deliberately not used; one policy applies
// everywhere.
func daysRemaining(expiry, now time.Time) int {
	left := expiry.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) != 0 {
		days++
	}
	return days
}
