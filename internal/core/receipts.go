package core

import (
	"btocore/internal/blob"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Receipt is the booking confirmation handed to the applicant once a unit is
// committed. It snapshots applicant and project details at booking time so
// later project edits do not rewrite history.
type Receipt struct {
	ApplicationID string    `json:"application_id"`
	ApplicantName string    `json:"applicant_name"`
	ApplicantNRIC string    `json:"applicant_nric"`
	Age           int       `json:"age"`
	MaritalStatus string    `json:"marital_status"`
	FlatType      FlatType  `json:"flat_type"`
	Price         float64   `json:"price"`
	ProjectName   string    `json:"project_name"`
	Neighbourhood string    `json:"neighbourhood"`
	BookedAt      time.Time `json:"booked_at"`
}

func newReceipt(application Application, applicant Person, project Project, at time.Time) Receipt {
	return Receipt{
		ApplicationID: application.ID,
		ApplicantName: application.ApplicantName,
		ApplicantNRIC: application.ApplicantNRIC,
		Age:           applicant.Age,
		MaritalStatus: string(applicant.MaritalStatus),
		FlatType:      application.FlatType,
		Price:         project.Prices[application.FlatType],
		ProjectName:   project.Name,
		Neighbourhood: project.Neighbourhood,
		BookedAt:      at,
	}
}

// Render produces the printable confirmation text.
func (r Receipt) Render() string {
	var b bytes.Buffer
	fmt.Fprintln(&b, "=== Flat Booking Receipt ===")
	fmt.Fprintf(&b, "Applicant: %s (%s)\n", r.ApplicantName, r.ApplicantNRIC)
	fmt.Fprintf(&b, "Age: %d, Marital status: %s\n", r.Age, r.MaritalStatus)
	fmt.Fprintf(&b, "Project: %s, %s\n", r.ProjectName, r.Neighbourhood)
	fmt.Fprintf(&b, "Flat type: %s at $%.2f\n", r.FlatType, r.Price)
	fmt.Fprintf(&b, "Booked: %s\n", r.BookedAt.Format(time.RFC3339))
	return b.String()
}

// archiveReceipt writes the receipt to the archive under a stable key. The
// store rejects overwrites, so rebooking attempts cannot clobber the
// original confirmation.
func archiveReceipt(ctx context.Context, store blob.Store, receipt Receipt) error {
	payload, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	key := fmt.Sprintf("receipts/%s.json", receipt.ApplicationID)
	_, err = store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"application_id": receipt.ApplicationID,
			"project_name":   receipt.ProjectName,
		},
	})
	if err != nil {
		return fmt.Errorf("archive receipt %s: %w", key, err)
	}
	return nil
}
