package models

import "time"

// Provider application statuses.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// ProviderApplication is a request by a user to be granted the
// healthcare_provider role, with uploaded credential documents.
type ProviderApplication struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"user_id" json:"userId"`
	ClinicName   string    `bson:"clinic_name" json:"clinicName"`
	Specialty    string    `bson:"specialty" json:"specialty"`
	Country      string    `bson:"country" json:"country"`
	LicenseNo    string    `bson:"license_no" json:"licenseNo"`
	DocumentIDs  []string  `bson:"document_ids" json:"documentIds,omitempty"`
	Status       string    `bson:"status" json:"status"`
	RejectReason string    `bson:"reject_reason,omitempty" json:"rejectReason,omitempty"`
	ReviewedBy   string    `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// ProviderApplicationInput is the submission payload.
type ProviderApplicationInput struct {
	ClinicName string `json:"clinicName" binding:"required"`
	Specialty  string `json:"specialty" binding:"required"`
	Country    string `json:"country" binding:"required"`
	LicenseNo  string `json:"licenseNo" binding:"required"`
}
