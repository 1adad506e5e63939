package submissions

import (
	"time"

	"github.com/google/uuid"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// QuickFormPayload is the flat single-page registration shape.
type QuickFormPayload struct {
	FullName      string `json:"fullName"`
	CropType      string `json:"cropType"`
	Location      string `json:"location"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Message       string `json:"message,omitempty"`
	ListingStatus string `json:"listingStatus,omitempty"`
}

// WizardProfile carries the identity step of the onboarding wizard.
type WizardProfile struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	City     string `json:"city"`
	Province string `json:"province"`
}

// WizardProduce carries the produce step of the onboarding wizard.
type WizardProduce struct {
	MainCrops         string   `json:"mainCrops"`
	PhotoURLs         []string `json:"photoUrls"`
	Unit              string   `json:"unit,omitempty"`
	ListingPreference string   `json:"listingPreference,omitempty"`
}

// WizardDocuments carries the verification step of the onboarding wizard.
type WizardDocuments struct {
	FarmProofURL string   `json:"farmProofUrl,omitempty"`
	OtherURLs    []string `json:"otherUrls,omitempty"`
}

// OnboardingWizardPayload is the multi-step registration shape.
type OnboardingWizardPayload struct {
	Profile   WizardProfile   `json:"profile"`
	Produce   WizardProduce   `json:"produce"`
	Documents WizardDocuments `json:"documents"`
}

// RegisterInput is the union of both registration shapes, discriminated by
// Source. Only the half matching Source is read.
type RegisterInput struct {
	Source enums.SubmissionType
	Quick  *QuickFormPayload
	Wizard *OnboardingWizardPayload
}

// SubmissionDTO is the API projection of a stored submission.
type SubmissionDTO struct {
	ID               uuid.UUID              `json:"id"`
	Type             enums.SubmissionType   `json:"type"`
	Status           enums.SubmissionStatus `json:"status"`
	Data             any                    `json:"data"`
	ListingID        *uuid.UUID             `json:"productId,omitempty"`
	SubmittedByUID   string                 `json:"submittedByUid"`
	SubmittedByEmail string                 `json:"submittedByEmail"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

// SubmissionsPageDTO is a cursor-paginated admin review list.
type SubmissionsPageDTO struct {
	Items      []SubmissionDTO `json:"items"`
	NextCursor string          `json:"nextCursor,omitempty"`
}
