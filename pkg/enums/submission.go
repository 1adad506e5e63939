package enums

import "fmt"

// SubmissionType discriminates the two intake payload shapes.
type SubmissionType string

const (
	SubmissionTypeQuickForm        SubmissionType = "quick_form"
	SubmissionTypeOnboardingWizard SubmissionType = "onboarding_wizard"
)

var validSubmissionTypes = []SubmissionType{
	SubmissionTypeQuickForm,
	SubmissionTypeOnboardingWizard,
}

// String implements fmt.Stringer.
func (t SubmissionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known SubmissionType.
func (t SubmissionType) IsValid() bool {
	for _, candidate := range validSubmissionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSubmissionType converts raw input into a SubmissionType.
func ParseSubmissionType(value string) (SubmissionType, error) {
	for _, candidate := range validSubmissionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission type %q", value)
}

// SubmissionStatus tracks a submission through admin review.
type SubmissionStatus string

const (
	SubmissionStatusPendingReview SubmissionStatus = "pending_review"
	SubmissionStatusPublished     SubmissionStatus = "published"
)

var validSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusPendingReview,
	SubmissionStatusPublished,
}

// String implements fmt.Stringer.
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionStatus.
func (s SubmissionStatus) IsValid() bool {
	for _, candidate := range validSubmissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionStatus converts raw input into a SubmissionStatus.
func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	for _, candidate := range validSubmissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission status %q", value)
}
