package analytics

const (
	// ApplicantsObject and ReadPIIAction name the capability that allows
	// applicant names and emails to appear in analytics responses.
	ApplicantsObject = "applicants"
	ReadPIIAction    = "read-pii"

	redacted = "[redacted]"
)

// Authorizer answers capability checks for a role.
type Authorizer interface {
	Can(role, object, action string) bool
}

// Redact masks applicant names and emails unless the caller may see them.
func Redact(s *Summary, canViewPII bool) {
	if canViewPII {
		return
	}
	for i := range s.Applicants {
		s.Applicants[i].Name = redacted
		s.Applicants[i].Email = redacted
	}
}
