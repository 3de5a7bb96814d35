package scholarship

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusSelected    = "Selected"
	StatusNotSelected = "Not Selected"

	InstallmentPending   = "pending"
	InstallmentCompleted = "completed"
)

// ScholarshipRecord is one applicant's application. Email is the natural key.
type ScholarshipRecord struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email                   string             `bson:"email" json:"email" validate:"required,looseemail"`
	Name                    string             `bson:"name" json:"name" validate:"required"`
	ContactNumber           string             `bson:"contactNumber" json:"contactNumber"`
	Age                     *int               `bson:"age" json:"age"`
	Status                  string             `bson:"status" json:"status"`
	ScholarshipName         string             `bson:"scholarshipName" json:"scholarshipName" validate:"required"`
	Gender                  string             `bson:"gender" json:"gender" validate:"required,oneof=male female other"`
	State                   string             `bson:"state" json:"state" validate:"required"`
	Category                string             `bson:"category" json:"category"`
	PwdPercentage           *float64           `bson:"pwdPercentage" json:"pwdPercentage" validate:"omitempty,min=0,max=100"`
	IsMinority              *bool              `bson:"isMinority" json:"isMinority"`
	GuardianOccupation      string             `bson:"guardianOccupation" json:"guardianOccupation"`
	FamilyAnnualIncome      *float64           `bson:"familyAnnualIncome" json:"familyAnnualIncome"`
	Class10Percentage       *float64           `bson:"class10Percentage" json:"class10Percentage"`
	Class12Percentage       *float64           `bson:"class12Percentage" json:"class12Percentage"`
	GraduationPercentage    *float64           `bson:"graduationPercentage" json:"graduationPercentage"`
	FieldOfStudy            string             `bson:"fieldOfStudy" json:"fieldOfStudy"`
	PostGraduationCompleted *bool              `bson:"postGraduationCompleted" json:"postGraduationCompleted"`
	CSEAttempts             *int               `bson:"cseAttempts" json:"cseAttempts"`
	UPSCPrelimsCleared      *bool              `bson:"upscPrelimsCleared" json:"upscPrelimsCleared"`
	UPSCMainsCleared        *bool              `bson:"upscMainsCleared" json:"upscMainsCleared"`
	ScholarshipID           string             `bson:"scholarshipID" json:"scholarshipID"`
	ScholarshipAwarded      *bool              `bson:"scholarshipAwarded" json:"scholarshipAwarded"`
	TotalAmount             *float64           `bson:"totalAmount" json:"totalAmount"`
	AmountDisbursed         *float64           `bson:"amountDisbursed" json:"amountDisbursed"`
	DisbursementDate        *time.Time         `bson:"disbursementDate" json:"disbursementDate"`
	Installments            []Installment      `bson:"installments" json:"installments"`
	CoachingInstitute       string             `bson:"coachingInstitute" json:"coachingInstitute"`
	CoachingCity            string             `bson:"coachingCity" json:"coachingCity"`
	CoachingState           string             `bson:"coachingState" json:"coachingState"`
	PsychometricReport      string             `bson:"psychometricReport" json:"psychometricReport"`
	CreatedAt               time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time          `bson:"updatedAt" json:"updatedAt"`

	// supplied holds the bson names of the fields an imported row carried.
	// nil means every field is authoritative.
	supplied map[string]bool
}

// Installment is embedded in its record and has no identity of its own.
type Installment struct {
	InstallmentNumber int        `bson:"installmentNumber" json:"installmentNumber"`
	Status            string     `bson:"status" json:"status"`
	DateCompleted     *time.Time `bson:"dateCompleted" json:"dateCompleted"`
	Amount            *float64   `bson:"amount" json:"amount"`
}

// IsSelected reports whether the applicant was selected.
func (r *ScholarshipRecord) IsSelected() bool {
	return r.Status == StatusSelected
}

// supplies reports whether field was carried by the row rec came from.
func (r *ScholarshipRecord) supplies(field string) bool {
	return r.supplied == nil || r.supplied[field]
}

// Normalize applies the storage invariants: lower-cased key and gender,
// canonical status and installment states.
func (r *ScholarshipRecord) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Name = trim(r.Name)
	r.Gender = NormalizeGender(r.Gender)
	r.Status = NormalizeStatus(r.Status)
	for i := range r.Installments {
		r.Installments[i].Status = normalizeInstallmentStatus(r.Installments[i].Status)
	}
	if r.Installments == nil {
		r.Installments = []Installment{}
	}
}

// InvalidRecord is a rejected CSV row with the reasons it was rejected. Row is
// the line of the file the row starts on, the header being line 1.
type InvalidRecord struct {
	Row    int               `json:"row"`
	Record map[string]string `json:"record"`
	Error  string            `json:"error"`
}

// ImportResult summarises one CSV batch.
type ImportResult struct {
	UpdatedCount   int             `json:"updated"`
	InsertedCount  int             `json:"inserted"`
	InvalidRecords []InvalidRecord `json:"invalidRecords"`
	ParsedRows     int             `json:"-"`
}

// UpsertResult is what the store reports for one bulk upsert.
type UpsertResult struct {
	Matched  int
	Upserted int
}

// ListQuery drives the paginated student list.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

type ListResult struct {
	Data       []*ScholarshipRecord `json:"data"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int64                `json:"totalPages"`
}
