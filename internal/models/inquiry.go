package models

// InquiryStatus enumerates the follow-up state of a lead.
type InquiryStatus string

const (
	InquiryStatusNew      InquiryStatus = "New"
	InquiryStatusFollowUp InquiryStatus = "Follow-up"
	InquiryStatusEnrolled InquiryStatus = "Enrolled"
	InquiryStatusDropped  InquiryStatus = "Dropped"
)

// Active reports whether the lead still needs attention.
func (s InquiryStatus) Active() bool {
	return s == InquiryStatusNew || s == InquiryStatusFollowUp
}

// InquirySource enumerates how a lead reached the institute.
type InquirySource string

const (
	InquirySourceWalkIn      InquirySource = "Walk-in"
	InquirySourceWebsite     InquirySource = "Website"
	InquirySourceReferral    InquirySource = "Referral"
	InquirySourceSocialMedia InquirySource = "Social Media"
	InquirySourceOther       InquirySource = "Other"
)

// Inquiry is a prospective student's first contact.
type Inquiry struct {
	ID                  string        `json:"id,omitempty"`
	Name                string        `json:"name"`
	Phone               string        `json:"phone"`
	Email               string        `json:"email,omitempty"`
	Address             string        `json:"address,omitempty"`
	ProgramOfInterestID string        `json:"programOfInterestId"`
	EmployeeID          string        `json:"employeeId"`
	Status              InquiryStatus `json:"status"`
	Source              InquirySource `json:"source"`
	Notes               string        `json:"notes,omitempty"`
	InquiryDate         string        `json:"inquiryDate"`
	FollowUpDate        string        `json:"followUpDate,omitempty"`
	CreatedAt           string        `json:"createdAt,omitempty"`
	UpdatedAt           string        `json:"updatedAt,omitempty"`
}

// SetID implements Keyed.
func (i *Inquiry) SetID(id string) { i.ID = id }

// Potential is an inquiry promoted to a qualified lead, annotated with a
// remark from the employee who moved it.
type Potential struct {
	Inquiry
	Remark string `json:"remark"`
}

// NewPotential copies every inquiry field into a potential. The identifier is
// left blank because potentials are stored under a fresh key.
func NewPotential(inquiry Inquiry, remark string) Potential {
	inquiry.ID = ""
	return Potential{Inquiry: inquiry, Remark: remark}
}
