package cardform

// Status is the phase of the submission state machine.
type Status int

const (
	StatusIdle Status = iota
	StatusProcessing
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusProcessing:
		return "processing"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Submission is the outcome of the latest submit. Token is set only when
// Succeeded; Reason and Message only when Failed.
type Submission struct {
	Status  Status `json:"status"`
	Token   string `json:"token,omitempty"`
	Brand   string `json:"brand,omitempty"`
	Last4   string `json:"last4,omitempty"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`

	// Expiry of the tokenized card, kept so a caller can record it.
	ExpMonth int `json:"exp_month,omitempty"`
	ExpYear  int `json:"exp_year,omitempty"`
}

// FieldState is the read-only view of one field.
type FieldState struct {
	Value   string `json:"value"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
	Touched bool   `json:"touched"`
}

// State is a snapshot of a Form handed to observers. It shares nothing with
// the form it was taken from.
type State struct {
	CardNumber FieldState `json:"card_number"`
	Expiry     FieldState `json:"expiry"`
	Cvc        FieldState `json:"cvc"`
	HolderName FieldState `json:"holder_name"`
	CvcVisible bool       `json:"cvc_visible"`
	Brand      Brand      `json:"brand"`
	FormValid  bool       `json:"form_valid"`
	CanSubmit  bool       `json:"can_submit"`
	Processing bool       `json:"processing"`
	Submission Submission `json:"submission"`
}

// Field returns the state of f.
func (s State) Field(f Field) FieldState {
	switch f {
	case FieldCardNumber:
		return s.CardNumber
	case FieldExpiry:
		return s.Expiry
	case FieldCvc:
		return s.Cvc
	default:
		return s.HolderName
	}
}
