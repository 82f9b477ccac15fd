// Package registration validates signup submissions and creates accounts.
package registration

import "strings"

// Submission is one signup form post.
type Submission struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	ReferralID      string
}

// OutcomeKind tags a validation outcome.
type OutcomeKind int

const (
	OutcomeValid OutcomeKind = iota + 1
	OutcomeMissingFields
	OutcomePasswordMismatch
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValid:
		return "valid"
	case OutcomeMissingFields:
		return "missing_fields"
	case OutcomePasswordMismatch:
		return "password_mismatch"
	default:
		return "unknown"
	}
}

// Outcome is the result of Validate. DisplayName and Username are only set
// for OutcomeValid; Missing is only set for OutcomeMissingFields.
type Outcome struct {
	Kind        OutcomeKind
	DisplayName string
	Username    string
	Missing     []string
}

func (o Outcome) Valid() bool {
	return o.Kind == OutcomeValid
}

// UsernameGenerator derives a username candidate from a first name.
type UsernameGenerator func(firstName string) string

// Policy tunes what counts as an empty field.
type Policy struct {
	// BlankIsMissing treats whitespace-only values as missing.
	BlankIsMissing bool
}

// Validate checks a submission with the default policy.
func Validate(sub Submission, usernames UsernameGenerator) Outcome {
	return ValidateWithPolicy(sub, usernames, Policy{})
}

// ValidateWithPolicy reports missing required fields first, then a password
// mismatch; otherwise it derives the display name and username.
func ValidateWithPolicy(sub Submission, usernames UsernameGenerator, policy Policy) Outcome {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", sub.FirstName},
		{"lastName", sub.LastName},
		{"email", sub.Email},
		{"password", sub.Password},
		{"confirmPassword", sub.ConfirmPassword},
	}
	var missing []string
	for _, field := range required {
		if isEmpty(field.value, policy) {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return Outcome{Kind: OutcomeMissingFields, Missing: missing}
	}

	if sub.Password != sub.ConfirmPassword {
		return Outcome{Kind: OutcomePasswordMismatch}
	}

	if usernames == nil {
		usernames = GenerateUsername
	}
	return Outcome{
		Kind:        OutcomeValid,
		DisplayName: sub.FirstName + " " + sub.LastName,
		Username:    usernames(sub.FirstName),
	}
}

func isEmpty(value string, policy Policy) bool {
	if policy.BlankIsMissing {
		return strings.TrimSpace(value) == ""
	}
	return value == ""
}
