package valueobject

import "fmt"

// Verdict is an immutable value object for the classifier outcome.
type Verdict struct {
	value string
}

var (
	VerdictLegit      = Verdict{value: "LEGIT"}
	VerdictFraudulent = Verdict{value: "FRAUDULENT"}
)

// VerdictFromLabel converts a binary classifier label (1 = fraud) to a Verdict.
func VerdictFromLabel(label int) (Verdict, error) {
	switch label {
	case 0:
		return VerdictLegit, nil
	case 1:
		return VerdictFraudulent, nil
	default:
		return Verdict{}, fmt.Errorf("invalid classifier label: %d", label)
	}
}

// VerdictFromString reconstructs a Verdict from its string representation.
func VerdictFromString(s string) (Verdict, error) {
	switch s {
	case "LEGIT":
		return VerdictLegit, nil
	case "FRAUDULENT":
		return VerdictFraudulent, nil
	default:
		return Verdict{}, fmt.Errorf("invalid verdict: %s", s)
	}
}

// String returns the string representation.
func (v Verdict) String() string {
	return v.value
}

// Label returns the binary classifier label for this verdict.
func (v Verdict) Label() int {
	if v.IsFraudulent() {
		return 1
	}
	return 0
}

// DisplayName returns the human facing verdict text.
func (v Verdict) DisplayName() string {
	switch v.value {
	case "LEGIT":
		return "Legit"
	case "FRAUDULENT":
		return "Fraudulent"
	default:
		return ""
	}
}

// IsFraudulent returns true if the verdict is FRAUDULENT.
func (v Verdict) IsFraudulent() bool {
	return v.value == "FRAUDULENT"
}

// IsZero returns true if the verdict has not been set.
func (v Verdict) IsZero() bool {
	return v.value == ""
}

// Equal checks equality with another Verdict.
func (v Verdict) Equal(other Verdict) bool {
	return v.value == other.value
}
