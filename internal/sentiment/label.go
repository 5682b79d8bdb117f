package sentiment

import "github.com/spacesedan/tweetsense/internal/models"

// LabelFor maps the sign of polarity to a label. Zero is compared exactly.
func LabelFor(polarity float64) models.Label {
	switch {
	case polarity > 0:
		return models.LabelPositive
	case polarity < 0:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}
