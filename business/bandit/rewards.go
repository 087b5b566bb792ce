package bandit

import (
	"myMealPlanner/domain"
)

// resolveSuccess turns a feedback event into the binary outcome the Beta
// posterior learns from. An explicit rating outranks repeat intent,
// which outranks the raw accepted flag: a user can accept a suggestion
// and still pan the result.
func resolveSuccess(accepted bool, meta *domain.FeedbackMetadata) bool {
	if meta != nil {
		if meta.Rating != nil {
			return *meta.Rating >= 4
		}
		if meta.WouldRepeat != nil {
			return *meta.WouldRepeat
		}
	}
	return accepted
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
