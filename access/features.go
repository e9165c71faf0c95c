package access

// Feature names a gated area of the lawyer dashboard or API.
type Feature string

const (
	FeatureHome           Feature = "home"
	FeatureQuickActions   Feature = "quick_actions"
	FeatureMessages       Feature = "messages"
	FeatureContacts       Feature = "contacts"
	FeatureCalendar       Feature = "calendar"
	FeaturePaymentRecords Feature = "payment_records"
	FeatureTasks          Feature = "tasks"
	FeatureDocuments      Feature = "documents"
	FeatureReports        Feature = "reports"
	FeatureBlogs          Feature = "blogs"
	FeatureForms          Feature = "forms"
	FeaturePayouts        Feature = "payouts"
	FeaturePaymentLinks   Feature = "payment_links"
	FeatureCases          Feature = "cases"
	FeatureClients        Feature = "clients"
	FeatureQAAnswers      Feature = "qa_answers"
	FeatureAIAnalyzer     Feature = "ai_analyzer"
	FeatureProfile        Feature = "profile"
	FeatureSubscription   Feature = "subscription"
)

// AllFeatures lists every known feature in dashboard order.
func AllFeatures() []Feature {
	return []Feature{
		FeatureHome, FeatureQuickActions, FeatureMessages, FeatureContacts, FeatureCalendar,
		FeaturePaymentRecords, FeatureTasks, FeatureDocuments, FeatureReports, FeatureBlogs,
		FeatureForms, FeaturePayouts, FeaturePaymentLinks, FeatureCases, FeatureClients,
		FeatureQAAnswers, FeatureAIAnalyzer, FeatureProfile, FeatureSubscription,
	}
}

// Known reports whether f is in AllFeatures.
func Known(f Feature) bool {
	for _, known := range AllFeatures() {
		if known == f {
			return true
		}
	}
	return false
}

// Features a lawyer keeps without any subscription.
var baseFeatures = map[Feature]struct{}{
	FeatureHome:         {},
	FeatureProfile:      {},
	FeatureSubscription: {},
}

// Features that additionally need a verified lawyer account.
var verifiedFeatures = map[Feature]struct{}{
	FeatureForms:        {},
	FeaturePayouts:      {},
	FeaturePaymentLinks: {},
	FeatureQAAnswers:    {},
	FeatureBlogs:        {},
}
