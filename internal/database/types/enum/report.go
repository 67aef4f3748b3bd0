package enum

// ReportReason classifies why a user was reported. Values are stored as
// their string tags so the database representation stays stable.
type ReportReason string

const (
	ReportReasonSpam          ReportReason = "SPAM"
	ReportReasonInappropriate ReportReason = "INAPPROPRIATE"
	ReportReasonHarassment    ReportReason = "HARASSMENT"
	ReportReasonHateSpeech    ReportReason = "HATE_SPEECH"
	ReportReasonOther         ReportReason = "OTHER"
)

// ReportReasonValues returns all report reasons in declaration order.
func ReportReasonValues() []ReportReason {
	return []ReportReason{
		ReportReasonSpam,
		ReportReasonInappropriate,
		ReportReasonHarassment,
		ReportReasonHateSpeech,
		ReportReasonOther,
	}
}

// IsValid checks if the reason is one of the known tags.
func (r ReportReason) IsValid() bool {
	switch r {
	case ReportReasonSpam, ReportReasonInappropriate, ReportReasonHarassment,
		ReportReasonHateSpeech, ReportReasonOther:
		return true
	default:
		return false
	}
}
