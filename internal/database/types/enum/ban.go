package enum

// BanKind describes what kind of ban was issued. Values are stored as
// their string tags.
type BanKind string

const (
	// BanKindTemporary is a ban with a natural expiry.
	BanKindTemporary BanKind = "TEMPORARY"
	// BanKindPermanent is a ban with no natural expiry.
	BanKindPermanent BanKind = "PERMANENT"
	// BanKindReportAccumulation marks a ban triggered by the report threshold.
	BanKindReportAccumulation BanKind = "REPORT_ACCUMULATION"
	// BanKindAdminDecision marks a ban issued manually by an administrator.
	BanKindAdminDecision BanKind = "ADMIN_DECISION"
)

// IsValid checks if the kind is one of the known tags.
func (k BanKind) IsValid() bool {
	switch k {
	case BanKindTemporary, BanKindPermanent, BanKindReportAccumulation, BanKindAdminDecision:
		return true
	default:
		return false
	}
}
