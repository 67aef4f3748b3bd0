package enum_test

import (
	"testing"

	"github.com/ourlog/ourlog/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestReportReasonIsValid(t *testing.T) {
	t.Parallel()

	for _, reason := range enum.ReportReasonValues() {
		assert.True(t, reason.IsValid(), "reason %q", reason)
	}

	assert.False(t, enum.ReportReason("RUDE").IsValid())
	assert.False(t, enum.ReportReason("spam").IsValid())
	assert.False(t, enum.ReportReason("").IsValid())
}

func TestBanKindIsValid(t *testing.T) {
	t.Parallel()

	valid := []enum.BanKind{
		enum.BanKindTemporary,
		enum.BanKindPermanent,
		enum.BanKindReportAccumulation,
		enum.BanKindAdminDecision,
	}
	for _, kind := range valid {
		assert.True(t, kind.IsValid(), "kind %q", kind)
	}

	assert.False(t, enum.BanKind("SHADOW").IsValid())
	assert.False(t, enum.BanKind("").IsValid())
}
