package payment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		totalBytes int64
		tier       string
	}{
		{0, "Free"},
		{1 * gib, "Free"},
		{1*gib + 1, "Basic"},
		{5 * gib, "Basic"},
		{5*gib + 1, "Pro"},
		{10 * gib, "Pro"},
		{10*gib + 1, "VIP"},
		{50 * gib, "VIP"},
	}

	for _, test := range tests {
		require.Equal(t, test.tier, TierFor(test.totalBytes), "total %d", test.totalBytes)
	}
}

func TestPlanByName(t *testing.T) {
	plan, ok := PlanByName("pro")
	require.True(t, ok)
	require.Equal(t, int64(10*gib), plan.TotalBytes)

	_, ok = PlanByName("platinum")
	require.False(t, ok)
}

func TestMoMoOrderInfoRoundTrip(t *testing.T) {
	info := MoMoOrderInfo("vip", "alice")
	require.Equal(t, "Nang cap goi vip cho nguoi dung alice", info)

	plan, user, err := ParseMoMoOrderInfo(info)
	require.NoError(t, err)
	require.Equal(t, "vip", plan)
	require.Equal(t, "alice", user)
}

func TestParseMoMoOrderInfoMalformed(t *testing.T) {
	for _, info := range []string{"", "Nang cap", "Nang cap goi", "nguoi dung"} {
		_, _, err := ParseMoMoOrderInfo(info)
		require.Error(t, err, "info %q", info)
	}
}

func TestNewAppTransID(t *testing.T) {
	now := time.Date(2023, time.April, 7, 12, 0, 0, 0, time.UTC)

	id := NewAppTransID(now)
	require.True(t, strings.HasPrefix(id, "230407_"), id)
	require.Greater(t, len(id), len("230407_"))
}
