package template

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChiHao144/CloudStorageApp/api"
)

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		size int64
		out  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{1 << 30, "1.0 GiB"},
		{5 << 40, "5.0 TiB"},
	}

	for _, test := range tests {
		require.Equal(t, test.out, HumanBytes(test.size), "size %d", test.size)
	}
}

func TestReadTemplatesEmbedded(t *testing.T) {
	tpls := ReadTemplates("")

	for _, name := range []string{"index", "login", "register", "upload", "profile", "payment"} {
		require.NotNil(t, tpls.Lookup(name), "template %q", name)
	}
}

func TestTierFunc(t *testing.T) {
	fn := tplFuncs["Tier"].(func(*api.Quota) string)

	require.Equal(t, "", fn(nil))
	require.Equal(t, "Free", fn(&api.Quota{Total: "1073741824"}))
	require.Equal(t, "Pro", fn(&api.Quota{Total: "10737418240"}))
}
