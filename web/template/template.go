package template

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/payment"
)

//go:embed *.tpl
var embeddedTemplates embed.FS

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB"}

// HumanBytes renders a byte count the way the listing shows sizes.
func HumanBytes(size int64) string {
	value := float64(size)

	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d %s", size, byteUnits[0])
	}

	return fmt.Sprintf("%.1f %s", value, byteUnits[unit])
}

var tplFuncs = map[string]interface{}{
	"HumanBytes": HumanBytes,
	"EntrySize": func(entry api.FileEntry) string {
		if entry.IsDir() {
			return ""
		}

		return HumanBytes(entry.SizeBytes())
	},
	"QuotaPercent": func(quota *api.Quota) string {
		if quota == nil {
			return "0"
		}

		return fmt.Sprintf("%.1f", quota.UsedPercent())
	},
	"Tier": func(quota *api.Quota) string {
		if quota == nil {
			return ""
		}

		return payment.TierFor(quota.TotalBytes())
	},
}

func ReadTemplates(templatesPath string) *template.Template {
	tpl := template.New("base").Funcs(tplFuncs)

	tplsFS := os.DirFS(templatesPath)
	if templatesPath == "" {
		tplsFS = embeddedTemplates
	}

	const tplSuffix = ".tpl"
	if err := fs.WalkDir(tplsFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			panic(err)
		}

		if filepath.Ext(path) != tplSuffix {
			return nil
		}

		newTpl := tpl.New(strings.TrimSuffix(path, tplSuffix))

		tplData, _ := fs.ReadFile(tplsFS, path)

		if _, err := newTpl.Parse(string(tplData)); err != nil {
			panic(err)
		}

		return nil
	}); err != nil {
		panic(err)
	}

	return tpl
}
