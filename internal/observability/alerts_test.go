package observability

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type ruleFile struct {
	Groups []struct {
		Name  string `yaml:"name"`
		Rules []struct {
			Alert       string            `yaml:"alert"`
			Expr        string            `yaml:"expr"`
			For         string            `yaml:"for"`
			Labels      map[string]string `yaml:"labels"`
			Annotations map[string]string `yaml:"annotations"`
		} `yaml:"rules"`
	} `yaml:"groups"`
}

var metricName = regexp.MustCompile(`pharmacy_[a-z_]+`)

func TestAlertRulesReferenceExportedMetrics(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "deploy", "prometheus", "alerts", "pharmacy.yml"))
	require.NoError(t, err)

	var file ruleFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.Len(t, file.Groups, 1)
	require.Equal(t, "pharmacy", file.Groups[0].Name)

	runbook, err := os.ReadFile(filepath.Join("..", "..", "docs", "runbook-ops.md"))
	require.NoError(t, err)

	want := map[string]string{
		"HighErrorRate":  "critical",
		"BackendDown":    "critical",
		"ExportFailures": "warning",
	}
	known := map[string]bool{
		"pharmacy_http_requests_total":  true,
		"pharmacy_backend_up":           true,
		"pharmacy_report_exports_total": true,
	}

	rules := file.Groups[0].Rules
	require.Len(t, rules, len(want))
	for _, rule := range rules {
		severity, ok := want[rule.Alert]
		require.True(t, ok, "unexpected rule %s", rule.Alert)
		assert.Equal(t, severity, rule.Labels["severity"], rule.Alert)
		assert.NotEmpty(t, rule.For, rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], rule.Alert)

		for _, name := range metricName.FindAllString(rule.Expr, -1) {
			assert.True(t, known[name], "%s uses unknown metric %s", rule.Alert, name)
		}

		anchor := regexp.MustCompile(`#([a-z-]+)$`).FindStringSubmatch(rule.Annotations["runbook"])
		require.Len(t, anchor, 2, rule.Alert)
		assert.Regexp(t, `(?mi)^#+ .*`+anchorWords(anchor[1]), string(runbook), rule.Alert)
	}
}

// anchorWords turns a markdown anchor such as high-error-rate back into a
// heading pattern.
func anchorWords(anchor string) string {
	return regexp.MustCompile(`-`).ReplaceAllString(anchor, `[ -]`)
}
