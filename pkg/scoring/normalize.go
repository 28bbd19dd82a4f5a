package scoring

import "strings"

// categoryAliases maps the category spellings seen in extracted reports to
// canonical TSC category codes. Auditors are not consistent: some reports use
// bare codes, some use the full criteria names, some use the trust service
// name itself.
var categoryAliases = map[string]string{
	"cc1": "CC1", "cc2": "CC2", "cc3": "CC3", "cc4": "CC4", "cc5": "CC5",
	"cc6": "CC6", "cc7": "CC7", "cc8": "CC8", "cc9": "CC9",
	"a": "A", "pi": "PI", "c": "C", "p": "P",

	"control environment":                "CC1",
	"communication and information":      "CC2",
	"risk assessment":                    "CC3",
	"monitoring activities":              "CC4",
	"monitoring of controls":             "CC4",
	"control activities":                 "CC5",
	"logical and physical access":        "CC6",
	"logical and physical access controls": "CC6",
	"system operations":                  "CC7",
	"change management":                  "CC8",
	"risk mitigation":                    "CC9",

	"availability":         "A",
	"processing integrity": "PI",
	"confidentiality":      "C",
	"privacy":              "P",
}

// NormalizeCategory resolves a raw TSC category string to its canonical code.
// Sub-criteria identifiers such as "CC6.1" or "A1.2" collapse to their parent
// category. Unknown categories return the empty string.
func NormalizeCategory(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if canonical, ok := categoryAliases[s]; ok {
		return canonical
	}

	// "CC6.1" -> "cc6", "A1.2" -> "a1"
	if i := strings.IndexAny(s, ".-"); i > 0 {
		s = s[:i]
	}
	if canonical, ok := categoryAliases[s]; ok {
		return canonical
	}

	// Numeric suffixes only strip for the single-letter trust services
	// categories (A1, C1, PI1, P2); common criteria keep their digit.
	trimmed := strings.TrimRight(s, "0123456789")
	switch trimmed {
	case "a", "c", "p", "pi":
		return categoryAliases[trimmed]
	}

	return ""
}

// bucketByCategory groups controls by canonical category, dropping any the
// dictionary cannot resolve.
func bucketByCategory(controls []Control) map[string][]Control {
	buckets := make(map[string][]Control)
	for _, control := range controls {
		category := NormalizeCategory(control.TSCCategory)
		if category == "" {
			continue
		}
		buckets[category] = append(buckets[category], control)
	}
	return buckets
}
