package ocr

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Candidate is one line of OCR text that looks like a measurement entry.
// Parsing is deliberately loose; the validator decides acceptance.
type Candidate struct {
	Line        string  `json:"line"`
	Name        string  `json:"name"`
	MetricLabel string  `json:"metric_label"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
}

// Trailing numeric value with an optional unit. OCR output often swaps
// the decimal point for a comma.
var valueRe = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)\s*(s|sec|secs|in|inches|")?\s*$`)

// Metric labels as they appear on printed sheets, longest first so
// "VERTICAL JUMP" wins over "VERTICAL".
var knownLabels = func() []string {
	labels := []string{
		"FLY10_TIME", "FLY 10", "FLY10", "10YD FLY",
		"VERTICAL JUMP", "VERTICAL", "VERT", "VJ",
		"AGILITY_505", "AGILITY", "5-0-5", "505",
		"RSI",
		"T_TEST", "T-TEST", "T TEST", "TTEST",
	}
	sort.Slice(labels, func(i, j int) bool { return len(labels[i]) > len(labels[j]) })
	return labels
}()

var separatorTrim = " \t:|,-—"

// ParseText scans OCR output line by line and extracts measurement
// candidates. Lines without a trailing number or a recognizable metric
// label are skipped silently — headers, dates, and noise are expected.
func ParseText(text string) []Candidate {
	var out []Candidate

	for _, line := range strings.Split(text, "\n") {
		if c, ok := parseLine(line); ok {
			out = append(out, c)
		}
	}
	return out
}

func parseLine(line string) (Candidate, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Candidate{}, false
	}

	m := valueRe.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return Candidate{}, false
	}

	rawValue := trimmed[m[2]:m[3]]
	unit := ""
	if m[4] >= 0 {
		unit = trimmed[m[4]:m[5]]
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(rawValue, ",", "."), 64)
	if err != nil {
		return Candidate{}, false
	}

	rest := strings.TrimRight(trimmed[:m[0]], separatorTrim)

	label, name := splitLabel(rest)
	if label == "" {
		return Candidate{}, false
	}

	return Candidate{
		Line:        trimmed,
		Name:        normalizeName(name),
		MetricLabel: label,
		Value:       value,
		Unit:        unit,
	}, true
}

// splitLabel peels a known metric label off the end of the line remainder;
// whatever precedes it is the athlete name.
func splitLabel(rest string) (label, name string) {
	upper := strings.ToUpper(rest)
	for _, l := range knownLabels {
		if !strings.HasSuffix(upper, l) {
			continue
		}
		cut := len(rest) - len(l)
		// Label must not be glued to the preceding word.
		if cut > 0 {
			r, _ := utf8.DecodeLastRuneInString(upper[:cut])
			if !strings.ContainsRune(separatorTrim, r) {
				continue
			}
		}
		return rest[cut:], strings.TrimRight(rest[:cut], separatorTrim)
	}
	return "", ""
}

// normalizeName turns "Martinez, Mia" into "Mia Martinez" and collapses
// runs of whitespace.
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, ","); i >= 0 {
		name = strings.TrimSpace(name[i+1:]) + " " + strings.TrimSpace(name[:i])
	}
	return strings.Join(strings.Fields(name), " ")
}
