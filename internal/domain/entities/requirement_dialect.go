package entities

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// RequirementDialect describes how one ecosystem spells version requirements.
// The set is closed: DepDialect, GoModulesDialect, TerraformDialect and NugetDialect.
type RequirementDialect struct {
	Name string
	// BareOperator is the operator implied by a version written without one.
	BareOperator string
	// CompatibleOperator anchors a "compatible with" range, empty writes a bare version.
	CompatibleOperator string
	// Intervals enables bracket notation ("[1.0,2.0)").
	Intervals bool
	// PinsOnly ecosystems declare the selected version itself, never a range.
	PinsOnly      bool
	VersionPrefix string
	// KeepsGitSource ecosystems cannot move a Git declaration to the registry: a
	// superseded branch pin moves to the release tag instead.
	KeepsGitSource bool
}

//nolint:gochecknoglobals // closed set of dialects
var (
	DepDialect       = RequirementDialect{Name: "dep", BareOperator: "^", CompatibleOperator: "^"}
	GoModulesDialect = RequirementDialect{Name: "go_modules", BareOperator: "=", PinsOnly: true, VersionPrefix: "v"}
	NugetDialect     = RequirementDialect{Name: "nuget", BareOperator: ">=", Intervals: true}
	TerraformDialect = RequirementDialect{
		Name: "terraform", BareOperator: "=", CompatibleOperator: "~>", KeepsGitSource: true,
	}
)

var clausePattern = regexp.MustCompile(`^(~>|>=|<=|!=|\^|~|=|>|<)?(\s*)(\S.*)$`)

type clause struct {
	text     string
	operator string
	spacing  string
	version  string
}

func (c clause) isUpper() bool { return c.operator == "<" || c.operator == "<=" }

// isAnchor is a single-version clause that implies both a lower and an upper bound.
func (c clause) isAnchor(dialect RequirementDialect) bool {
	operator := c.operator
	if operator == "" {
		operator = dialect.BareOperator
	}
	switch operator {
	case "^", "~", "~>", "=":
		return true
	default:
		return false
	}
}

func parseClauses(requirement string) []clause {
	var clauses []clause
	for _, part := range strings.Split(requirement, ",") {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		match := clausePattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		clauses = append(clauses, clause{text: text, operator: match[1], spacing: match[2], version: match[3]})
	}
	return clauses
}

func isInterval(requirement string) bool {
	trimmed := strings.TrimSpace(requirement)
	return strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "(")
}

// Constraint translates requirement into a semantic-version constraint.
func (d RequirementDialect) Constraint(requirement string) (*semver.Constraints, error) {
	var translated []string
	if d.Intervals && isInterval(requirement) {
		translated = d.intervalClauses(requirement)
	} else {
		for _, c := range parseClauses(requirement) {
			translated = append(translated, d.translateClause(c)...)
		}
	}
	if len(translated) == 0 {
		return nil, fmt.Errorf("requirement %q has no clauses", requirement)
	}
	constraint, err := semver.NewConstraint(strings.Join(translated, ", "))
	if err != nil {
		return nil, fmt.Errorf("failed to parse requirement %q: %w", requirement, err)
	}
	return constraint, nil
}

func (d RequirementDialect) translateClause(c clause) []string {
	operator := c.operator
	if operator == "" {
		operator = d.BareOperator
	}
	if operator != "~>" {
		return []string{operator + c.version}
	}
	// pessimistic: the last given segment may grow, the one before it is fixed
	parsed, err := semver.NewVersion(c.version)
	if err != nil {
		return []string{"=" + c.version}
	}
	var upper string
	switch strings.Count(strings.SplitN(strings.TrimPrefix(c.version, "v"), "-", 2)[0], ".") {
	case 0, 1:
		upper = fmt.Sprintf("%d.0.0", parsed.Major()+1)
	default:
		upper = fmt.Sprintf("%d.%d.0", parsed.Major(), parsed.Minor()+1)
	}
	return []string{">=" + c.version, "<" + upper}
}

func (d RequirementDialect) intervalClauses(requirement string) []string {
	trimmed := strings.TrimSpace(requirement)
	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	lowerInclusive := strings.HasPrefix(trimmed, "[")
	upperInclusive := strings.HasSuffix(trimmed, "]")
	if !strings.Contains(inner, ",") {
		return []string{"= " + inner}
	}
	bounds := strings.SplitN(inner, ",", 2)
	var result []string
	if lower := strings.TrimSpace(bounds[0]); lower != "" {
		if lowerInclusive {
			result = append(result, ">= "+lower)
		} else {
			result = append(result, "> "+lower)
		}
	}
	if upper := strings.TrimSpace(bounds[1]); upper != "" {
		if upperInclusive {
			result = append(result, "<= "+upper)
		} else {
			result = append(result, "< "+upper)
		}
	}
	return result
}

// Admits reports whether version satisfies requirement. An empty requirement admits everything.
func (d RequirementDialect) Admits(requirement, version string) bool {
	if strings.TrimSpace(requirement) == "" {
		return true
	}
	parsed, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	constraint, err := d.Constraint(requirement)
	if err != nil {
		return false
	}
	return constraint.Check(parsed)
}

// FormatVersion writes a version the way this ecosystem spells it in requirements.
func (d RequirementDialect) FormatVersion(version string) string {
	return d.VersionPrefix + TrimVersionPrefix(version)
}

// Widen moves only the upper bound of requirement so it admits version.
// Lower-bound clauses are kept byte-for-byte.
func (d RequirementDialect) Widen(requirement, version string) string {
	if d.PinsOnly {
		return d.Bump(requirement, version)
	}
	upper := d.nextMajor(version)
	if upper == "" {
		return requirement
	}
	if d.Intervals && isInterval(requirement) {
		return d.widenInterval(requirement, upper)
	}

	clauses := parseClauses(requirement)
	widened := requirement
	replaced := false
	for _, c := range clauses {
		if !c.isUpper() {
			continue
		}
		if !replaced {
			widened = strings.Replace(widened, c.text, "< "+upper, 1)
			replaced = true
			continue
		}
		widened = removeClause(widened, c.text)
	}
	if replaced {
		return widened
	}
	if len(clauses) == 1 && clauses[0].isAnchor(d) {
		return fmt.Sprintf(">= %s, < %s", clauses[0].version, upper)
	}
	return requirement
}

func (d RequirementDialect) widenInterval(requirement, upper string) string {
	trimmed := strings.TrimSpace(requirement)
	inner := trimmed[1 : len(trimmed)-1]
	opening := trimmed[:1]
	if !strings.Contains(inner, ",") {
		return fmt.Sprintf("%s%s,%s)", opening, inner, upper)
	}
	lower := strings.SplitN(inner, ",", 2)[0]
	return fmt.Sprintf("%s%s,%s)", opening, lower, upper)
}

func removeClause(requirement, text string) string {
	for _, candidate := range []string{", " + text, "," + text, text + ", ", text + ","} {
		if strings.Contains(requirement, candidate) {
			return strings.Replace(requirement, candidate, "", 1)
		}
	}
	return strings.Replace(requirement, text, "", 1)
}

func (d RequirementDialect) nextMajor(version string) string {
	parsed, err := semver.NewVersion(version)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d.0.0", parsed.Major()+1)
}

// Unlock opens requirement up to latestAllowable, keeping the lower bound and operator style.
// An empty latestAllowable removes the upper bound altogether.
func (d RequirementDialect) Unlock(requirement, latestAllowable string) string {
	if d.PinsOnly || strings.TrimSpace(requirement) == "" {
		return requirement
	}
	latest := TrimVersionPrefix(latestAllowable)
	if d.Intervals {
		if !isInterval(requirement) {
			return requirement
		}
		trimmed := strings.TrimSpace(requirement)
		inner := trimmed[1 : len(trimmed)-1]
		lower := strings.SplitN(inner, ",", 2)[0]
		if latest == "" {
			return fmt.Sprintf("%s%s,)", trimmed[:1], lower)
		}
		return fmt.Sprintf("%s%s,%s]", trimmed[:1], lower, latest)
	}

	var kept []string
	for _, c := range parseClauses(requirement) {
		switch {
		case c.isUpper():
			continue
		case c.isAnchor(d):
			kept = append(kept, ">= "+c.version)
		default:
			kept = append(kept, c.text)
		}
	}
	if latest != "" {
		kept = append(kept, "<= "+latest)
	}
	return strings.Join(kept, ", ")
}

// Bump pins requirement to version, keeping a single leading operator such as "^" or "~>".
func (d RequirementDialect) Bump(requirement, version string) string {
	formatted := d.FormatVersion(version)
	if d.PinsOnly {
		return formatted
	}
	if d.Intervals && isInterval(requirement) {
		trimmed := strings.TrimSpace(requirement)
		if !strings.Contains(trimmed, ",") {
			return "[" + formatted + "]"
		}
		return formatted
	}
	clauses := parseClauses(requirement)
	if len(clauses) == 1 {
		switch clauses[0].operator {
		case "^", "~", "~>", "=":
			return clauses[0].operator + clauses[0].spacing + formatted
		}
	}
	return formatted
}

// Compatible writes a range accepting anything compatible with version.
func (d RequirementDialect) Compatible(version string) string {
	formatted := d.FormatVersion(version)
	switch d.CompatibleOperator {
	case "":
		return formatted
	case "~>":
		return "~> " + formatted
	default:
		return d.CompatibleOperator + formatted
	}
}

// DialectByName returns one of the known dialects.
func DialectByName(name string) (RequirementDialect, bool) {
	for _, dialect := range []RequirementDialect{DepDialect, GoModulesDialect, TerraformDialect, NugetDialect} {
		if dialect.Name == name {
			return dialect, true
		}
	}
	return RequirementDialect{}, false
}
