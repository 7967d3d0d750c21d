package domain

import (
	"regexp"
	"strconv"
	"strings"
)

const thresholdPlaceholder = "%d"

type conditionPattern struct {
	kind     ConditionKind
	template string

	// nil for exact-match templates without a placeholder
	matcher *regexp.Regexp
}

func newConditionPattern(kind ConditionKind, template string) conditionPattern {
	template = normalizeDescription(template)
	if !strings.Contains(template, thresholdPlaceholder) {
		return conditionPattern{kind: kind, template: template}
	}

	literals := strings.SplitN(template, thresholdPlaceholder, 2)
	expr := regexp.QuoteMeta(literals[0]) + `(\d+)` + regexp.QuoteMeta(literals[1])
	return conditionPattern{
		kind:     kind,
		template: template,
		matcher:  regexp.MustCompile(expr),
	}
}

func (p conditionPattern) match(description string) (ParsedCondition, bool) {
	if p.matcher == nil {
		if description != p.template {
			return ParsedCondition{}, false
		}
		return ParsedCondition{Kind: p.kind}, true
	}

	submatch := p.matcher.FindStringSubmatch(description)
	if submatch == nil {
		return ParsedCondition{}, false
	}

	value, err := strconv.Atoi(submatch[1])
	if err != nil {
		// Out of range for int
		return ParsedCondition{}, false
	}

	return NewCondition(p.kind, value), true
}

// The first pattern that matches decides the kind. Patterns are searched for as substrings,
// so the order matters when more than one could match.
var conditionPatterns = []conditionPattern{
	newConditionPattern(ConditionTotalLevels, "complete %d levels"),
	newConditionPattern(ConditionTotalEnemies, "kill %d enemies in total"),
	newConditionPattern(ConditionTotalPuzzles, "solve %d puzzles in total"),
	newConditionPattern(ConditionTotalTime, "play for %d minutes in total"),
	newConditionPattern(ConditionLevelEnemies, "kill %d enemies in one level"),
	newConditionPattern(ConditionLevelPuzzles, "solve %d puzzles in one level"),
	newConditionPattern(ConditionLevelTime, "complete a level in %d seconds"),
	newConditionPattern(ConditionSpecificLevel, "complete level %d"),
	newConditionPattern(ConditionDefeatBoss, "defeat boss"),
	newConditionPattern(ConditionTotalStars, "collect %d stars in total"),
	newConditionPattern(ConditionLevelStars, "get %d stars in one level"),
}

func normalizeDescription(description string) string {
	return strings.TrimSpace(strings.ToLower(description))
}

// ParseCondition maps a free-text achievement description to its unlock rule.
// Returns false if the description matches none of the known patterns.
func ParseCondition(description string) (ParsedCondition, bool) {
	normalized := normalizeDescription(description)
	if normalized == "" {
		return ParsedCondition{}, false
	}

	for _, pattern := range conditionPatterns {
		if condition, ok := pattern.match(normalized); ok {
			return condition, true
		}
	}

	return ParsedCondition{}, false
}

// ConditionTemplate returns the description template recognized for the given kind
func ConditionTemplate(kind ConditionKind) (string, bool) {
	for _, pattern := range conditionPatterns {
		if pattern.kind == kind {
			return pattern.template, true
		}
	}
	return "", false
}
