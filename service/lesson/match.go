package lesson

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{Han}]+|[a-z0-9]+`)

// matching thresholds; an exact substring relation bypasses the overlap test
const (
	minTokenOverlap = 4
	minOverlapRatio = 0.4
)

var actionTags = map[string]string{
	"read": "read", "open": "read", "view": "read", "list": "read",
	"create": "create", "write": "create", "add": "create",
	"run": "run", "execute": "run",
	"delete": "delete", "remove": "delete",
}

func tokenize(text string) map[string]bool {
	tokens := map[string]bool{}
	for _, token := range tokenPattern.FindAllString(strings.ToLower(strings.TrimSpace(text)), -1) {
		tokens[token] = true
	}
	return tokens
}

func actions(tokens map[string]bool) map[string]bool {
	tags := map[string]bool{}
	for token := range tokens {
		if tag, ok := actionTags[token]; ok {
			tags[tag] = true
		}
	}
	return tags
}

func intersects(a, b map[string]bool) bool {
	for key := range a {
		if b[key] {
			return true
		}
	}
	return false
}

func overlap(a, b map[string]bool) int {
	count := 0
	for key := range a {
		if b[key] {
			count++
		}
	}
	return count
}

// MatchPlan scans records newest first and returns the first plan whose
// intent is similar to the supplied one. Similarity requires a compatible
// action verb (reading never reuses a creation plan) and either a substring
// relation between the intents or enough keyword overlap.
func MatchPlan(intent string, records []*PlanRecord) *PlanRecord {
	intent = strings.TrimSpace(intent)
	if intent == "" {
		return nil
	}
	current := tokenize(intent)
	if len(current) == 0 {
		return nil
	}
	currentActions := actions(current)

	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		if record == nil || len(record.Plan) == 0 {
			continue
		}
		stored := strings.TrimSpace(record.Intent)
		storedTokens := tokenize(stored)
		storedActions := actions(storedTokens)
		if len(currentActions) > 0 && len(storedActions) > 0 && !intersects(currentActions, storedActions) {
			continue
		}
		shared := overlap(current, storedTokens)
		if shared < minTokenOverlap {
			if !strings.Contains(intent, stored) && !strings.Contains(stored, intent) {
				continue
			}
		} else {
			smaller := len(current)
			if len(storedTokens) < smaller {
				smaller = len(storedTokens)
			}
			if float64(shared)/float64(smaller) < minOverlapRatio {
				continue
			}
		}
		return record
	}
	return nil
}
