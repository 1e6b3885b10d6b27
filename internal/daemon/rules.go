package daemon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openniri/openniri/internal/config"
)

// compiledRule is a window_rules entry with its regexes pre-compiled, so
// rule evaluation on window creation never pays regex-compile cost.
type compiledRule struct {
	matchClass      *regexp.Regexp
	matchTitle      *regexp.Regexp
	matchExecutable string // compared case-insensitively for exact equality, not a regex
	action          config.RuleAction
	width           int
	height          int
}

// compileRules pre-compiles every configured window rule in order;
// evaluation order matters (first match wins), so the result preserves
// config order.
func compileRules(rules []config.WindowRuleConfig) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		cr := compiledRule{
			matchExecutable: strings.ToLower(r.MatchExecutable),
			action:          r.Action,
			width:           r.Width,
			height:          r.Height,
		}
		if r.MatchClass != "" {
			re, err := regexp.Compile(r.MatchClass)
			if err != nil {
				return nil, fmt.Errorf("window_rules[%d].match_class: %w", i, err)
			}
			cr.matchClass = re
		}
		if r.MatchTitle != "" {
			re, err := regexp.Compile(r.MatchTitle)
			if err != nil {
				return nil, fmt.Errorf("window_rules[%d].match_title: %w", i, err)
			}
			cr.matchTitle = re
		}
		out = append(out, cr)
	}
	return out, nil
}

// evaluateRules returns the action (and optional floating size) for a
// newly created window, defaulting to Tile when nothing matches.
func evaluateRules(rules []compiledRule, className, title, executable string) (config.RuleAction, int, int) {
	lowerExe := strings.ToLower(executable)
	for _, r := range rules {
		if r.matchClass != nil && !r.matchClass.MatchString(className) {
			continue
		}
		if r.matchTitle != nil && !r.matchTitle.MatchString(title) {
			continue
		}
		if r.matchExecutable != "" && lowerExe != r.matchExecutable {
			continue
		}
		return r.action, r.width, r.height
	}
	return config.RuleActionTile, 0, 0
}
