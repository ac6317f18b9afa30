package wechat

import (
	"regexp"
	"strings"
)

// simplePatternRule is one entry of the regex pattern table used to match a
// simple, unparsed task directly to a workflow when the classifier returns
// no actionable type and the task is not complex (§4.9 step 2, "fall back
// to regex pattern matching from a per-handler pattern table").
type simplePatternRule struct {
	patterns    []*regexp.Regexp
	contains    []string
	notContains []string
	workflow    string
	paramNames  []string
}

//nolint:gochecknoglobals // static pattern table, compiled once at package init
var simplePatterns = []simplePatternRule{
	{
		patterns:    compileAll(`发消息`, `发微信`, `发信息`, `微信消息`, `发个微信`, `发条微信`, `说.*给`),
		contains:    []string{"给"},
		notContains: []string{"然后", "再", "接着", "朋友圈", "截图"},
		workflow:    "send_message",
		paramNames:  []string{"contact", "message"},
	},
	{
		patterns:    compileAll(`发朋友圈`),
		notContains: []string{"看", "刷", "给", "发消息", "然后", "再", "接着"},
		workflow:    "post_moments",
		paramNames:  []string{"content"},
	},
	{
		patterns:    compileAll(`搜索`, `找人`, `找联系人`),
		notContains: []string{"然后", "再", "接着"},
		workflow:    "search_contact",
		paramNames:  []string{"keyword"},
	},
	{
		patterns:    compileAll(`加好友`, `添加好友`, `加微信`),
		notContains: []string{"然后", "再", "接着"},
		workflow:    "add_friend_by_name",
		paramNames:  []string{"wechat_id"},
	},
}

func compileAll(raws ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(raws))
	for _, raw := range raws {
		out = append(out, regexp.MustCompile(raw))
	}
	return out
}

// patternMatch is the result of a successful simplePatterns lookup.
type patternMatch struct {
	workflowName string
	params       map[string]string
}

// matchSimplePattern scores task against every rule in order and returns
// the first match with its extracted params.
func matchSimplePattern(task string) (patternMatch, bool) {
	for _, rule := range simplePatterns {
		if !anyMatches(rule.patterns, task) {
			continue
		}
		if !allContained(rule.contains, task) {
			continue
		}
		if anyContained(rule.notContains, task) {
			continue
		}
		return patternMatch{workflowName: rule.workflow, params: extractParams(task, rule.paramNames)}, true
	}
	return patternMatch{}, false
}

func anyMatches(patterns []*regexp.Regexp, task string) bool {
	for _, p := range patterns {
		if p.MatchString(task) {
			return true
		}
	}
	return false
}

func allContained(needles []string, task string) bool {
	for _, n := range needles {
		if !strings.Contains(task, n) {
			return false
		}
	}
	return true
}

func anyContained(needles []string, task string) bool {
	for _, n := range needles {
		if strings.Contains(task, n) {
			return true
		}
	}
	return false
}

// Extraction patterns grounded on parse_task_params: contact name after
// "给", message after a colon/quote/"说", moments content after a second
// quoted span or "发朋友圈", search keyword after "搜索", wechat id after
// "加"/"添加".
//
//nolint:gochecknoglobals // static extraction patterns
var (
	contactPattern  = regexp.MustCompile(`给\s*([^\s:：，。\d]+?)(?:[：:]|发|说|$)`)
	colonMsgPattern = regexp.MustCompile(`[:：]\s*(.+)`)
	quotedPattern   = regexp.MustCompile(`["“”「」'](.*?)["“”「」']`)
	saidPattern     = regexp.MustCompile(`说\s*([^，。]+?)(?:$|，|。|然后|截图|发朋友圈)`)
	momentsPattern  = regexp.MustCompile(`发朋友圈\s*(.+)`)
	searchPattern   = regexp.MustCompile(`搜索\s*(.+)`)
	wechatIDPattern = regexp.MustCompile(`(?:加|添加)[^\d]*(\d+|[a-zA-Z][\w-]+)`)
)

func extractParams(task string, wanted []string) map[string]string {
	params := map[string]string{}
	want := func(name string) bool {
		for _, n := range wanted {
			if n == name {
				return true
			}
		}
		return false
	}

	if want("contact") {
		if m := contactPattern.FindStringSubmatch(task); m != nil {
			params["contact"] = m[1]
		}
	}

	if want("message") {
		if m := colonMsgPattern.FindStringSubmatch(task); m != nil {
			params["message"] = strings.TrimSpace(m[1])
		} else if m := quotedPattern.FindStringSubmatch(task); m != nil {
			params["message"] = m[1]
		} else if m := saidPattern.FindStringSubmatch(task); m != nil {
			params["message"] = strings.TrimSpace(m[1])
		}
	}

	if want("content") {
		if m := momentsPattern.FindStringSubmatch(task); m != nil {
			params["content"] = strings.TrimSpace(m[1])
		} else if quotes := quotedPattern.FindAllStringSubmatch(task, -1); len(quotes) >= 2 {
			params["content"] = quotes[1][1]
		} else if len(quotes) == 1 && params["message"] == "" {
			params["content"] = quotes[0][1]
		}
	}

	if want("keyword") {
		if m := searchPattern.FindStringSubmatch(task); m != nil {
			params["keyword"] = strings.TrimSpace(m[1])
		}
	}

	if want("wechat_id") {
		if m := wechatIDPattern.FindStringSubmatch(task); m != nil {
			params["wechat_id"] = m[1]
		}
	}

	return params
}
