package classifier

import "strings"

// connectiveWords and actionWords ground the abstract "closed list of
// connective words" / "action words" from §4.5's regex degrade path in the
// original classifier's concrete lists.
//
//nolint:gochecknoglobals // static lookup tables
var (
	connectiveWords = []string{"然后", "再", "接着", "之后", "完成后", "并且", "同时", "顺便", "截图", "保存"}
	actionWords      = []string{"发消息", "发朋友圈", "搜索", "加好友", "打开", "点击", "截图"}
)

// regexDegrade flags an utterance complex when any connective word appears
// or at least two distinct action words appear; otherwise simple. This is
// the down-degrade path used when the model path errors, per §4.5.
func regexDegrade(utterance string) bool {
	for _, w := range connectiveWords {
		if strings.Contains(utterance, w) {
			return true
		}
	}

	hits := 0
	for _, w := range actionWords {
		if strings.Contains(utterance, w) {
			hits++
		}
	}
	return hits >= 2
}
