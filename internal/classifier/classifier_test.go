package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
)

type fakeRunner struct {
	text string
	err  error
}

func (f *fakeRunner) Run(_ context.Context, _ *ai.Request) (*ai.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Result{Text: f.text}, nil
}

func TestFastPath_SendMsg(t *testing.T) {
	parsed, ok := tryFastPath(normalize("ss:msg:张三:你好"))
	require.True(t, ok)
	assert.Equal(t, constants.TaskTypeSendMsg, parsed.Type)
	assert.Equal(t, "张三", parsed.Recipient)
	assert.Equal(t, "你好", parsed.Content)
}

func TestFastPath_SendMsg_ContentWithColons(t *testing.T) {
	parsed, ok := tryFastPath(normalize("ss:msg:张三:你好:世界"))
	require.True(t, ok)
	assert.Equal(t, "你好:世界", parsed.Content)
}

func TestFastPath_Moments(t *testing.T) {
	parsed, ok := tryFastPath(normalize("ss:pyq:今天天气真好"))
	require.True(t, ok)
	assert.Equal(t, constants.TaskTypePostMoment, parsed.Type)
	assert.Equal(t, "", parsed.Recipient)
	assert.Equal(t, "今天天气真好", parsed.Content)
}

func TestFastPath_FullWidthColonFolded(t *testing.T) {
	parsed, ok := tryFastPath(normalize("ss：msg：张三：你好"))
	require.True(t, ok)
	assert.Equal(t, constants.TaskTypeSendMsg, parsed.Type)
}

func TestFastPath_TooFewFieldsFails(t *testing.T) {
	_, ok := tryFastPath(normalize("ss:李四"))
	assert.False(t, ok)
}

func TestFastPath_OnlyPrefixNoColonIsNotFastForm(t *testing.T) {
	_, ok := tryFastPath(normalize("ss"))
	assert.False(t, ok)
}

func TestFastPath_UnknownTypeFieldFails(t *testing.T) {
	_, ok := tryFastPath(normalize("ss:unknown:a:b"))
	assert.False(t, ok)
}

func TestIsTrivialInput(t *testing.T) {
	assert.True(t, isTrivialInput(""))
	assert.True(t, isTrivialInput("."))
	assert.True(t, isTrivialInput("!!"))
	assert.False(t, isTrivialInput("aaa"))
}

func TestRegexDegrade_ConnectiveWordFlagsComplex(t *testing.T) {
	assert.True(t, regexDegrade("发消息给张三然后截图"))
}

func TestRegexDegrade_TwoActionWordsFlagsComplex(t *testing.T) {
	assert.True(t, regexDegrade("打开微信点击搜索"))
}

func TestRegexDegrade_SingleActionWordIsSimple(t *testing.T) {
	assert.False(t, regexDegrade("打开微信"))
}

func TestClassifier_Classify_BlankInputIsInvalid(t *testing.T) {
	c := New(&config.ClassifierConfig{Mode: constants.ClassifierModeLLM}, &fakeRunner{}, nil, zerolog.Nop())
	parsed, class := c.Classify(context.Background(), "   ")
	assert.Equal(t, constants.TaskTypeInvalid, parsed.Type)
	assert.Equal(t, domain.ClassInvalid, class)
}

func TestClassifier_Classify_FastPathBypassesModel(t *testing.T) {
	c := New(&config.ClassifierConfig{Mode: constants.ClassifierModeLLM}, &fakeRunner{err: errors.New("should not be called")}, nil, zerolog.Nop())
	parsed, class := c.Classify(context.Background(), "ss:msg:张三:你好")
	assert.Equal(t, constants.TaskTypeSendMsg, parsed.Type)
	assert.Equal(t, domain.ClassSimple, class)
}

func TestClassifier_Classify_ModelPathParsesJSONWrappedInProse(t *testing.T) {
	runner := &fakeRunner{text: "here you go: {\"type\":\"send_msg\",\"recipient\":\"张三\",\"content\":\"你好\"}"}
	c := New(&config.ClassifierConfig{Mode: constants.ClassifierModeLLM}, runner, nil, zerolog.Nop())
	parsed, class := c.Classify(context.Background(), "跟张三说你好")
	assert.Equal(t, constants.TaskTypeSendMsg, parsed.Type)
	assert.Equal(t, domain.ClassSimple, class)
}

func TestClassifier_Classify_ModelErrorDegradesToRegex(t *testing.T) {
	runner := &fakeRunner{err: errors.New("timeout")}
	c := New(&config.ClassifierConfig{Mode: constants.ClassifierModeLLM}, runner, nil, zerolog.Nop())
	parsed, class := c.Classify(context.Background(), "打开微信点击搜索")
	assert.Equal(t, constants.TaskTypeOthers, parsed.Type)
	assert.Equal(t, domain.ClassComplex, class)
}

func TestClassifier_Classify_RegexModeNeverCallsModel(t *testing.T) {
	c := New(&config.ClassifierConfig{Mode: constants.ClassifierModeRegex}, &fakeRunner{err: errors.New("should not be called")}, nil, zerolog.Nop())
	parsed, class := c.Classify(context.Background(), "打开微信")
	assert.Equal(t, "", parsed.Type)
	assert.Equal(t, domain.ClassSimple, class)
}

func TestClassifier_Classify_UsesSecondaryWhenConfigured(t *testing.T) {
	primary := &fakeRunner{err: errors.New("primary should not be called")}
	secondary := &fakeRunner{text: "{\"type\":\"others\"}"}
	c := New(&config.ClassifierConfig{Mode: constants.ClassifierModeLLM}, primary, secondary, zerolog.Nop())
	parsed, class := c.Classify(context.Background(), "随便聊聊")
	assert.Equal(t, constants.TaskTypeOthers, parsed.Type)
	assert.Equal(t, domain.ClassComplex, class)
}
