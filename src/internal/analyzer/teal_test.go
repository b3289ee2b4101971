package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tealCounterSource = `#pragma version 8
// increment a global counter
byte "counter"
app_global_get
int 1
+
byte "counter"
swap
app_global_put
int 1
return`

func TestTEALIdentify(t *testing.T) {
	a := NewTEALAnalyzer()

	assert.True(t, a.Identify(tealCounterSource))
	assert.True(t, a.Identify("app_local_get"))
	assert.False(t, a.Identify("module examples::token { }"))
}

func TestTEALExtract(t *testing.T) {
	a := NewTEALAnalyzer()
	fact := a.Extract(tealCounterSource)

	assert.Equal(t, "teal", fact.Language)
	assert.Equal(t, 9, fact.OperationCount)
	assert.Len(t, fact.Operations, 9)
	assert.True(t, fact.IsStateful)
	assert.Equal(t, []string{"Uses global state"}, fact.GlobalStateOps)
	assert.Empty(t, fact.LocalStateOps)

	// 第一条指令是第3行的 byte，带参数
	first := fact.Operations[0]
	assert.Equal(t, 3, first.Line)
	assert.Equal(t, "byte", first.Operation)
	assert.Equal(t, []string{`"counter"`}, first.Args)
}

func TestTEALFindSafetyIssues(t *testing.T) {
	a := NewTEALAnalyzer()

	t.Run("clean source", func(t *testing.T) {
		assert.Empty(t, a.FindSafetyIssues(tealCounterSource))
	})

	t.Run("group index without txna", func(t *testing.T) {
		findings := a.FindSafetyIssues("txn GroupIndex\nint 0\n==")
		require.Len(t, findings, 1)
		assert.Equal(t, "transaction_group", findings[0].Category)
		assert.Equal(t, "high", findings[0].Severity)
	})

	t.Run("args without length check", func(t *testing.T) {
		findings := a.FindSafetyIssues("arg 0\nbtoi")
		require.Len(t, findings, 1)
		assert.Equal(t, "input_validation", findings[0].Category)
		assert.Equal(t, "medium", findings[0].Severity)
	})

	t.Run("high instruction count", func(t *testing.T) {
		source := "#pragma version 8\n" + strings.Repeat("int 1\npop\n", 51)
		findings := a.FindSafetyIssues(source)
		require.Len(t, findings, 1)
		assert.Equal(t, "stack_depth", findings[0].Category)
	})
}
