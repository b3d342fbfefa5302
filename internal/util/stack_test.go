package util_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/util"
	"github.com/stretchr/testify/assert"
)

func Test_Stack_PushPopOrder(t *testing.T) {
	s := util.NewStack[int]()
	s.Push(1)
	s.Push(2)
	s.Push(3)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Pop())
	assert.Equal(t, 2, s.Pop())
	assert.Equal(t, 1, s.Pop())
	assert.True(t, s.Empty())
}

func Test_Stack_Peek_doesNotRemove(t *testing.T) {
	s := util.NewStack[string]()
	s.Push("x")
	assert.Equal(t, "x", s.Peek())
	assert.Equal(t, 1, s.Len())
}

func Test_Stack_Empty_onNewStack(t *testing.T) {
	s := util.NewStack[rune]()
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())
}

func Test_Stack_Pop_panicsWhenEmpty(t *testing.T) {
	s := util.NewStack[int]()
	assert.Panics(t, func() { s.Pop() })
}

func Test_Stack_Peek_panicsWhenEmpty(t *testing.T) {
	s := util.NewStack[int]()
	assert.Panics(t, func() { s.Peek() })
}
