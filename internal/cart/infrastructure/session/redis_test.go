package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionGetSetDelete(t *testing.T) {
	sess := New("sid-1")

	_, ok := sess.Get("cart")
	assert.False(t, ok)

	sess.Set("cart", []byte(`{"1":{"quantity":2,"price":"10"}}`))
	v, ok := sess.Get("cart")
	assert.True(t, ok)
	assert.JSONEq(t, `{"1":{"quantity":2,"price":"10"}}`, string(v))

	sess.Delete("cart")
	_, ok = sess.Get("cart")
	assert.False(t, ok)
}

func TestSessionDirtyOnlyWhenMarked(t *testing.T) {
	sess := New("sid-1")

	sess.Set("cart", []byte(`{}`))
	assert.False(t, sess.Dirty())

	sess.MarkDirty()
	assert.True(t, sess.Dirty())
}
