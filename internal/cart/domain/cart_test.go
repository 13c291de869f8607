package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	values map[string][]byte
	marks  int
}

func newFakeSession() *fakeSession {
	return &fakeSession{values: map[string][]byte{}}
}

func (s *fakeSession) Get(key string) ([]byte, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *fakeSession) Set(key string, value []byte) {
	s.values[key] = value
}

func (s *fakeSession) Delete(key string) {
	delete(s.values, key)
}

func (s *fakeSession) MarkDirty() {
	s.marks++
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewCartInitializesEmptySession(t *testing.T) {
	sess := newFakeSession()

	cart := NewCart(sess)

	assert.Equal(t, 0, cart.Len())
	assert.True(t, decimal.Zero.Equal(cart.TotalPrice()))
	assert.Empty(t, cart.Lines())

	// 空购物车立即写回会话，后续读取观察到一致的键
	raw, ok := sess.Get(SessionKey)
	require.True(t, ok)
	assert.JSONEq(t, `{}`, string(raw))
	assert.Positive(t, sess.marks)
}

func TestNewCartRecoversFromCorruptState(t *testing.T) {
	sess := newFakeSession()
	sess.Set(SessionKey, []byte("not json"))

	cart := NewCart(sess)

	assert.Equal(t, 0, cart.Len())
	raw, ok := sess.Get(SessionKey)
	require.True(t, ok)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestAddAccumulatesQuantity(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)

	cart.Add(7, price("10.00"), 2, false)
	cart.Add(7, price("10.00"), 3, false)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 5, cart.Len())
}

func TestAddCapturesPriceAtInsertTime(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)

	cart.Add(7, price("10.00"), 1, false)
	// 商品价格随后变化，已有条目不受影响
	cart.Add(7, price("99.00"), 2, false)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.True(t, price("10.00").Equal(lines[0].UnitPrice))
	assert.True(t, price("30.00").Equal(cart.TotalPrice()))
}

func TestAddUpdateSetsExactQuantity(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)

	cart.Add(7, price("10.00"), 2, false)
	assert.Equal(t, 2, cart.Len())
	assert.True(t, price("20.00").Equal(cart.TotalPrice()))

	cart.Add(7, price("10.00"), 3, true)
	assert.Equal(t, 3, cart.Len())
	assert.True(t, price("30.00").Equal(cart.TotalPrice()))

	cart.Remove(7)
	assert.Equal(t, 0, cart.Len())
	assert.Empty(t, cart.Lines())
}

func TestAddUpdateToZeroRemovesLine(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)

	cart.Add(7, price("10.00"), 2, false)
	cart.Add(7, price("10.00"), 0, true)

	assert.Empty(t, cart.Lines())
	assert.Equal(t, 0, cart.Len())
}

func TestAddNegativeDropsLineBelowZero(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)

	cart.Add(7, price("10.00"), 2, false)
	cart.Add(7, price("10.00"), -5, false)

	// 数量 <= 0 的条目不允许存在
	assert.Empty(t, cart.Lines())
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)
	marksBefore := sess.marks

	cart.Remove(42)

	assert.Equal(t, marksBefore, sess.marks)
	assert.Equal(t, 0, cart.Len())
}

func TestTotalPriceSumsCapturedPrices(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)

	cart.Add(1, price("10.00"), 1, false)
	cart.Add(2, price("5.50"), 4, false)

	assert.True(t, price("32.00").Equal(cart.TotalPrice()))
	assert.Equal(t, 5, cart.Len())

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.True(t, price("10.00").Equal(lines[0].TotalPrice()))
	assert.True(t, price("22.00").Equal(lines[1].TotalPrice()))
}

func TestClearDeletesSessionKey(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)
	cart.Add(7, price("10.00"), 2, false)

	cart.Clear()

	_, ok := sess.Get(SessionKey)
	assert.False(t, ok, "clear removes the key itself, not merely empties it")
	assert.Equal(t, 0, cart.Len())

	// 同一会话上重新构建，回到空购物车
	fresh := NewCart(sess)
	assert.Equal(t, 0, fresh.Len())
	assert.Empty(t, fresh.Lines())
	_, ok = sess.Get(SessionKey)
	assert.True(t, ok)
}

func TestCartPersistsAcrossReconstruction(t *testing.T) {
	sess := newFakeSession()

	cart := NewCart(sess)
	cart.Add(7, price("10.00"), 2, false)
	cart.Add(12, price("5.50"), 1, false)

	// 下一个请求：从同一会话状态重建
	reloaded := NewCart(sess)
	assert.Equal(t, 3, reloaded.Len())
	assert.True(t, price("25.50").Equal(reloaded.TotalPrice()))

	lines := reloaded.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, uint(7), lines[0].ProductID)
	assert.Equal(t, uint(12), lines[1].ProductID)
}

func TestWireFormatShape(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)
	cart.Add(7, price("10.00"), 2, false)

	raw, ok := sess.Get(SessionKey)
	require.True(t, ok)

	// 以字符串商品 ID 为键，价格序列化为十进制字符串
	var wire map[string]struct {
		Quantity int    `json:"quantity"`
		Price    string `json:"price"`
	}
	require.NoError(t, json.Unmarshal(raw, &wire))
	require.Contains(t, wire, "7")
	assert.Equal(t, 2, wire["7"].Quantity)
	assert.Equal(t, "10", wire["7"].Price)
}

func TestLenNeverCountsRemovedLines(t *testing.T) {
	sess := newFakeSession()
	cart := NewCart(sess)

	cart.Add(1, price("1.00"), 3, false)
	cart.Add(2, price("2.00"), 2, false)
	cart.Remove(1)
	cart.Add(3, price("3.00"), 0, true)

	assert.Equal(t, 2, cart.Len())
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, uint(2), cart.Lines()[0].ProductID)
}
