package domain

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// SessionKey 购物车在会话中占用的键
const SessionKey = "cart"

// Session 请求级键值存储。购物车不拥有任何持久化状态，
// 每次请求从会话反序列化重建，每次修改后重新序列化写回。
type Session interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
	MarkDirty()
}

// Line 购物车中单个商品的条目
type Line struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// TotalPrice 条目小计，使用加入时捕获的单价
func (l Line) TotalPrice() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// wireLine 会话中的序列化格式：{"quantity": n, "price": "12.34"}，
// 键为字符串形式的商品 ID
type wireLine struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Cart 会话购物车。商品 ID 到条目的映射，单价在商品加入时捕获，
// 之后商品价格变动不影响已有条目。
type Cart struct {
	session Session
	lines   map[string]wireLine
}

// NewCart 从会话构建购物车。会话中不存在或无法解析时初始化为空并立即写回，
// 保证同一会话内后续读取观察到一致的购物车键。
func NewCart(session Session) *Cart {
	c := &Cart{session: session}

	if raw, ok := session.Get(SessionKey); ok {
		if err := json.Unmarshal(raw, &c.lines); err == nil && c.lines != nil {
			return c
		}
	}

	c.lines = map[string]wireLine{}
	c.save()
	return c
}

// Add 添加商品或更新其数量。updateQuantity 为 true 时将数量设为 quantity，
// 结果 <= 0 则移除该条目；为 false 时在现有数量上累加。
// 新条目的单价在此刻捕获。
func (c *Cart) Add(productID uint, price decimal.Decimal, quantity int, updateQuantity bool) {
	key := lineKey(productID)

	line, ok := c.lines[key]
	if !ok {
		line = wireLine{Quantity: 0, Price: price}
	}

	if updateQuantity {
		line.Quantity = quantity
	} else {
		line.Quantity += quantity
	}

	// 数量归零或为负的条目移除而非存储
	if line.Quantity <= 0 {
		delete(c.lines, key)
		c.save()
		return
	}

	c.lines[key] = line
	c.save()
}

// Remove 移除商品条目，不存在时为 no-op
func (c *Cart) Remove(productID uint) {
	key := lineKey(productID)
	if _, ok := c.lines[key]; !ok {
		return
	}
	delete(c.lines, key)
	c.save()
}

// Clear 从会话中删除整个购物车键，下次构建时重新初始化为空
func (c *Cart) Clear() {
	c.lines = map[string]wireLine{}
	c.session.Delete(SessionKey)
	c.session.MarkDirty()
}

// Lines 返回当前条目快照，按商品 ID 升序
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.lines))
	for key, wl := range c.lines {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			continue
		}
		lines = append(lines, Line{
			ProductID: uint(id),
			Quantity:  wl.Quantity,
			UnitPrice: wl.Price,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// Len 购物车内商品总件数（数量之和，不是条目数）
func (c *Cart) Len() int {
	var n int
	for _, wl := range c.lines {
		n += wl.Quantity
	}
	return n
}

// TotalPrice 购物车总价，使用各条目加入时捕获的单价
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, wl := range c.lines {
		total = total.Add(wl.Price.Mul(decimal.NewFromInt(int64(wl.Quantity))))
	}
	return total
}

// save 序列化写回会话并标记待持久化
func (c *Cart) save() {
	raw, err := json.Marshal(c.lines)
	if err != nil {
		// map[string]wireLine 序列化不会失败
		return
	}
	c.session.Set(SessionKey, raw)
	c.session.MarkDirty()
}

func lineKey(productID uint) string {
	return strconv.FormatUint(uint64(productID), 10)
}
