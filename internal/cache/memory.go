package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/xiao-e-yun/image-provider/internal/imaging"
)

// Key 唯一定位一个变换结果：解析后的绝对路径 + 归一化变换参数。
// 两次请求仅当路径与全部变换字段相等时才命中同一条目。
type Key struct {
	Path      string
	Transform imaging.Transform
}

// Stats 汇总运行期命中情况，供 /-/stats 诊断接口输出。
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Entries   int    `json:"entries"`
}

// Store 抽象结果缓存的读写，便于在测试中注入假实现。
type Store interface {
	// Lookup 返回未过期的缓存字节；命中会刷新条目的存活窗口。
	Lookup(key Key) ([]byte, bool)

	// Insert 写入编码结果；容量已满且 key 为新条目时先按最久未刷新淘汰。
	Insert(key Key, data []byte)

	// Stats 返回当前统计快照。
	Stats() Stats
}

// Memory 是 Store 的进程内实现：map 提供 O(1) 查找，
// 双向链表按最近刷新排序以支撑淘汰。容量为 0 时完全停用。
type Memory struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[Key]*list.Element
	order    *list.List
	stats    Stats
	now      func() time.Time
}

type entry struct {
	key         Key
	data        []byte
	refreshedAt time.Time
}

// NewMemory 构建结果缓存。capacity 为条目上限（0 表示停用），
// ttl 为滑动过期窗口。整个进程复用一份实例。
func NewMemory(capacity int, ttl time.Duration) *Memory {
	return &Memory{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[Key]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

// Lookup 实现 Store。锁只覆盖 map/链表操作本身，绝不跨越解码或编码阶段。
func (m *Memory) Lookup(key Key) ([]byte, bool) {
	if m == nil || m.capacity <= 0 {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	elem, found := m.entries[key]
	if !found {
		m.stats.Misses++
		return nil, false
	}

	ent := elem.Value.(*entry)
	if m.expired(ent) {
		m.removeElement(elem)
		m.stats.Misses++
		return nil, false
	}

	// 命中即刷新：滑动 TTL 且更新淘汰顺序。
	ent.refreshedAt = m.now()
	m.order.MoveToFront(elem)
	m.stats.Hits++
	return ent.data, true
}

// Insert 实现 Store。条目数永远不会超过 capacity。
func (m *Memory) Insert(key Key, data []byte) {
	if m == nil || m.capacity <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, found := m.entries[key]; found {
		ent := elem.Value.(*entry)
		ent.data = data
		ent.refreshedAt = m.now()
		m.order.MoveToFront(elem)
		return
	}

	if m.order.Len() >= m.capacity {
		m.evictOldest()
	}

	elem := m.order.PushFront(&entry{
		key:         key,
		data:        data,
		refreshedAt: m.now(),
	})
	m.entries[key] = elem
}

// Stats 实现 Store。
func (m *Memory) Stats() Stats {
	if m == nil {
		return Stats{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.stats
	snapshot.Entries = m.order.Len()
	return snapshot
}

func (m *Memory) expired(ent *entry) bool {
	if m.ttl <= 0 {
		return false
	}
	return m.now().After(ent.refreshedAt.Add(m.ttl))
}

func (m *Memory) evictOldest() {
	if elem := m.order.Back(); elem != nil {
		m.removeElement(elem)
		m.stats.Evictions++
	}
}

func (m *Memory) removeElement(elem *list.Element) {
	m.order.Remove(elem)
	delete(m.entries, elem.Value.(*entry).key)
}
