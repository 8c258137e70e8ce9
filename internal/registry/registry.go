// internal/registry/registry.go

// Package registry 為車輛的聚合根：持有所有現存車輛、各自的快照歷史與遞增 ID 計數器，
// 並提供建立、查詢、列出、更新、刪除與還原操作。
// 採用單一互斥鎖 (sync.Mutex) 讓 ID 分配與歷史追加保持序列化。
package registry

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"autoshop/internal/vehicle"
)

// Observer 接收每次操作的結果，供指標 (metrics) 使用。可為 nil。
type Observer interface {
	ObserveOperation(op string, ok bool)
	ObserveVehicles(n int)
}

// Registry 為聚合根：
// - mu：序列化所有讀寫。
// - nextID：下一個可用 ID，從 1 開始、嚴格遞增、刪除後不回收。
// - entries：ID → 車輛與歷史；刪除時兩者一併移除。
type Registry struct {
	mu       sync.Mutex
	nextID   int
	entries  map[int]*entry
	logger   *slog.Logger
	observer Observer
}

// Option 調整 Registry 的可選相依。
type Option func(*Registry)

// WithLogger 指定結構化日誌；預設使用 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithObserver 指定操作結果的觀察者。
func WithObserver(o Observer) Option {
	return func(r *Registry) { r.observer = o }
}

// NewRegistry 建立空白 registry（僅 in-memory 狀態）。
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		nextID:  1,
		entries: make(map[int]*entry),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create 以建構器組裝車輛並登記，回傳新 ID。
// 車型不合法時回傳 ErrUnsupportedVariant，不登記任何車輛，計數器也不前進。
func (r *Registry) Create(f Fields) (int, error) {
	b := vehicle.NewBuilder().Brand(f.Brand).Model(f.Model).Color(f.Color)
	if f.Variant != nil {
		b.Variant(*f.Variant)
	}
	for _, name := range f.Features {
		b.AddFeature(name)
	}
	v, err := b.Build()
	if err != nil {
		r.observe("create", false)
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.entries[id] = &entry{vehicle: v, history: []vehicle.Snapshot{v.Snapshot()}}
	r.nextID++

	r.logger.Info("vehicle created", "id", id, "variant", v.Variant(), "features", len(v.Features()))
	r.observe("create", true)
	r.observeCount()
	return id, nil
}

// Get 回傳指定車輛目前的視圖；不存在回傳 ErrNotFound。
func (r *Registry) Get(id int) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		r.observe("get", false)
		return View{}, ErrNotFound
	}
	r.observe("get", true)
	return viewOf(id, e.vehicle), nil
}

// List 依 ID 遞增（即建立順序）回傳所有車輛的視圖。
func (r *Registry) List() []View {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := slices.Sorted(maps.Keys(r.entries))
	out := make([]View, 0, len(ids))
	for _, id := range ids {
		out = append(out, viewOf(id, r.entries[id].vehicle))
	}
	r.observe("list", true)
	return out
}

// Update 寫入 Patch 中有提供的欄位，成功後追加一份快照。
// 即使 Patch 為空也會追加快照（歷史長度每次成功更新恰好 +1）。
func (r *Registry) Update(id int, p Patch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		r.observe("update", false)
		return false
	}
	p.apply(e.vehicle)
	e.history = append(e.history, e.vehicle.Snapshot())
	r.logger.Debug("vehicle updated", "id", id, "version", len(e.history)-1)
	r.observe("update", true)
	return true
}

// Delete 一併移除車輛與其全部歷史。
func (r *Registry) Delete(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		r.observe("delete", false)
		return false
	}
	delete(r.entries, id)
	r.logger.Info("vehicle deleted", "id", id)
	r.observe("delete", true)
	r.observeCount()
	return true
}

// Restore 以第 version 份快照（從 0 起算）覆寫車輛狀態。
// 還原不會追加快照，也不會截斷較新的版本；之後仍可還原到任何版本。
func (r *Registry) Restore(id, version int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || version < 0 || version >= len(e.history) {
		r.observe("restore", false)
		return false
	}
	e.vehicle.Restore(e.history[version])
	r.logger.Info("vehicle restored", "id", id, "version", version)
	r.observe("restore", true)
	return true
}

// History 回傳指定車輛的快照歷史拷貝；不存在回傳 ErrNotFound。
func (r *Registry) History(id int) ([]vehicle.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		r.observe("history", false)
		return nil, ErrNotFound
	}
	r.observe("history", true)
	return slices.Clone(e.history), nil
}

// Len 回傳目前現存車輛數。
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) observe(op string, ok bool) {
	if r.observer != nil {
		r.observer.ObserveOperation(op, ok)
	}
}

// observeCount 必須在持有 mu 時呼叫。
func (r *Registry) observeCount() {
	if r.observer != nil {
		r.observer.ObserveVehicles(len(r.entries))
	}
}
