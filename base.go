package goorm

// noValue is the sentinel distinguishing "this column was never set"
// from a stored nil.
type noValue struct{}

// NoValue is returned by Get for a column that has never been set or
// materialized.
var NoValue = noValue{}

// Entity is implemented by every generated model struct via an
// embedded Base. The lifecycle helpers in lifecycle.go operate purely
// against this interface.
type Entity interface {
	Meta() *ModelMeta
	IsNew() bool
	Get(c *Column) any
	Set(c *Column, v any)
	SetFromDB(c *Column, v any)
	markSaved()
	markReloaded()
	markDeleted()
	isDirty(c *Column) bool
	priorOrCurrent(c *Column) any
}

// Base is the dirty-tracking state every model embeds: which columns
// have been assigned since the last save/reload, and whether the
// instance has ever been persisted.
type Base struct {
	meta   *ModelMeta
	values map[*Column]any
	dirty  map[*Column]any
	isNew  bool
}

// NewBase constructs a fresh, unsaved Base for meta. Called by each
// model's generated factory.
func NewBase(meta *ModelMeta) Base {
	return Base{
		meta:   meta,
		values: map[*Column]any{},
		dirty:  map[*Column]any{},
		isNew:  true,
	}
}

func (b *Base) Meta() *ModelMeta { return b.meta }
func (b *Base) IsNew() bool      { return b.isNew }

// Get returns a column's current application-level value, or NoValue
// if it has never been set or materialized.
func (b *Base) Get(c *Column) any {
	v, ok := b.values[c]
	if !ok {
		return NoValue
	}
	return v
}

// Set assigns a column, recording its prior value in dirty the first
// time it changes in this save cycle. Subsequent assignments within
// the same cycle overwrite only the current value.
func (b *Base) Set(c *Column, v any) {
	if _, already := b.dirty[c]; !already {
		old, ok := b.values[c]
		if !ok {
			old = NoValue
		}
		b.dirty[c] = old
	}
	b.values[c] = v
}

// SetFromDB assigns a column from a freshly-read row. It runs the
// column's inbound converter, if any, but never marks the column
// dirty.
func (b *Base) SetFromDB(c *Column, v any) {
	if c.Converter != nil {
		v = c.Converter(v)
	}
	b.values[c] = v
}

func (b *Base) isDirty(c *Column) bool {
	_, ok := b.dirty[c]
	return ok
}

// priorOrCurrent returns the value a column held before this save
// cycle if it changed, otherwise its current value. An Update's
// identity WHERE clause uses this so that changing a primary column
// still targets the original row.
func (b *Base) priorOrCurrent(c *Column) any {
	if old, ok := b.dirty[c]; ok {
		if _, isNoVal := old.(noValue); isNoVal {
			return nil
		}
		return old
	}
	return b.values[c]
}

func (b *Base) markSaved() {
	b.dirty = map[*Column]any{}
	b.isNew = false
}

func (b *Base) markReloaded() {
	b.dirty = map[*Column]any{}
	b.isNew = false
}

// markDeleted snapshots every currently-held value into dirty and
// flips back to new, so a deleted instance can be re-saved as a fresh
// insert.
func (b *Base) markDeleted() {
	snap := make(map[*Column]any, len(b.values))
	for c, v := range b.values {
		snap[c] = v
	}
	b.dirty = snap
	b.isNew = true
}
