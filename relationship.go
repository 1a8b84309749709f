package goorm

import (
	"strings"
	"sync"
)

// ref is a late-bound "Model.attr" column reference. It resolves
// against the model registry on first use and memoizes the result, or
// wraps an already-resolved *Column when the caller had one in hand
// at declaration time.
type ref struct {
	once   sync.Once
	spec   string
	direct *Column
	col    *Column
	err    error
}

// Ref builds a reference from either a *Column or a "Model.attr"
// string.
func Ref(v any) *ref {
	switch x := v.(type) {
	case *Column:
		return &ref{direct: x}
	case string:
		return &ref{spec: x}
	default:
		panic("goorm: Ref expects a *Column or a \"Model.attr\" string")
	}
}

func (r *ref) resolve() (*Column, error) {
	if r.direct != nil {
		return r.direct, nil
	}
	r.once.Do(func() {
		modelName, attr, ok := strings.Cut(r.spec, ".")
		if !ok {
			r.err = newErr(UnresolvedReference, "malformed reference %q, want \"Model.attr\"", r.spec)
			return
		}
		meta, found := LookupModel(modelName)
		if !found {
			r.err = newErr(UnresolvedReference, "unknown model %q", modelName)
			return
		}
		col := meta.ColByAttr(attr)
		if col == nil {
			r.err = newErr(UnresolvedReference, "unknown column %q on model %q", attr, modelName)
			return
		}
		r.col = col
	})
	if r.err != nil {
		return nil, r.err
	}
	return r.col, nil
}

// ToOne reads the single related instance where other == self.my,
// and on write copies the assigned instance's other-column value into
// self.my.
type ToOne struct {
	my    *ref
	other *ref
}

func NewToOne(my, other any) ToOne {
	return ToOne{my: Ref(my), other: Ref(other)}
}

// Get resolves the related instance, or nil if none exists.
func (t ToOne) Get(owner Entity, conn Conn) (Entity, error) {
	myCol, err := t.my.resolve()
	if err != nil {
		return nil, err
	}
	otherCol, err := t.other.resolve()
	if err != nil {
		return nil, err
	}
	ms, err := otherCol.Model.Find(Eq(otherCol, owner.Get(myCol)))
	if err != nil {
		return nil, err
	}
	rows, err := ms.All(conn)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Set copies other's value for otherCol into owner's my column.
func (t ToOne) Set(owner, assigned Entity) error {
	myCol, err := t.my.resolve()
	if err != nil {
		return err
	}
	otherCol, err := t.other.resolve()
	if err != nil {
		return err
	}
	owner.Set(myCol, assigned.Get(otherCol))
	return nil
}

// ToMany is a read-only lazy query for every instance where
// other == self.my.
type ToMany struct {
	my    *ref
	other *ref
}

func NewToMany(my, other any) ToMany {
	return ToMany{my: Ref(my), other: Ref(other)}
}

func (t ToMany) Find(owner Entity) (*ModelSelect, error) {
	myCol, err := t.my.resolve()
	if err != nil {
		return nil, err
	}
	otherCol, err := t.other.resolve()
	if err != nil {
		return nil, err
	}
	return otherCol.Model.Find(Eq(otherCol, owner.Get(myCol)))
}

// ManyToMany is a read-only lazy query through a join table: the FROM
// clause names both the join model and the target model, filtered by
// my_join == self.my and other_join == other.
type ManyToMany struct {
	my        *ref
	myJoin    *ref
	otherJoin *ref
	other     *ref
}

func NewManyToMany(my, myJoin, otherJoin, other any) ManyToMany {
	return ManyToMany{
		my:        Ref(my),
		myJoin:    Ref(myJoin),
		otherJoin: Ref(otherJoin),
		other:     Ref(other),
	}
}

func (m ManyToMany) Find(owner Entity) (*ModelSelect, error) {
	myCol, err := m.my.resolve()
	if err != nil {
		return nil, err
	}
	myJoinCol, err := m.myJoin.resolve()
	if err != nil {
		return nil, err
	}
	otherJoinCol, err := m.otherJoin.resolve()
	if err != nil {
		return nil, err
	}
	otherCol, err := m.other.resolve()
	if err != nil {
		return nil, err
	}
	ms, err := NewModelSelect([]*ModelMeta{otherCol.Model, otherJoinCol.Model})
	if err != nil {
		return nil, err
	}
	pred := And(Eq(myJoinCol, owner.Get(myCol)), Eq(otherJoinCol, otherCol))
	return ms.Find(pred), nil
}

// readOnlyWrite is the shared error both ToMany and ManyToMany return
// for any attempted write.
func readOnlyWrite() error {
	return newErr(ReadOnlyRelationship, "relationship is read-only")
}

func (t ToMany) Set(Entity, Entity) error     { return readOnlyWrite() }
func (m ManyToMany) Set(Entity, Entity) error { return readOnlyWrite() }
