package symbols

import "fmt"

// Name is an interned identifier. The zero Name is invalid.
type Name struct{ id int }

func (n Name) Exists() bool { return n.id != 0 }

// Symbol is a resolved global: a class, module, constant, instance
// variable, or class variable member.
type Symbol struct{ id int }

func (s Symbol) Exists() bool { return s.id != 0 }

type TypeRef struct{ id int }

type LocalRef struct{ id int }

type LiteralValue struct {
	Kind LiteralKind
	Int  int64
	Str  string
	Sym  Name
}

type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralString
	LiteralSymbol
	LiteralNil
	LiteralTrue
	LiteralFalse
)

type Table struct {
	names   []string
	nameIdx map[string]Name

	symOwner    []Symbol // parent class/module symbol, 0 for none
	symName     []Name
	symAttached []Symbol // the class a singleton class is attached to, 0 if not a singleton
	members     map[Symbol]map[Name]Symbol

	types []string

	locals []string
}

// Well-known symbols, fixed at table construction.
var (
	StubModule    = Symbol{id: 1}
	Untyped       = Symbol{id: 2}
	MagicClass    = Symbol{id: 3}
	StandardError = Symbol{id: 4}
	TModule       = Symbol{id: 5}
)

func NewTable() *Table {
	t := &Table{
		nameIdx: make(map[string]Name),
		members: make(map[Symbol]map[Name]Symbol),
		// index 0 is reserved for the invalid zero value in every handle type
		names:       []string{""},
		symOwner:    []Symbol{{}},
		symName:     []Name{{}},
		symAttached: []Symbol{{}},
		types:       []string{""},
		locals:      []string{""},
	}

	t.symOwner = append(t.symOwner, Symbol{}, Symbol{}, Symbol{}, Symbol{}, Symbol{})
	t.symAttached = append(t.symAttached, Symbol{}, Symbol{}, Symbol{}, Symbol{}, Symbol{})
	t.symName = append(t.symName,
		t.InternName("<StubModule>"),
		t.InternName("<untyped>"),
		t.InternName("Magic"),
		t.InternName("StandardError"),
		t.InternName("T"),
	)

	return t
}

func (t *Table) InternName(s string) Name {
	if id, ok := t.nameIdx[s]; ok {
		return id
	}

	n := Name{id: len(t.names)}
	t.names = append(t.names, s)
	t.nameIdx[s] = n

	return n
}

func (t *Table) NameString(n Name) string {
	if !n.Exists() || n.id >= len(t.names) {
		return "<invalid-name>"
	}

	return t.names[n.id]
}

func (t *Table) DefineSymbol(owner Symbol, name Name) Symbol {
	sym := Symbol{id: len(t.symOwner)}
	t.symOwner = append(t.symOwner, owner)
	t.symName = append(t.symName, name)
	t.symAttached = append(t.symAttached, Symbol{})

	if t.members[owner] == nil {
		t.members[owner] = make(map[Name]Symbol)
	}
	t.members[owner][name] = sym

	return sym
}

func (t *Table) DefineSingletonClass(owner, attached Symbol) Symbol {
	sym := Symbol{id: len(t.symOwner)}
	t.symOwner = append(t.symOwner, owner)
	t.symName = append(t.symName, Name{})
	t.symAttached = append(t.symAttached, attached)

	return sym
}

func (t *Table) AttachedClass(s Symbol) Symbol {
	if !s.Exists() || s.id >= len(t.symAttached) {
		return Symbol{}
	}

	return t.symAttached[s.id]
}

func (t *Table) SymbolName(s Symbol) Name {
	if !s.Exists() || s.id >= len(t.symName) {
		return Name{}
	}

	return t.symName[s.id]
}

func (t *Table) FindMemberTransitive(owner Symbol, name Name) Symbol {
	for cur := owner; ; {
		if m, ok := t.members[cur][name]; ok {
			return m
		}

		parent := t.symOwner[cur.id]
		if parent == cur || !parent.Exists() {
			return Symbol{}
		}

		cur = parent
	}
}

func (t *Table) AddType(desc string) TypeRef {
	id := TypeRef{id: len(t.types)}
	t.types = append(t.types, desc)
	return id
}

func (t *Table) TypeString(r TypeRef) string {
	if r.id <= 0 || r.id >= len(t.types) {
		return "<invalid-type>"
	}

	return t.types[r.id]
}

func (t *Table) NewLocalRef(name string) LocalRef {
	id := LocalRef{id: len(t.locals)}
	t.locals = append(t.locals, name)
	return id
}

func (t *Table) LocalRefString(l LocalRef) string {
	if l.id <= 0 || l.id >= len(t.locals) {
		return "<invalid-local>"
	}

	return t.locals[l.id]
}

func (n Name) String() string     { return fmt.Sprintf("Name(%d)", n.id) }
func (s Symbol) String() string   { return fmt.Sprintf("Symbol(%d)", s.id) }
func (r TypeRef) String() string  { return fmt.Sprintf("TypeRef(%d)", r.id) }
func (l LocalRef) String() string { return fmt.Sprintf("LocalRef(%d)", l.id) }
