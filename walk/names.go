package walk

import "github.com/glint-lang/cfgbuild/symbols"

// magicNames interns the fixed set of names the inferencer's contract
// requires verbatim. They're resolved once per Builder against whatever
// symbols.Table the caller supplied, so two builders sharing a table
// always agree on e.g. what "self" means.
type magicNames struct {
	ifTemp            symbols.Name
	whileTemp         symbols.Name
	statTemp          symbols.Name
	returnTemp        symbols.Name
	nextTemp          symbols.Name
	blockBreakAssign  symbols.Name
	rescueStartTemp   symbols.Name
	rescueEndTemp     symbols.Name
	gotoDeadTemp      symbols.Name
	throwAwayTemp     symbols.Name
	exceptionClass    symbols.Name
	isaCheckTemp      symbols.Name
	selfRestore       symbols.Name
	blockPreCallTemp  symbols.Name
	blockReturnTemp   symbols.Name
	arrayTemp         symbols.Name
	hashTemp          symbols.Name
	castTemp          symbols.Name
	magic             symbols.Name
	keepForIDE        symbols.Name
	blockCall         symbols.Name
	self              symbols.Name
	blkArg            symbols.Name
	isAP              symbols.Name
	squareBrackets    symbols.Name
	buildArray        symbols.Name
	buildHash         symbols.Name
	standardError     symbols.Name
	absurd            symbols.Name
}

func newMagicNames(t *symbols.Table) magicNames {
	return magicNames{
		ifTemp:           t.InternName("ifTemp"),
		whileTemp:        t.InternName("whileTemp"),
		statTemp:         t.InternName("statTemp"),
		returnTemp:       t.InternName("returnTemp"),
		nextTemp:         t.InternName("nextTemp"),
		blockBreakAssign: t.InternName("blockBreakAssign"),
		rescueStartTemp:  t.InternName("rescueStartTemp"),
		rescueEndTemp:    t.InternName("rescueEndTemp"),
		gotoDeadTemp:     t.InternName("gotoDeadTemp"),
		throwAwayTemp:    t.InternName("throwAwayTemp"),
		exceptionClass:   t.InternName("exceptionClassTemp"),
		isaCheckTemp:     t.InternName("isaCheckTemp"),
		selfRestore:      t.InternName("selfRestore"),
		blockPreCallTemp: t.InternName("blockPreCallTemp"),
		blockReturnTemp:  t.InternName("blockReturnTemp"),
		arrayTemp:        t.InternName("arrayTemp"),
		hashTemp:         t.InternName("hashTemp"),
		castTemp:         t.InternName("castTemp"),
		magic:            t.InternName("Magic"),
		keepForIDE:       t.InternName("keepForIde"),
		blockCall:        t.InternName("<blockCall>"),
		self:             t.InternName("self"),
		blkArg:           t.InternName("blkArg"),
		isAP:             t.InternName("is_a?"),
		squareBrackets:   t.InternName("[]"),
		buildArray:       t.InternName("buildArray"),
		buildHash:        t.InternName("buildHash"),
		standardError:    t.InternName("StandardError"),
		absurd:           t.InternName("absurd"),
	}
}
