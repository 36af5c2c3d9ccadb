// Package dsl implements the scripting language: its grammar,
// abstract syntax tree, and the asynchronous tree-walking
// interpreter that executes it.
package dsl

// Script is the result of parsing a single script file: accumulated
// global settings, macro definitions, and trigger blocks.
type Script struct {
	GlobalSettings []GlobalSetting
	Macros         []Macro
	Blocks         []Block
}

// GlobalSetting is a top-level `name = "value";` declaration. Only CLI
// is currently defined by the grammar; settings are accumulated but
// have no effect on the hot path (they are surfaced to external
// consumers only).
type GlobalSetting struct {
	Name  string
	Value string
}

// Macro is a named, reusable body of statements invocable from any
// block or other macro via MacroCall.
type Macro struct {
	Name string
	Body []Statement
}

// Block is one or more trigger combinations (OR'd together) guarding a
// shared body of statements.
type Block struct {
	Triggers []TriggerCombination
	Body     []Statement
}

// TriggerCombination is an ordered set of keys that must all be held
// simultaneously; the last element is the completing key.
type TriggerCombination struct {
	Keys []TriggerKey
}

// TriggerKeyKind distinguishes the three ways a trigger key can be
// spelled in source.
type TriggerKeyKind int

const (
	// Physical is a literal set-1 scan code: "#0x1D".
	Physical TriggerKeyKind = iota
	// ExtendedPhysical is a set-1 scan code with the extended bit forced
	// on: "#E0/0x2E".
	ExtendedPhysical
	// Virtual is a symbolic key name resolved through the key identity
	// table at profile load: "Code_A" or a bare identifier.
	Virtual
)

// TriggerKey is the tagged-variant key reference used in trigger
// combinations and send expressions.
type TriggerKey struct {
	Kind TriggerKeyKind
	Code uint16 // valid when Kind is Physical or ExtendedPhysical
	Name string // valid when Kind is Virtual
}

// StatementKind discriminates the Statement sum type.
type StatementKind int

const (
	StmtRun StatementKind = iota
	StmtExecute
	StmtTryRun
	StmtTryExecute
	StmtSend
	StmtWait
	StmtIf
	StmtLoop
	StmtMacroCall
)

// Statement is every statement variant defined by grammar,
// folded into a single struct with the fields relevant to Kind
// populated. This mirrors the original's Rust enum without Go's lack of
// tagged unions forcing a type explosion.
type Statement struct {
	Kind StatementKind

	// StmtRun / StmtExecute / StmtTryRun / StmtTryExecute
	Command string
	Failure *Statement // TryRun/TryExecute's FailRun/FailExecute fallback

	// StmtSend
	SendExprs []SendExpression

	// StmtWait
	WaitMillis uint64

	// StmtIf
	Condition  Condition
	Then       []Statement
	ElseIfs    []ElseIf
	Else       []Statement
	HasElse    bool

	// StmtLoop
	LoopCount uint64
	LoopBody  []Statement

	// StmtMacroCall
	MacroName string
}

// ElseIf is one `elif cond { ... }` clause attached to an If statement.
type ElseIf struct {
	Condition Condition
	Body      []Statement
}

// ConditionKind discriminates the Condition sum type.
type ConditionKind int

const (
	CondWaitInput ConditionKind = iota
	CondWaitInputTime
	CondNowInput
	CondWaitReleased
	CondWaitReleasedTime
)

// Condition carries a set of alternative (OR-logic) trigger
// combinations and, for the timed variants, a millisecond timeout.
type Condition struct {
	Kind    ConditionKind
	Combos  []TriggerCombination
	Millis  uint64
}

// SendExpressionKind discriminates the SendExpression sum type.
type SendExpressionKind int

const (
	SendKey SendExpressionKind = iota
	SendString
	SendCombo
	SendHold
	SendRelease
)

// SendExpression is one element of a Send statement's expression list.
type SendExpression struct {
	Kind  SendExpressionKind
	Key   TriggerKey   // SendKey, SendHold, SendRelease
	Text  string       // SendString
	Combo []TriggerKey // SendCombo
}
