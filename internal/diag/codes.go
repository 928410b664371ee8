package diag

// SchemaVersion tags every Report for forward-compatible consumers.
const SchemaVersion = "corelang.error/v1"

// Error code taxonomy, organized by the pipeline phase that raises them
// (spec.md §7). Each constant is a stable, AI- and IDE-friendly code used
// for code-action hints (e.g. RES001 triggers an import suggestion).
const (
	// Name resolution (spec.md §4.1)
	RES001 = "RES001" // UnknownName
	RES002 = "RES002" // Ambiguous
	RES003 = "RES003" // NameKindConflict (type/trait/assoc-type collide)
	RES004 = "RES004" // SelfImport
	RES005 = "RES005" // ModuleNotFound

	// Kind checking (spec.md §4.2)
	KND001 = "KND001" // KindMismatch
	KND002 = "KND002" // UnsaturatedAssocType
	KND003 = "KND003" // MalformedKindSignature

	// Type environment (spec.md §3 Type Environment, §4.3)
	TYC001 = "TYC001" // DuplicateField
	TYC002 = "TYC002" // UnknownField
	TYC003 = "TYC003" // AssocTypeInFieldOrAlias
	TYC004 = "TYC004" // DuplicateTypeDefinition

	// Unification (spec.md §4.3)
	UNI001 = "UNI001" // UnifyFail
	UNI002 = "UNI002" // OccursCheck

	// Type checker (spec.md §4.3 "Type checking")
	CHK001 = "CHK001" // UnifyFail surfaced during checking
	CHK002 = "CHK002" // OccursCheck surfaced during checking
	CHK003 = "CHK003" // InappropriatePattern (struct field)
	CHK004 = "CHK004" // InappropriatePattern (union variant)
	CHK005 = "CHK005" // MalformedPattern
	CHK006 = "CHK006" // MissingField
	CHK007 = "CHK007" // ExtraField
	CHK011 = "CHK011" // UnsatisfiedPredicate
	CHK012 = "CHK012" // AmbiguousConstraint
	CHK013 = "CHK013" // EvalSideNotIO

	// Trait environment (spec.md §4.4)
	TRT001 = "TRT001" // OverlappingInstances
	TRT002 = "TRT002" // OrphanInstance
	TRT003 = "TRT003" // UnrelatedMethod
	TRT004 = "TRT004" // MissingMethod
	TRT005 = "TRT005" // MissingAssocType

	// Pattern engine (spec.md §4.6)
	PAT001 = "PAT001" // DuplicateBinding
	PAT002 = "PAT002" // NonExhaustive
	PAT003 = "PAT003" // UnknownVariant

	// Instantiation (spec.md §4.5)
	INS001 = "INS001" // UninstantiableIndeterminate

	// Export / entry points (spec.md §6, §7)
	EXP001 = "EXP001" // EntryPointNotFound
	EXP002 = "EXP002" // EntryPointWrongType
	EXP003 = "EXP003" // DuplicateExportedName

	// Structural / declaration merging (spec.md §6)
	DEF001 = "DEF001" // DuplicateDefinition
	DEF002 = "DEF002" // MissingDeclarationOrDefinition
)

// ErrorInfo describes one error code for documentation and IDE tooling.
type ErrorInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// Registry maps every code above to its descriptive metadata.
var Registry = map[string]ErrorInfo{
	RES001: {RES001, "resolve", "name", "Unknown name"},
	RES002: {RES002, "resolve", "name", "Ambiguous name"},
	RES003: {RES003, "resolve", "name", "Name used as two different kinds of entity"},
	RES004: {RES004, "resolve", "import", "Module imports itself explicitly"},
	RES005: {RES005, "resolve", "import", "Imported module not found"},

	KND001: {KND001, "kind", "kind", "Kind mismatch"},
	KND002: {KND002, "kind", "kind", "Associated type used with wrong arity"},
	KND003: {KND003, "kind", "kind", "Malformed kind signature"},

	TYC001: {TYC001, "tyenv", "struct", "Duplicate field name"},
	TYC002: {TYC002, "tyenv", "struct", "Unknown field name"},
	TYC003: {TYC003, "tyenv", "assoc", "Associated type in field or alias body"},
	TYC004: {TYC004, "tyenv", "decl", "Duplicate type definition"},

	UNI001: {UNI001, "unify", "type", "Unification failure"},
	UNI002: {UNI002, "unify", "type", "Occurs check failure"},

	CHK001: {CHK001, "typecheck", "type", "Type mismatch"},
	CHK002: {CHK002, "typecheck", "type", "Occurs check failure"},
	CHK003: {CHK003, "typecheck", "pattern", "Pattern inappropriate for struct field"},
	CHK004: {CHK004, "typecheck", "pattern", "Pattern inappropriate for union variant"},
	CHK005: {CHK005, "typecheck", "pattern", "Malformed pattern"},
	CHK006: {CHK006, "typecheck", "struct", "Missing struct field"},
	CHK007: {CHK007, "typecheck", "struct", "Extra or unknown struct field"},
	CHK011: {CHK011, "typecheck", "constraint", "Unsatisfied predicate"},
	CHK012: {CHK012, "typecheck", "constraint", "Ambiguous constraint"},
	CHK013: {CHK013, "typecheck", "effect", "Eval side expression is not IO"},

	TRT001: {TRT001, "traits", "instance", "Overlapping instances"},
	TRT002: {TRT002, "traits", "instance", "Orphan instance"},
	TRT003: {TRT003, "traits", "instance", "Unrelated method implementation"},
	TRT004: {TRT004, "traits", "instance", "Missing method in instance"},
	TRT005: {TRT005, "traits", "instance", "Missing associated type in instance"},

	PAT001: {PAT001, "pattern", "binding", "Duplicate binding in pattern"},
	PAT002: {PAT002, "pattern", "match", "Non-exhaustive match"},
	PAT003: {PAT003, "pattern", "match", "Unknown variant in match"},

	INS001: {INS001, "instantiate", "type", "Indeterminate type after specialization"},

	EXP001: {EXP001, "export", "entry", "Entry point not found"},
	EXP002: {EXP002, "export", "entry", "Entry point has wrong type"},
	EXP003: {EXP003, "export", "entry", "Duplicated exported name"},

	DEF001: {DEF001, "merge", "decl", "Duplicate definition"},
	DEF002: {DEF002, "merge", "decl", "Declaration without definition, or vice versa"},
}
