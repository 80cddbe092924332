package syntax

//go:generate stringer -type=NodeKind -trimprefix=Kind

// NodeKind classifies the type of a syntax node.
//
// The parser reports node types as grammar rule names (strings); KindOf maps
// them into this closed set exactly once, at node construction. Everything
// downstream switches on NodeKind and never compares type strings again.
type NodeKind uint16

// Node kinds for the zx template sub-language.
const (
	// KindHostNode is the catch-all for anything that is not part of the
	// markup sub-language. Host nodes are always rendered by verbatim
	// byte-copy, never by the markup-aware renderers.
	KindHostNode NodeKind = iota

	KindSourceFile
	KindBlock

	// Markup structure.
	KindElement
	KindSelfClosingElement
	KindFragment
	KindStartTag
	KindEndTag
	KindTagName

	// Attribute forms.
	KindAttribute
	KindBuiltinAttribute
	KindShorthandAttribute
	KindBuiltinShorthandAttribute
	KindSpreadAttribute

	// Children and values.
	KindExpressionBlock
	KindText
	KindStringLiteral

	// Embedded control flow.
	KindIf
	KindFor
	KindWhile
	KindSwitch
	KindSwitchCase
	KindPayload
)

// kindByType maps grammar rule names to kinds. Unknown names fall through to
// KindHostNode in KindOf.
var kindByType = map[string]NodeKind{
	"source_file":                 KindSourceFile,
	"template_block":              KindBlock,
	"element":                     KindElement,
	"self_closing_element":        KindSelfClosingElement,
	"fragment":                    KindFragment,
	"start_tag":                   KindStartTag,
	"end_tag":                     KindEndTag,
	"tag_name":                    KindTagName,
	"attribute":                   KindAttribute,
	"builtin_attribute":           KindBuiltinAttribute,
	"shorthand_attribute":         KindShorthandAttribute,
	"builtin_shorthand_attribute": KindBuiltinShorthandAttribute,
	"spread_attribute":            KindSpreadAttribute,
	"expression_block":            KindExpressionBlock,
	"text":                        KindText,
	"string_literal":              KindStringLiteral,
	"if_expression":               KindIf,
	"for_expression":              KindFor,
	"while_expression":            KindWhile,
	"switch_expression":           KindSwitch,
	"switch_case":                 KindSwitchCase,
	"payload":                     KindPayload,
}

// KindOf maps a grammar rule name to its NodeKind.
// Unrecognized names map to KindHostNode.
func KindOf(typeName string) NodeKind {
	if k, ok := kindByType[typeName]; ok {
		return k
	}
	return KindHostNode
}

// IsControlFlow returns true for the embedded control-flow kinds.
func (k NodeKind) IsControlFlow() bool {
	switch k {
	case KindIf, KindFor, KindWhile, KindSwitch:
		return true
	default:
		return false
	}
}

// IsAttribute returns true for any of the attribute forms.
func (k NodeKind) IsAttribute() bool {
	switch k {
	case KindAttribute, KindBuiltinAttribute, KindShorthandAttribute,
		KindBuiltinShorthandAttribute, KindSpreadAttribute:
		return true
	default:
		return false
	}
}

// kindNames is indexed by NodeKind for String().
var kindNames = [...]string{
	KindHostNode:                  "HostNode",
	KindSourceFile:                "SourceFile",
	KindBlock:                     "Block",
	KindElement:                   "Element",
	KindSelfClosingElement:        "SelfClosingElement",
	KindFragment:                  "Fragment",
	KindStartTag:                  "StartTag",
	KindEndTag:                    "EndTag",
	KindTagName:                   "TagName",
	KindAttribute:                 "Attribute",
	KindBuiltinAttribute:          "BuiltinAttribute",
	KindShorthandAttribute:        "ShorthandAttribute",
	KindBuiltinShorthandAttribute: "BuiltinShorthandAttribute",
	KindSpreadAttribute:           "SpreadAttribute",
	KindExpressionBlock:           "ExpressionBlock",
	KindText:                      "Text",
	KindStringLiteral:             "StringLiteral",
	KindIf:                        "If",
	KindFor:                       "For",
	KindWhile:                     "While",
	KindSwitch:                    "Switch",
	KindSwitchCase:                "SwitchCase",
	KindPayload:                   "Payload",
}

// String returns the kind name for debugging and test failure messages.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}
