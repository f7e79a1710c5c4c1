package tree

// Attribute keys shared by all adapters. The set is a fixed, extensible
// registry: adapters answer the keys they model and report absence for
// the rest, so a query written for one language family degrades to
// "no match" on another instead of erroring.
const (
	AttrName     = "name"      // declared identifier
	AttrKind     = "kind"      // fine-grained kind tag
	AttrType     = "type"      // declared or syntactic type text
	AttrText     = "text"      // the node's full source text
	AttrPublic   = "public"    // exported / public visibility
	AttrPrivate  = "private"   // unexported / private visibility
	AttrStatic   = "static"    // static member (absent for Go)
	AttrAsync    = "async"     // asynchronous callable
	AttrReturns  = "returns"   // result type text of a callable
	AttrReceiver = "receiver"  // method receiver type text
	AttrOperator = "operator"  // operator symbol of an expression
	AttrValue    = "value"     // literal value text
	AttrLeft     = "left-text" // left operand source text
	AttrRight    = "right-text"
	AttrTag      = "tag"    // adapter-specific secondary tag
	AttrAnchor   = "anchor" // document anchor, YAML only

	// AttrContains is virtual: the predicate evaluator resolves
	// @contains='X' as a substring test over AttrText. Adapters never
	// answer it directly.
	AttrContains = "contains"
)

// KnownAttributes lists every key of the shared registry, for
// diagnostic output.
func KnownAttributes() []string {
	return []string{
		AttrName, AttrKind, AttrType, AttrText, AttrPublic, AttrPrivate,
		AttrStatic, AttrAsync, AttrReturns, AttrReceiver, AttrOperator,
		AttrValue, AttrLeft, AttrRight, AttrTag, AttrAnchor, AttrContains,
	}
}
