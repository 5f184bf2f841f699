package valueobjects

// TemplateKind labels the shape of content to generate. The labels are opaque:
// they appear verbatim in the compiled prompt and are not behaviorally distinct
// beyond that, so unknown kinds are compiled as-is rather than rejected.
type TemplateKind string

const (
	TemplateBlogPost           TemplateKind = "Blog Post"
	TemplateTweetThread        TemplateKind = "Tweet Thread"
	TemplateProductDescription TemplateKind = "Product Description"
	TemplateLinkedInPost       TemplateKind = "LinkedIn Post"
)

// TemplateKinds is the fixed set offered by the UI.
var TemplateKinds = []TemplateKind{
	TemplateBlogPost,
	TemplateTweetThread,
	TemplateProductDescription,
	TemplateLinkedInPost,
}

// Known reports whether the kind is one of the fixed set.
func (k TemplateKind) Known() bool {
	for _, t := range TemplateKinds {
		if k == t {
			return true
		}
	}
	return false
}

func (k TemplateKind) String() string {
	return string(k)
}
