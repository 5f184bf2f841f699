package valueobjects

// VoiceProfile describes an authorial voice. It is a plain value: artifacts
// embed a copy of the profile used at generation time, so deleting the source
// persona later never corrupts history.
//
// All fields are optional. The prompt compiler renders missing fields as empty
// rather than rejecting the profile.
type VoiceProfile struct {
	Name   string `json:"name"`
	Tone   string `json:"tone"`
	Style  string `json:"style"`
	Domain string `json:"domain"`
}

// IsZero reports whether no field of the profile is set.
func (p VoiceProfile) IsZero() bool {
	return p.Name == "" && p.Tone == "" && p.Style == "" && p.Domain == ""
}
