package message

// Target is a page that can replace the content of an element by id.
// page.Document implements it.
type Target interface {
	// SetText sets the element's content as plain text.
	SetText(id, text string) error
	// SetMarkup sets the element's content as raw, trusted markup.
	SetMarkup(id, markup string) error
}

// Render writes msg into element id. Markup rendering must be requested
// explicitly; otherwise msg is assigned as text.
func Render(t Target, id, msg string, markup bool) error {
	if markup {
		return t.SetMarkup(id, msg)
	}
	return t.SetText(id, msg)
}
