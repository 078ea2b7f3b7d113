package views

// ViewState is the state every view model embeds: terminal dimensions plus
// a transient status line (copy confirmations, jump errors).
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize records the terminal dimensions.
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets the status line; isErr selects error styling.
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage empties the status line.
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// StatusLine renders the current message, empty when there is none.
func (s *ViewState) StatusLine() string {
	return RenderMessage(s.Message, s.MessageErr)
}
