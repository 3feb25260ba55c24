package tasks

// Dialog is the "new task" modal. One instance is built at startup and
// handed to the Controller, which only shows and hides it.
type Dialog struct {
	input string
}

func NewDialog() *Dialog {
	return &Dialog{}
}

// Input returns the text typed into the dialog so far
func (d *Dialog) Input() string {
	return d.input
}

func (d *Dialog) SetInput(s string) {
	d.input = s
}

func (d *Dialog) clear() {
	d.input = ""
}
