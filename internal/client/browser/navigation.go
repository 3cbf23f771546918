package browser

// NavigationState tracks the directory the browser is looking at as a
// history stack. The stack is never empty; the root it was created with
// stays at the bottom.
type NavigationState struct {
	stack []string
}

func NewNavigationState(root string) *NavigationState {
	return &NavigationState{stack: []string{root}}
}

// Current returns the directory on top of the stack.
func (n *NavigationState) Current() string {
	return n.stack[len(n.stack)-1]
}

// Root reports whether the browser is at the directory the state was
// created with.
func (n *NavigationState) Root() bool {
	return len(n.stack) == 1
}

// Enter descends into the named subdirectory of the current directory.
func (n *NavigationState) Enter(subdir string) string {
	n.stack = append(n.stack, n.Current()+"/"+subdir)
	return n.Current()
}

// Up pops back to the previous directory. At the root it is a no-op.
func (n *NavigationState) Up() string {
	if len(n.stack) > 1 {
		n.stack = n.stack[:len(n.stack)-1]
	}
	return n.Current()
}

// Reset discards the history and returns to the root.
func (n *NavigationState) Reset() string {
	n.stack = n.stack[:1]
	return n.Current()
}
