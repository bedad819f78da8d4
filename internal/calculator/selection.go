package calculator

// Choice is one user's entry in a split selection.
type Choice struct {
	Selected bool
	Amount   int64
}

// Selection is the ephemeral mapping an admin builds before creating
// payment requests: user ID to selection state and entered amount. It is
// client-only, never persisted, and discarded once requests are sent.
type Selection map[string]*Choice

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return make(Selection)
}

// Toggle flips a user's selected flag, keeping any entered amount.
func (s Selection) Toggle(userID string) {
	c, ok := s[userID]
	if !ok {
		s[userID] = &Choice{Selected: true}
		return
	}
	c.Selected = !c.Selected
}

// SetAmount records a manually entered amount for a user.
func (s Selection) SetAmount(userID string, amount int64) {
	c, ok := s[userID]
	if !ok {
		s[userID] = &Choice{Amount: amount}
		return
	}
	c.Amount = amount
}

// SelectedIDs returns the IDs of all selected users.
func (s Selection) SelectedIDs() []string {
	var ids []string
	for id, c := range s {
		if c.Selected {
			ids = append(ids, id)
		}
	}
	return ids
}

// ApplyEqualSplit overwrites every selected user's amount with the
// per-person share. This is destructive to manually entered amounts and
// only runs as an explicit user action, never automatically.
func (s Selection) ApplyEqualSplit(split Split) {
	for _, c := range s {
		if c.Selected {
			c.Amount = split.PerPerson
		}
	}
}
