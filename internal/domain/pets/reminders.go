package pets

var defaultReminders = map[PetType][]string{
	PetTypeDog:     {"Morning walk", "Refill water bowl", "Give flea medication", "Schedule vet checkup"},
	PetTypeCat:     {"Scoop the litter box", "Get cat treats", "Clean the ears", "Give flea/tick treatment"},
	PetTypeRabbit:  {"Clean cage", "Refill hay", "Trim nails", "Check teeth"},
	PetTypeBird:    {"Clean cage", "Refresh seeds and water", "Spray bath", "Check feathers"},
	PetTypeHamster: {"Clean cage", "Refill food bowl", "Change bedding"},
}

// DefaultReminders devuelve una copia nueva cada vez.
func DefaultReminders(t PetType) []Reminder {
	texts := defaultReminders[t]
	out := make([]Reminder, 0, len(texts))
	for _, txt := range texts {
		out = append(out, Reminder{Text: txt})
	}
	return out
}
