package component

// Health tracks hit points with optional regeneration and a post-hit
// invulnerability window.
type Health struct {
	Max             float64
	Current         float64
	Regeneration    float64 // HP per second
	Invulnerable    bool
	InvulnerableFor float64 // seconds left
	DestroyOnDeath  bool

	OnDamage func(amount float64)
	OnDeath  func()
	OnHeal   func(amount float64)
}

func NewHealth(max float64) *Health {
	return &Health{Max: max, Current: max}
}

// Damage lowers Current, clamped at 0. Ignored while invulnerable.
func (h *Health) Damage(amount float64) {
	if h.Invulnerable || amount <= 0 || h.Current <= 0 {
		return
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	if h.OnDamage != nil {
		h.OnDamage(amount)
	}
	if h.Current == 0 && h.OnDeath != nil {
		h.OnDeath()
	}
}

// Heal raises Current, clamped at Max.
func (h *Health) Heal(amount float64) {
	if amount <= 0 {
		return
	}
	old := h.Current
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
	if h.OnHeal != nil && h.Current > old {
		h.OnHeal(h.Current - old)
	}
}

func (h *Health) Alive() bool { return h.Current > 0 }

// Percent returns Current/Max, 0 when Max is 0.
func (h *Health) Percent() float64 {
	if h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}
